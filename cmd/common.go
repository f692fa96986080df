package cmd

import (
	"errors"
	"strings"

	"git-keyscan/internal/config"
	"git-keyscan/internal/detect"
	"git-keyscan/internal/logger"
	"git-keyscan/internal/report"
	"git-keyscan/internal/scan"
)

var (
	errNoRepositoriesAdded = errors.New("no repositories added")
	errMissingUsername     = errors.New("github username is not set (use --user, GITHUB_USERNAME or 'git-keyscan set username <name>')")
)

// scanOptions 是 scan 命令的命令行参数。
type scanOptions struct {
	user           string
	token          string
	apiURL         string
	branch         string
	exts           []string
	ignores        []string
	format         string
	gitleaks       bool
	gitleaksConfig string
	failOnFindings bool
	local          bool
}

// RunContext holds the resolved settings of one scan:
// command-line flags override the environment, which overrides the config file.
type RunContext struct {
	Username string
	Token    string
	APIURL   string
	Branch   string
	Filter   scan.Filter
	Format   report.Format
	Detector detect.Detector
}

// prepareRun 加载配置、合并命令行参数并构建检测器。
func prepareRun(opts scanOptions) (*RunContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return nil, err
	}

	rc := &RunContext{
		Username: firstNonEmpty(opts.user, cfg.Username),
		Token:    firstNonEmpty(opts.token, cfg.Token),
		APIURL:   firstNonEmpty(opts.apiURL, cfg.APIURL, config.DefaultAPIURL),
		Branch:   firstNonEmpty(opts.branch, cfg.Branch),
		Filter: scan.Filter{
			Extensions:  config.MergeList(cfg.Extensions, opts.exts),
			IgnoredDirs: config.MergeList(cfg.IgnoredDirs, opts.ignores),
		},
		Format: format,
	}

	if !opts.local {
		if rc.Username == "" {
			return nil, errMissingUsername
		}
		if rc.Token == "" {
			logger.L().Warn("cmd.no_token", "hint", "only public repositories are visible and rate limits are low")
		}
	}

	detectors := detect.Multi{detect.NewRegexDetector()}
	if opts.gitleaks || strings.TrimSpace(opts.gitleaksConfig) != "" {
		gl, err := detect.NewGitleaksDetector(opts.gitleaksConfig)
		if err != nil {
			return nil, err
		}
		detectors = append(detectors, gl)
	}
	rc.Detector = detectors

	return rc, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
