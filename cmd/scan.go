package cmd

import (
	"fmt"

	"git-keyscan/internal/github"
	"git-keyscan/internal/report"
	"git-keyscan/internal/repo"
	"git-keyscan/internal/scan"

	"github.com/spf13/cobra"
)

// findingsError 在 --fail-on-findings 且发现疑似密钥时返回，使进程以非零码退出。
type findingsError struct {
	count int
}

func (e *findingsError) Error() string {
	return fmt.Sprintf("found %d potential API key(s)", e.count)
}

// newScanCmd 构建 scan 命令，便于在测试中复用。
func newScanCmd() *cobra.Command {
	opts := &scanOptions{}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan repositories for potential API keys",
		Long: `Scan every repository of a GitHub user for potential API keys.

Repositories are listed through the GitHub REST API, each repository's file
tree is walked recursively, and files whose path ends in an allowed extension
(and does not contain an ignored directory name) are downloaded and matched
against the built-in patterns. With --local, the repositories registered by
"git-keyscan add" are scanned from their committed tree instead.`,
		Example: `  GITHUB_TOKEN=ghp_xxx git-keyscan scan --user octocat
  git-keyscan scan --user octocat --ext .go --ignore vendor --format json
  git-keyscan scan --local --branch main --gitleaks`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, *opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.user, "user", "u", "", "GitHub username whose repositories are scanned")
	f.StringVar(&opts.token, "token", "", "GitHub token (default: config or GITHUB_TOKEN)")
	f.StringVar(&opts.apiURL, "api-url", "", "GitHub API base URL")
	f.StringVarP(&opts.branch, "branch", "b", "", "Branch to scan (default: each repository's default branch)")
	f.StringArrayVar(&opts.exts, "ext", nil, "Additional file extension to scan (repeatable)")
	f.StringArrayVar(&opts.ignores, "ignore", nil, "Additional ignored directory name (repeatable)")
	f.StringVarP(&opts.format, "format", "f", "text", "Output format: text/json/csv")
	f.BoolVar(&opts.gitleaks, "gitleaks", false, "Also run the gitleaks default ruleset")
	f.StringVar(&opts.gitleaksConfig, "gitleaks-config", "", "Run gitleaks with a custom TOML config")
	f.BoolVar(&opts.failOnFindings, "fail-on-findings", false, "Exit with an error when potential keys are found")
	f.BoolVar(&opts.local, "local", false, "Scan registered local repositories instead of GitHub")

	return cmd
}

func init() {
	rootCmd.AddCommand(newScanCmd())
}

func runScan(cmd *cobra.Command, opts scanOptions) error {
	rc, err := prepareRun(opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	textMode := rc.Format == report.FormatText

	var src scan.Source
	if opts.local {
		reg, err := repo.DefaultRegistry()
		if err != nil {
			return err
		}
		paths, err := reg.Load()
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return errNoRepositoriesAdded
		}
		src = repo.NewTreeSource(paths, rc.Branch)
		if textMode {
			fmt.Fprintln(out, "Loading local repositories...")
		}
	} else {
		client, err := github.NewClient(rc.APIURL, rc.Token)
		if err != nil {
			return err
		}
		src = &github.Source{Client: client, User: rc.Username, Branch: rc.Branch}
		if textMode {
			fmt.Fprintln(out, "Fetching repositories...")
		}
	}

	runner := &scan.Runner{
		Detector: rc.Detector,
		Filter:   rc.Filter,
	}
	if textMode {
		runner.Observer = scan.NewTextProgress(out)
	} else {
		bar := scan.NewBarProgress()
		defer bar.Finish()
		runner.Observer = bar
	}

	result, err := runner.Run(commandContext(cmd), src)
	if err != nil {
		return err
	}

	if !textMode && result.ListErr != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", result.ListErr)
	}

	if err := report.Write(out, rc.Format, result); err != nil {
		return err
	}

	if opts.failOnFindings && result.HasFindings() {
		return &findingsError{count: len(result.Findings())}
	}
	return nil
}
