package detect

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"
	"github.com/zricethezav/gitleaks/v8/config"
	"github.com/zricethezav/gitleaks/v8/detect"
	"github.com/zricethezav/gitleaks/v8/report"

	"git-keyscan/internal/logger"
)

// GitleaksRulePrefix 是 gitleaks 命中规则名的前缀。
const GitleaksRulePrefix = "gitleaks:"

// GitleaksDetector 使用 gitleaks 的规则引擎检测密钥。
type GitleaksDetector struct {
	detector *detect.Detector
}

// NewGitleaksDetector 创建 gitleaks 检测器。
// configPath 为空时使用 gitleaks 内置的默认规则集，否则加载该 TOML 配置。
func NewGitleaksDetector(configPath string) (*GitleaksDetector, error) {
	configPath = strings.TrimSpace(configPath)
	if configPath == "" {
		d, err := detect.NewDetectorDefaultConfig()
		if err != nil {
			return nil, fmt.Errorf("create default gitleaks detector: %w", err)
		}
		return &GitleaksDetector{detector: d}, nil
	}

	d, err := loadGitleaksConfig(configPath)
	if err != nil {
		return nil, err
	}
	return &GitleaksDetector{detector: d}, nil
}

func loadGitleaksConfig(path string) (*detect.Detector, error) {
	// 独立的 viper 实例，不影响全局配置
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("gitleaks config not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read gitleaks config %s: %w", path, err)
	}

	var vc config.ViperConfig
	if err := v.Unmarshal(&vc); err != nil {
		return nil, fmt.Errorf("unmarshal gitleaks config %s: %w", path, err)
	}

	cfg, err := vc.Translate()
	if err != nil {
		return nil, fmt.Errorf("translate gitleaks config %s: %w", path, err)
	}
	if len(cfg.Rules) == 0 {
		logger.L().Warn("detect.gitleaks_no_rules", "path", path)
	}

	return detect.NewDetector(cfg), nil
}

// Detect 运行 gitleaks 并把结果换算为字符下标。
// gitleaks 只给出行列号，这里按出现顺序在原文中定位每个命中。
func (g *GitleaksDetector) Detect(content string) []Match {
	findings := g.detector.DetectBytes([]byte(content))
	if len(findings) == 0 {
		return nil
	}

	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.StartLine != b.StartLine {
			return a.StartLine < b.StartLine
		}
		if a.StartColumn != b.StartColumn {
			return a.StartColumn < b.StartColumn
		}
		return a.RuleID < b.RuleID
	})

	cursors := make(map[string]int)
	matches := make([]Match, 0, len(findings))
	for _, f := range findings {
		m, ok := locate(content, f, cursors)
		if !ok {
			logger.L().Debug("detect.gitleaks_unlocated", "rule", f.RuleID)
			continue
		}
		matches = append(matches, m)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Offset < matches[j].Offset
	})
	return matches
}

// locate 从上一次同规则同文本的位置之后查找 f.Match。
func locate(content string, f report.Finding, cursors map[string]int) (Match, bool) {
	if f.Match == "" {
		return Match{}, false
	}

	key := f.RuleID + "\x00" + f.Match
	from := cursors[key]
	if from > len(content) {
		return Match{}, false
	}
	idx := strings.Index(content[from:], f.Match)
	if idx < 0 {
		return Match{}, false
	}
	start := from + idx
	cursors[key] = start + 1

	text := f.Match
	if f.Secret != "" {
		if i := strings.Index(f.Match, f.Secret); i >= 0 {
			start += i
			text = f.Secret
		}
	}

	return Match{
		Rule:   GitleaksRulePrefix + f.RuleID,
		Text:   text,
		Offset: utf8.RuneCountInString(content[:start]),
	}, true
}
