package config

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	appName   = "git-keyscan"
	envPrefix = "GIT_KEYSCAN"

	// DefaultAPIURL 是 GitHub REST API 的默认地址。
	DefaultAPIURL = "https://api.github.com"
)

// DefaultExtensions 是默认扫描的源码文件扩展名。
var DefaultExtensions = []string{".py", ".js", ".html", ".css", ".ts", ".jsx", ".tsx", ".java", ".c", ".cpp"}

// DefaultIgnoredDirs 是默认忽略的目录名，路径中包含任意一项即跳过。
var DefaultIgnoredDirs = []string{"venv", "myenv", "node_modules", "__pycache__", "site-packages", "dist", "build"}

// Config 是 git-keyscan 的运行配置。
type Config struct {
	Username    string
	Token       string
	APIURL      string
	Branch      string // 为空时使用仓库默认分支
	Extensions  []string
	IgnoredDirs []string
}

func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

func File() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// Load 读取配置文件并叠加环境变量。
// 配置文件不存在时返回默认配置。
func Load() (*Config, error) {
	return load(true)
}

// LoadFile 只读取配置文件，不读取环境变量。
// set 命令使用它，避免把环境变量中的令牌写回磁盘。
func LoadFile() (*Config, error) {
	return load(false)
}

func load(withEnv bool) (*Config, error) {
	configFile, err := File()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")
	v.SetDefault("username", "")
	v.SetDefault("token", "")
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("branch", "")
	v.SetDefault("extensions", DefaultExtensions)
	v.SetDefault("ignored_dirs", DefaultIgnoredDirs)

	if withEnv {
		v.SetEnvPrefix(envPrefix)
		v.AutomaticEnv()
		// GITHUB_* 与原有脚本保持兼容，GIT_KEYSCAN_* 优先
		_ = v.BindEnv("token", envPrefix+"_TOKEN", "GITHUB_TOKEN")
		_ = v.BindEnv("username", envPrefix+"_USERNAME", "GITHUB_USERNAME")
	}

	if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
		return nil, err
	}

	return &Config{
		Username:    strings.TrimSpace(v.GetString("username")),
		Token:       strings.TrimSpace(v.GetString("token")),
		APIURL:      strings.TrimSpace(v.GetString("api_url")),
		Branch:      strings.TrimSpace(v.GetString("branch")),
		Extensions:  cleanList(v.GetStringSlice("extensions")),
		IgnoredDirs: cleanList(v.GetStringSlice("ignored_dirs")),
	}, nil
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return true
	}
	return errors.Is(err, fs.ErrNotExist)
}

func Save(config Config) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	configFile, err := File()
	if err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("username", config.Username)
	v.Set("token", config.Token)
	v.Set("api_url", config.APIURL)
	v.Set("branch", config.Branch)
	v.Set("extensions", config.Extensions)
	v.Set("ignored_dirs", config.IgnoredDirs)

	if err := v.WriteConfigAs(configFile); err != nil {
		return err
	}
	// 文件中可能包含令牌
	return os.Chmod(configFile, 0o600)
}

// MaskedToken 返回用于展示的令牌，只保留末尾 4 位。
func (c *Config) MaskedToken() string {
	if c.Token == "" {
		return ""
	}
	if len(c.Token) <= 4 {
		return strings.Repeat("*", len(c.Token))
	}
	return strings.Repeat("*", 8) + c.Token[len(c.Token)-4:]
}

// ValidateConfig 检查配置合法性，返回问题描述列表（为空表示无问题）。
func ValidateConfig(cfg *Config) []string {
	issues := make([]string, 0)
	if cfg == nil {
		return append(issues, "config is nil")
	}

	if cfg.Username == "" {
		issues = append(issues, "username is not set (set username <name> or GITHUB_USERNAME)")
	}
	if cfg.Token == "" {
		issues = append(issues, "token is not set (set token <value> or GITHUB_TOKEN)")
	}

	if cfg.APIURL == "" {
		issues = append(issues, "api_url must not be empty")
	} else if u, err := url.Parse(cfg.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
		issues = append(issues, "invalid api_url "+cfg.APIURL)
	}

	if len(cfg.Extensions) == 0 {
		issues = append(issues, "extensions is empty, no file will be scanned")
	}
	for _, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			issues = append(issues, "extension "+ext+" should start with '.'")
		}
	}

	return issues
}

// ParseList 把逗号或空白分隔的字符串拆分为列表。
func ParseList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	return cleanList(fields)
}

// cleanList 去除空白和空串，并按首次出现去重。
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// MergeList 按顺序合并多个列表，去除空白项和重复项。
func MergeList(lists ...[]string) []string {
	var all []string
	for _, l := range lists {
		all = append(all, l...)
	}
	return cleanList(all)
}
