package cmd

import (
	"fmt"
	"io"
	"strings"

	"git-keyscan/internal/config"

	"github.com/spf13/cobra"
)

// setKeys 是 set 命令支持的配置项。
var setKeys = []string{"username", "token", "api_url", "branch", "extensions", "ignored_dirs"}

// setCmd 实现 set 子命令，用于查看或修改默认配置。
// 支持两种模式：
// 1. git-keyscan set - 显示当前配置（令牌脱敏）
// 2. git-keyscan set <key> <value> - 设置配置项
var setCmd = newSetCmd()

// newSetCmd 构建 set 命令，便于在测试中复用。
func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Set or show default configuration",
		Long: `View or modify default configuration.

Without arguments, displays the current configuration (the token is masked).
With key/value, sets the specified option. List options (extensions,
ignored_dirs) accept comma or space separated values.`,
		Example: `  git-keyscan set
  git-keyscan set username octocat
  git-keyscan set token ghp_xxx
  git-keyscan set extensions ".go,.py,.js"
  git-keyscan set ignored_dirs "vendor node_modules"`,
		Args: validateSetArgs,
		RunE: runSet,
	}
}

// validateSetArgs 校验 set 参数格式。
func validateSetArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	if len(args) != 2 {
		return fmt.Errorf("usage: git-keyscan set [%s] <value>", strings.Join(setKeys, "|"))
	}
	return nil
}

func runSet(cmd *cobra.Command, args []string) error {
	// 只读文件，不把环境变量中的令牌写回磁盘
	cfg, err := config.LoadFile()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		printConfig(cmd.OutOrStdout(), cfg)
		return nil
	}

	key := strings.ToLower(strings.TrimSpace(args[0]))
	val := strings.TrimSpace(args[1])

	switch key {
	case "username":
		cfg.Username = val
	case "token":
		cfg.Token = val
	case "api_url":
		if val == "" {
			val = config.DefaultAPIURL
		}
		cfg.APIURL = strings.TrimRight(val, "/")
	case "branch":
		cfg.Branch = val
	case "extensions":
		exts := config.ParseList(val)
		if len(exts) == 0 {
			return fmt.Errorf("extensions cannot be empty")
		}
		for _, ext := range exts {
			if !strings.HasPrefix(ext, ".") {
				return fmt.Errorf("invalid extension %q: must start with '.'", ext)
			}
		}
		cfg.Extensions = exts
	case "ignored_dirs":
		cfg.IgnoredDirs = config.ParseList(val)
	default:
		return fmt.Errorf("unsupported key %q (supported: %s)", key, strings.Join(setKeys, ", "))
	}

	return config.Save(*cfg)
}

// printConfig 输出当前配置，令牌只显示末尾几位。
func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintf(out, "username: %s\n", cfg.Username)
	fmt.Fprintf(out, "token: %s\n", cfg.MaskedToken())
	fmt.Fprintf(out, "api_url: %s\n", cfg.APIURL)
	fmt.Fprintf(out, "branch: %s\n", cfg.Branch)
	fmt.Fprintf(out, "extensions: %s\n", strings.Join(cfg.Extensions, ", "))
	fmt.Fprintf(out, "ignored_dirs: %s\n", strings.Join(cfg.IgnoredDirs, ", "))
}

func init() {
	rootCmd.AddCommand(setCmd)
}
