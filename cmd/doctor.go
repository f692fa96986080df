package cmd

import (
	"fmt"
	"io"

	"git-keyscan/internal/config"
	"git-keyscan/internal/github"
	"git-keyscan/internal/repo"

	"github.com/spf13/cobra"
)

// doctorCmd 实现 doctor 子命令，一站式诊断环境和配置问题。
// 有错误时返回非零退出码，仅警告时返回 0。
// 用法: git-keyscan doctor
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose environment and configuration issues",
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// runDoctor 按顺序执行诊断检查：
//  1. 配置合法性（用户名、令牌、api_url、扩展名）
//  2. GitHub API 连通性（带令牌请求 GET /user）
//  3. 本地仓库路径有效性
//  4. 分支可达性与读权限（仅有效仓库）
//
// 输出使用 ✅/⚠️/❌ 分类显示，有错误时返回 error。
func runDoctor(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Running diagnostics...")

	hasError := false

	// 1. 配置合法性
	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		hasError = true
		fmt.Fprintf(out, "❌ Config: %v\n", cfgErr)
	} else {
		issues := config.ValidateConfig(cfg)
		if len(issues) == 0 {
			fmt.Fprintln(out, "✅ Config: OK")
		} else {
			fmt.Fprintf(out, "⚠️  Config: %d issue(s)\n", len(issues))
			printLines(out, issues)
		}
	}

	// 2. API 连通性
	switch {
	case cfg == nil:
		fmt.Fprintln(out, "⚠️  GitHub API: skipped (config not loaded)")
	case cfg.Token == "":
		fmt.Fprintln(out, "⚠️  GitHub API: skipped (no token)")
	default:
		if err := checkAPI(cmd, cfg); err != nil {
			hasError = true
			fmt.Fprintf(out, "❌ GitHub API: %v\n", err)
		}
	}

	// 3. 本地仓库
	var validRepos []string
	reg, err := repo.DefaultRegistry()
	if err == nil {
		var invalidRepos []string
		validRepos, invalidRepos, err = reg.Verify()
		if err == nil {
			total := len(validRepos) + len(invalidRepos)
			switch {
			case total == 0:
				fmt.Fprintln(out, "⚠️  Local repositories: none added")
			case len(invalidRepos) == 0:
				fmt.Fprintf(out, "✅ Local repositories: %d/%d valid\n", len(validRepos), total)
			default:
				hasError = true
				fmt.Fprintf(out, "❌ Local repositories: %d/%d valid, %d invalid\n", len(validRepos), total, len(invalidRepos))
				printLines(out, invalidRepos)
			}
		}
	}
	if err != nil {
		hasError = true
		fmt.Fprintf(out, "❌ Local repositories: %v\n", err)
	}

	// 4. 分支可达性与读权限
	if len(validRepos) > 0 {
		branch := ""
		if cfg != nil {
			branch = cfg.Branch
		}

		var branchErrors, permissionErrors []string
		for _, repoPath := range validRepos {
			if err := repo.CheckBranchReachability(repoPath, branch); err != nil {
				branchErrors = append(branchErrors, fmt.Sprintf("%s: %v", repoPath, err))
			}
			if err := repo.CheckPermissions(repoPath); err != nil {
				permissionErrors = append(permissionErrors, fmt.Sprintf("%s: %v", repoPath, err))
			}
		}

		if len(branchErrors) == 0 {
			fmt.Fprintln(out, "✅ Branch reachability: OK")
		} else {
			hasError = true
			fmt.Fprintf(out, "❌ Branch reachability: %d issue(s)\n", len(branchErrors))
			printLines(out, branchErrors)
		}
		if len(permissionErrors) == 0 {
			fmt.Fprintln(out, "✅ Permissions: OK")
		} else {
			hasError = true
			fmt.Fprintf(out, "❌ Permissions: %d issue(s)\n", len(permissionErrors))
			printLines(out, permissionErrors)
		}
	}

	if hasError {
		return fmt.Errorf("doctor found issues")
	}
	return nil
}

// checkAPI 请求当前认证用户，成功时输出登录名。
func checkAPI(cmd *cobra.Command, cfg *config.Config) error {
	client, err := github.NewClient(cfg.APIURL, cfg.Token)
	if err != nil {
		return err
	}
	user, err := client.CurrentUser(commandContext(cmd))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✅ GitHub API: authenticated as %s\n", user.Login)
	if cfg.Username != "" && user.Login != cfg.Username {
		fmt.Fprintf(out, "⚠️  GitHub API: token belongs to %s, scanning repositories of %s\n", user.Login, cfg.Username)
	}
	return nil
}

// printLines 将字符串列表以缩进列表形式输出。
func printLines(out io.Writer, lines []string) {
	for _, line := range lines {
		fmt.Fprintf(out, "   - %s\n", line)
	}
}
