package cmd

import (
	"context"
	"os"
	"os/signal"

	"git-keyscan/internal/logger"

	"github.com/spf13/cobra"
)

var (
	debugLog bool
	jsonLog  bool
)

var rootCmd = &cobra.Command{
	Use:   "git-keyscan",
	Short: "Scan GitHub repositories for leaked API keys",
	Long: `git-keyscan lists a user's GitHub repositories, walks each repository's
file tree and scans source files for strings that look like secrets
(AWS access keys, Google API keys, Stripe live keys, MD5/SHA1-length hex tokens).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Setup(logger.Config{
			Writer: cmd.ErrOrStderr(),
			Debug:  debugLog,
			JSON:   jsonLog,
		})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute 运行根命令，Ctrl-C 会取消正在进行的扫描。
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "log-json", false, "Write logs as JSON")
}

// commandContext 返回命令的 context，直接调用 RunE 的测试中可能为 nil。
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
