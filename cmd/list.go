package cmd

import (
	"fmt"

	"git-keyscan/internal/repo"

	"github.com/spf13/cobra"
)

var listVerify bool

// listCmd 列出已登记的本地仓库，--verify 时标记无效路径。
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered local repositories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := repo.DefaultRegistry()
		if err != nil {
			return err
		}
		repos, err := reg.Load()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(repos) == 0 {
			fmt.Fprintln(out, errNoRepositoriesAdded.Error())
			return nil
		}

		if !listVerify {
			for _, p := range repos {
				fmt.Fprintln(out, p)
			}
			return nil
		}

		_, invalid, err := reg.Verify()
		if err != nil {
			return err
		}
		invalidSet := make(map[string]struct{}, len(invalid))
		for _, p := range invalid {
			invalidSet[p] = struct{}{}
		}

		for _, p := range repos {
			if _, ok := invalidSet[p]; ok {
				fmt.Fprintf(out, "%s (invalid)\n", p)
				continue
			}
			fmt.Fprintln(out, p)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listVerify, "verify", false, "Verify repositories on disk")

	rootCmd.AddCommand(listCmd)
}
