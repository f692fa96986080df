package cmd

import (
	"fmt"

	"git-keyscan/internal/repo"

	"github.com/spf13/cobra"
)

var (
	addDepth    int
	addExcludes []string
	addDryRun   bool
)

// addCmd 登记 folder 下的所有本地 Git 仓库，供 scan --local 使用。
var addCmd = &cobra.Command{
	Use:   "add <folder>",
	Short: "Register local git repositories under a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if addDepth < -1 {
			return fmt.Errorf("depth must be >= -1, got %d", addDepth)
		}

		found, err := repo.Discover(args[0], addDepth, addExcludes)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(found) == 0 {
			fmt.Fprintln(out, "no repositories found")
			return nil
		}

		if addDryRun {
			fmt.Fprintln(out, "dry run; repositories found:")
			for _, p := range found {
				fmt.Fprintln(out, p)
			}
			return nil
		}

		reg, err := repo.DefaultRegistry()
		if err != nil {
			return err
		}
		existing, err := reg.Load()
		if err != nil {
			return err
		}
		known := make(map[string]struct{}, len(existing))
		for _, p := range existing {
			known[p] = struct{}{}
		}

		added, err := reg.Add(found...)
		if err != nil {
			return err
		}
		if added == 0 {
			fmt.Fprintln(out, "no new repositories to add")
			return nil
		}

		for _, p := range found {
			if _, ok := known[p]; !ok {
				fmt.Fprintln(out, p)
			}
		}
		fmt.Fprintf(out, "added %d repositories\n", added)
		return nil
	},
}

func init() {
	addCmd.Flags().IntVarP(&addDepth, "depth", "d", -1, "Maximum recursion depth (-1 for unlimited)")
	addCmd.Flags().StringArrayVarP(&addExcludes, "exclude", "x", nil, "Exclude directories (repeatable)")
	addCmd.Flags().BoolVar(&addDryRun, "dry-run", false, "Preview repositories without adding")

	rootCmd.AddCommand(addCmd)
}
