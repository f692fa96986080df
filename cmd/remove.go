package cmd

import (
	"fmt"

	"git-keyscan/internal/repo"

	"github.com/spf13/cobra"
)

var removeInvalid bool

var removeCmd = &cobra.Command{
	Use:   "remove [path]",
	Short: "Unregister a local repository",
	Args: func(cmd *cobra.Command, args []string) error {
		if removeInvalid {
			if len(args) != 0 {
				return fmt.Errorf("usage: git-keyscan remove --invalid")
			}
			return nil
		}
		if len(args) != 1 {
			return fmt.Errorf("usage: git-keyscan remove <path>")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		reg, err := repo.DefaultRegistry()
		if err != nil {
			return err
		}

		if !removeInvalid {
			if err := reg.Remove(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(out, args[0])
			return nil
		}

		_, invalid, err := reg.Verify()
		if err != nil {
			return err
		}
		if len(invalid) == 0 {
			fmt.Fprintln(out, "no invalid repositories")
			return nil
		}

		for _, p := range invalid {
			if err := reg.Remove(p); err != nil {
				return err
			}
			fmt.Fprintln(out, p)
		}
		fmt.Fprintf(out, "removed %d repositories\n", len(invalid))
		return nil
	},
}

func init() {
	removeCmd.Flags().BoolVar(&removeInvalid, "invalid", false, "Remove all invalid repositories")
	rootCmd.AddCommand(removeCmd)
}
