package cmd

import (
	"fmt"
	"text/tabwriter"

	"git-keyscan/internal/detect"

	"github.com/spf13/cobra"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List the built-in secret patterns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tREGEX\tDESCRIPTION")
		for _, p := range detect.Patterns() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, p.Regex.String(), p.Description)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(patternsCmd)
}
