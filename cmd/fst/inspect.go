package main

import (
	"os"

	"github.com/aretw0/transducer/internal/cli"
	"github.com/aretw0/transducer/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [path]",
	Short: "Show a report of the table",
	Long:  `Prints the rules and validation status of the table. Markdown is rendered when stdout is a terminal.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := source(cmd, args)
		if err != nil {
			return err
		}
		log, err := logger(cmd)
		if err != nil {
			return err
		}

		raw, _ := cmd.Flags().GetBool("raw")
		var render func(string) (string, error)
		if !raw && tui.IsTerminal(os.Stdout) {
			if render, err = tui.NewRenderer(tui.Width(os.Stdout)); err != nil {
				return err
			}
		}
		return cli.Inspect(cmd.Context(), src, cmd.OutOrStdout(), render, log)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("raw", false, "Print markdown without rendering")
}
