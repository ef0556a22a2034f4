package main

import (
	"github.com/aretw0/transducer/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [path]",
	Short: "Export the table as a state diagram",
	Long:  `Outputs a Mermaid diagram (stateDiagram-v2) of the table. With --input, the states a run visits are highlighted.`,
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
		input, _ := cmd.Flags().GetString("input")
		return cli.Graph(cmd.Context(), src, input, cmd.OutOrStdout(), log)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("input", "", "Highlight the states visited by this input")
}
