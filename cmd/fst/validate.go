package main

import (
	"github.com/aretw0/transducer/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check the table for consistency",
	Long:  `Reports transitions to states that have no rules and states missing an input.`,
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
		return cli.Validate(cmd.Context(), src, cmd.OutOrStdout(), log)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
