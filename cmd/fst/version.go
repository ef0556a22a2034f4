package main

import (
	"fmt"

	"github.com/aretw0/transducer"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of fst",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "fst version %s\n", transducer.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
