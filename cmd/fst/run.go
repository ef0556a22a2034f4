package main

import (
	"os"

	"github.com/aretw0/transducer/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [input...]",
	Short: "Translate inputs with the table",
	Long: `Interprets each argument as an input sequence and prints one output line per
input. Without arguments, every line of stdin is interpreted.`,
	Example: `  fst run --file vowels.yaml aba
  echo aba | fst run -f vowels.yaml --trace`,
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := source(cmd, nil)
		if err != nil {
			return err
		}
		log, err := logger(cmd)
		if err != nil {
			return err
		}
		trace, _ := cmd.Flags().GetBool("trace")
		keepGoing, _ := cmd.Flags().GetBool("keep-going")

		return cli.Run(cmd.Context(), cli.RunOptions{
			Source:    src,
			Inputs:    args,
			Trace:     trace,
			KeepGoing: keepGoing,
		}, os.Stdin, cmd.OutOrStdout(), log)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("trace", false, "Print every step instead of the output")
	runCmd.Flags().BoolP("keep-going", "k", false, "Report bad input lines and continue")
}
