package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/transducer/internal/cli"
	"github.com/aretw0/transducer/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fst",
	Short: "fst runs deterministic finite-state transducers",
	Long: `fst translates input sequences symbol by symbol with a deterministic
finite-state transducer. Tables are read from a YAML, JSON or text definition
(--file) or from a directory with one document per state (--dir).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// The context is cancelled on SIGINT or SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("file", "f", "", "Table definition file (.yaml, .json, .fst)")
	rootCmd.PersistentFlags().String("dir", "", "Directory with one document per state")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
}

// source resolves the table location from flags and an optional path argument.
func source(cmd *cobra.Command, args []string) (cli.Source, error) {
	file, _ := cmd.Flags().GetString("file")
	dir, _ := cmd.Flags().GetString("dir")
	return cli.SourceFromArgs(cli.Source{File: file, Dir: dir}, args)
}

// logger builds the stderr logger for the --log-level flag.
func logger(cmd *cobra.Command) (*slog.Logger, error) {
	raw, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(raw)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}
