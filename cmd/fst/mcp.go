package main

import (
	"github.com/aretw0/transducer/internal/cli"
	"github.com/aretw0/transducer/internal/config"
	mcpAdapter "github.com/aretw0/transducer/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Model Context Protocol server",
	Long: `Exposes the interpret, validate, graph and list_machines tools to MCP clients.
Stdio is used by default; --sse serves over HTTP instead. Logs always go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log, err := logger(cmd)
		if err != nil {
			return err
		}
		src, err := source(cmd, nil)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		mgr, closeFn, err := cli.NewManager(ctx, cfg, src, nil, log)
		if err != nil {
			return err
		}
		defer closeFn()

		server := mcpAdapter.NewServer(mgr, mcpAdapter.WithLogger(log))

		addr, _ := cmd.Flags().GetString("sse")
		if addr == "" {
			return server.ServeStdio()
		}
		baseURL, _ := cmd.Flags().GetString("base-url")
		if baseURL == "" {
			baseURL = "http://localhost" + addr
		}
		return server.ServeSSE(ctx, addr, baseURL)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("sse", "", "Serve over SSE on this address (e.g. :8081) instead of stdio")
	mcpCmd.Flags().String("base-url", "", "Public base URL for SSE clients")
}
