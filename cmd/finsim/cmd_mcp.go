package main

import (
	"context"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/bobmcallan/finsim/internal/app"
)

func newMCPCmd() *cobra.Command {
	var serverURL string
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the calculator tools over MCP stdio",
		Long: `Serve the calculator tools to an MCP client over stdin and stdout.

With --server the messages are forwarded to the /mcp endpoint of a running
finsim-server instead of being handled in-process.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if serverURL == "" {
				serverURL = os.Getenv("FINSIM_SERVER_URL")
			}
			if serverURL != "" {
				return NewStdioProxy(serverURL).RunWithIO(cmd.InOrStdin(), cmd.OutOrStdout())
			}

			configPath, _ := cmd.Flags().GetString("config")
			a, err := app.NewApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return server.NewStdioServer(a.MCPServer).Listen(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", "", "finsim-server base URL to proxy to (default: FINSIM_SERVER_URL)")
	return cmd
}
