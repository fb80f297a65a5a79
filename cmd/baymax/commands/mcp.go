package commands

import (
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/flynn-ai/baymax/internal/tools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve chat and capabilities as MCP tools over stdio",
	Long: `Run an MCP server on stdin/stdout exposing the tools chat, get_weather,
search_web, send_email and status. Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		registry := tools.NewRegistry()
		registry.Initialize(a.router, a.invoker)
		registry.RegisterStatus(func() any {
			return map[string]any{
				"model": a.adapter.Status(),
				"stats": a.router.Stats().Collect(),
			}
		})

		a.log.Info("serving MCP over stdio")
		return registry.MCPServer(Version, a.log).Run(cmd.Context(), &mcpsdk.StdioTransport{})
	},
}
