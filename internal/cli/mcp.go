package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/fragment-lint/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for linting from coding assistants",
	Long: `Start the Model Context Protocol (MCP) server that lets coding
assistants lint the project in the current directory.

The MCP server:
- Loads .fraglint/config.yml once at startup
- Provides fraglint_check and fraglint_rules tools
- Communicates via stdio (standard MCP transport)

Example:
  fraglint mcp`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	projectPath, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	cfg, err := loadConfig(projectPath)
	if err != nil {
		return err
	}

	// stdout belongs to the protocol
	fmt.Fprintf(os.Stderr, "fraglint MCP server\n")
	fmt.Fprintf(os.Stderr, "Project: %s\n\n", projectPath)

	srv, err := mcp.NewServer(&mcp.ServerConfig{
		ProjectPath: projectPath,
		Config:      cfg,
		Version:     Version,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer srv.Close()

	return srv.Serve(cmd.Context())
}
