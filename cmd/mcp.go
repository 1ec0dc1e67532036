package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/revuhq/revu/internal/ai"
	"github.com/revuhq/revu/internal/mcp"
	"github.com/revuhq/revu/internal/review"
)

var mcpUser string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP stdio server for coding-agent integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

This lets a coding agent request code reviews and browse review history
natively. All tools run as one local user, selected with --user or the
mcp.user config key. Configure the agent with:

  {
    "mcpServers": {
      "revu": { "command": "revu", "args": ["mcp", "--user", "you@example.com"] }
    }
  }

Available tools: revu_analyze, revu_history, revu_get_review,
revu_delete_review`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		email := mcpUser
		if email == "" {
			email = viper.GetString("mcp.user")
		}
		if email == "" {
			return fmt.Errorf("no user selected: pass --user or set mcp.user")
		}

		s, err := getStore()
		if err != nil {
			return err
		}

		u, _, err := s.GetUserByEmail(cmd.Context(), email)
		if err != nil {
			return fmt.Errorf("resolve user %q: %w", email, err)
		}

		gen, err := ai.New(aiConfig())
		if err != nil {
			return fmt.Errorf("configure AI adapter: %w", err)
		}

		reviewSvc := review.NewService(s, gen, logger)
		return mcp.NewServer(reviewSvc, u).ServeStdio(cmd.Context())
	},
}

func init() {
	mcpCmd.Flags().StringVar(&mcpUser, "user", "", "Email of the account to run tools as")
	rootCmd.AddCommand(mcpCmd)
}
