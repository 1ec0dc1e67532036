package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/revuhq/revu/internal/ai"
	"github.com/revuhq/revu/internal/api"
	"github.com/revuhq/revu/internal/auth"
	"github.com/revuhq/revu/internal/review"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the revu API server",
	Long: `Start the HTTP API server.

Requires ai.api_key (or REVU_AI_API_KEY) to be configured; the server
refuses to start without a credential rather than failing on the first
review request.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		s, err := getStore()
		if err != nil {
			return err
		}

		gen, err := ai.New(aiConfig())
		if err != nil {
			return fmt.Errorf("configure AI adapter: %w", err)
		}

		authSvc := auth.NewService(s, viper.GetDuration("session_ttl"))
		reviewSvc := review.NewService(s, gen, logger)
		srv := api.NewServer(authSvc, reviewSvc, logger)

		addr := fmt.Sprintf(":%d", viper.GetInt("port"))
		ui.Info("revu API listening on http://localhost%s", addr)
		ui.VerboseLog("db: %s, model: %s", viper.GetString("db_path"), aiConfig().ResolvedModel())
		return http.ListenAndServe(addr, srv.Router())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "port to listen on")
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
}
