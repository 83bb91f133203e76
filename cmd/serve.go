package cmd

import (
	"github.com/spf13/cobra"

	"github.com/itsmostafa/specindex/internal/api"
)

var addr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the parser over HTTP",
	Long: `Start the HTTP API: POST /api/parse takes page text and returns the ToC,
sections and validation report; POST /api/validate and POST /api/check/{schema}
work on existing records.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr = addr
		}

		srv, err := api.NewServer(cfg.ToParserConfig(), log)
		if err != nil {
			return err
		}
		return srv.ListenAndServe(cmd.Context(), cfg.Server.Addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}
