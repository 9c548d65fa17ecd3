package cmd

import (
	"hangout-api/core/server"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.App.Port = port
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			return server.Run(ctx, cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 7070, "port to listen on (overrides APP_PORT)")
	return cmd
}
