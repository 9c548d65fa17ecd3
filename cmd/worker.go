package cmd

import (
	"hangout-api/core/server"

	"github.com/spf13/cobra"
)

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Process queued notification deliveries",
		Long:  "Consumes the notifications queue from redis and writes each delivery to the inbox store.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			return server.RunWorker(ctx, cfg)
		},
	}
}
