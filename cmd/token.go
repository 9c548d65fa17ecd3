package cmd

import (
	"fmt"
	"time"

	"hangout-api/core/utils"

	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a user ID",
		Long: `Signs a JWT with JWT_SECRET for the given user. Sign-in is handled outside
this service; the command exists for local development and operations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("ttl") {
				ttl = cfg.JWT.TTL
			}

			token, err := utils.GenerateToken(cfg.JWT.Secret, userID, ttl, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user ID to put in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime (defaults to JWT_TTL)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
