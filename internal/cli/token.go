package cli

import (
	"fmt"
	"time"

	"gameshow-quiz-service/internal/auth"
	"gameshow-quiz-service/internal/config"
	"github.com/spf13/cobra"
)

// NewTokenCmd issues a signed token for local testing against the API.
func NewTokenCmd(configPath *string) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development JWT for a user id",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Auth.JWTSecret == "" {
				return fmt.Errorf("auth.jwtSecret not configured")
			}
			token, err := auth.IssueToken(userID, cfg.Auth.JWTSecret, config.TTLDuration(cfg.Auth.TokenTTL, 24*time.Hour))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id to embed in the token")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
