package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"intranet-portal-backend/pkg/utils"
)

var (
	tokenUserID int64
	tokenEmail  string
	tokenTTL    time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an access token for a user id (development use)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenUserID <= 0 {
			return fmt.Errorf("--user must be a positive user id")
		}
		if cfg.IsProduction() {
			log.Warn().Int64("user_id", tokenUserID).Msg("⚠️  Minting a token against the production secret")
		}
		token, exp, err := utils.NewJWTService(cfg.JWTSecret).WithTTL(tokenTTL).GenerateAccessToken(tokenUserID, tokenEmail)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		log.Debug().Time("expires_at", time.Unix(exp, 0)).Msg("🔑 Token issued")
		return nil
	},
}

func init() {
	tokenCmd.Flags().Int64Var(&tokenUserID, "user", 0, "user id carried by the token")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email carried by the token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", utils.AccessTokenTTL, "token lifetime")
}
