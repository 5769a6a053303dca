package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile-analyzer/internal/server"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for the API server",
	Long:  "Mint an HS256 bearer token signed with server.jwt-secret. The server requires one on every route but /health when the secret is set.",
	Args:  cobra.NoArgs,
	RunE:  runToken,
}

var (
	tokenSubject string
	tokenTTL     time.Duration
)

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "client name to put in the token (required)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (default server.token-ttl)")
	_ = tokenCmd.MarkFlagRequired("subject")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	if !cfg.Server.AuthEnabled() {
		return errors.New("server.jwt-secret is not set (set JWT_SECRET or PROFILE_ANALYZER_SERVER_JWT_SECRET)")
	}

	ttl := cfg.Server.TokenTTL
	if tokenTTL > 0 {
		ttl = tokenTTL
	}
	token, err := server.NewJWTService(cfg.Server.JWTSecret, ttl).GenerateToken(tokenSubject)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
