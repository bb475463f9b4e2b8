package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/billminder/internal/auth"
)

var flagTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for an owner (requires auth.jwt_secret)",
	RunE:  runToken,
}

func init() {
	addOwnerFlag(tokenCmd)
	tokenCmd.Flags().DurationVar(&flagTTL, "ttl", 0, "Token lifetime (default from config)")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(_ *cobra.Command, _ []string) error {
	ttl := flagTTL
	if ttl <= 0 {
		ttl = time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute
	}

	token, err := auth.NewTokenManager(cfg.Auth.JWTSecret, ttl).Generate(flagOwner)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
