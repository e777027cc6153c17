package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/boleto/internal/auth"
)

func newTokenCmd(a *app) *cobra.Command {
	var subject, device string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a scanner device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Auth.JWTSecret == "" {
				return errors.New("auth.jwt_secret (or BOLETO_JWT_SECRET) must be set to issue tokens")
			}
			ttl, err := a.cfg.Auth.TTL()
			if err != nil {
				return err
			}
			token, err := auth.NewJWTManager(a.cfg.Auth.JWTSecret, ttl).Generate(subject, device)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "Token subject, e.g. the scanner ID")
	cmd.Flags().StringVar(&device, "device", "", "Optional device label")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
