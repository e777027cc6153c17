package main

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/mmynk/boleto/internal/auth"
	"github.com/mmynk/boleto/internal/metrics"
	"github.com/mmynk/boleto/internal/server"
	"github.com/mmynk/boleto/internal/service"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Connect and REST decoder service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			opts := server.Options{RequireAuth: a.cfg.Auth.Required}
			if a.cfg.Auth.JWTSecret != "" {
				ttl, err := a.cfg.Auth.TTL()
				if err != nil {
					return err
				}
				opts.JWT = auth.NewJWTManager(a.cfg.Auth.JWTSecret, ttl)
			}

			svc := service.NewBoletoService(a.decoder, metrics.New(prometheus.DefaultRegisterer))
			slog.Info("Decoder configured",
				"epoch", a.decoder.Epoch().String(),
				"auth", opts.JWT != nil,
				"require_auth", opts.RequireAuth,
			)
			return server.Run(ctx, addr, server.NewHandler(svc, opts))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}
