// Package server wires the decoder service, REST lookup, metrics and health
// endpoints into one HTTP handler.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/boleto/internal/auth"
	"github.com/mmynk/boleto/internal/middleware"
	"github.com/mmynk/boleto/internal/service"
)

// Options configures the handler.
type Options struct {
	// JWT verifies bearer tokens. Nil disables authentication entirely.
	JWT *auth.JWTManager

	// RequireAuth rejects calls without a valid token. Ignored when JWT is nil.
	RequireAuth bool

	// Gatherer serves /metrics. Nil uses the default Prometheus registry.
	Gatherer prometheus.Gatherer
}

// NewHandler builds the router. The result speaks HTTP/2 cleartext so Connect
// streaming clients work without TLS.
func NewHandler(svc *service.BoletoService, opts Options) http.Handler {
	interceptors := []connect.Interceptor{middleware.LoggingInterceptor()}
	var restAuth func(http.Handler) http.Handler
	if opts.JWT != nil {
		// auth runs before logging so the subject is known when the call is logged
		if opts.RequireAuth {
			interceptors = append([]connect.Interceptor{middleware.RequireAuth(opts.JWT)}, interceptors...)
			restAuth = middleware.RequireAuthHTTP(opts.JWT)
		} else {
			interceptors = append([]connect.Interceptor{middleware.OptionalAuth(opts.JWT)}, interceptors...)
		}
	}

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Logging, middleware.CORS)

	path, handler := service.NewBoletoServiceHandler(svc, connect.WithInterceptors(interceptors...))
	r.Handle(path+"*", handler)

	r.Route("/api/v1", func(r chi.Router) {
		if restAuth != nil {
			r.Use(restAuth)
		}
		r.Get("/boletos/{code}", svc.LookupHandler)
	})

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return h2c.NewHandler(r, &http2.Server{})
}

// Run serves handler on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
