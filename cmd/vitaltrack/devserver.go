package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vitaltrack/vitaltrack/internal/fakeapi"
)

func newDevServerCmd() *cobra.Command {
	var addr string
	var coldStarts int

	cmd := &cobra.Command{
		Use:   "dev-server",
		Short: "Run an in-memory VitalTrack API for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fake := fakeapi.New()
			if coldStarts > 0 {
				fake.FailNext(http.StatusServiceUnavailable, coldStarts)
			}
			return serveDev(ctx, addr, fake)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":5000", "Listen address")
	cmd.Flags().IntVar(&coldStarts, "cold-starts", 1, "Answer this many initial requests with 503 to mimic a sleeping backend")

	return cmd
}

// serveDev serves handler on addr until ctx ends, then shuts down gracefully.
func serveDev(ctx context.Context, addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("prefix", fakeapi.Prefix).Msg("dev server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down dev server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Err(err).Msg("dev server forced to shutdown")
			return err
		}
		log.Info().Msg("dev server exited")
		return nil
	case err := <-errCh:
		log.Error().Err(err).Msg("dev server failed")
		return err
	}
}
