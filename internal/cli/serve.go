package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"reelbox/internal/mockapi"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func newServeCmd(app *App) *cobra.Command {
	var (
		addr      string
		dbPath    string
		seedCount int
		seedValue uint64
		failRate  float64
		token     string
		author    string
		perSecond float64
		burst     int
	)

	cmd := &cobra.Command{
		Use:         "serve",
		Short:       "Serve a local catalog API backed by SQLite",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"log": "verbose"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmdContext(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			st, err := mockapi.OpenStore(ctx, dbPath)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()
			if err := mockapi.Seed(ctx, st, seedCount, seedValue); err != nil {
				return writeErr(cmd, err)
			}

			limit := rate.Inf
			if perSecond > 0 {
				limit = rate.Limit(perSecond)
			}
			h := mockapi.NewHandler(mockapi.Options{
				Store:    st,
				Token:    token,
				Author:   author,
				Rate:     limit,
				Burst:    burst,
				FailRate: failRate,
				Logger:   app.logger,
				Registry: prometheus.NewRegistry(),
			})

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return writeErr(cmd, err)
			}
			srv := &http.Server{Handler: h, ReadHeaderTimeout: 5 * time.Second}
			app.logger.Info("serving catalog",
				zap.String("addr", ln.Addr().String()),
				zap.String("db", dbPath),
				zap.Float64("fail_rate", failRate),
			)

			errc := make(chan error, 1)
			go func() { errc <- srv.Serve(ln) }()

			select {
			case err := <-errc:
				if !errors.Is(err, http.ErrServerClosed) {
					return writeErr(cmd, err)
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				app.logger.Error("shutdown failed", zap.Error(err))
				return err
			}
			app.logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", envOr("REELBOX_SERVE_ADDR", "127.0.0.1:8080"), "Listen address")
	cmd.Flags().StringVar(&dbPath, "db", envOr("REELBOX_SERVE_DB", "reelbox.sqlite"), "SQLite database path (:memory: for a throwaway catalog)")
	cmd.Flags().IntVar(&seedCount, "seed", 20, "Films to generate when the database is empty")
	cmd.Flags().Uint64Var(&seedValue, "seed-value", 1, "Random seed for generated films")
	cmd.Flags().Float64Var(&failRate, "fail-rate", 0, "Probability (0..1) that a mutating request fails")
	cmd.Flags().StringVar(&token, "require-token", "", "Only accept this authorization token")
	cmd.Flags().StringVar(&author, "author", "Guest", "Author name stamped on new comments")
	cmd.Flags().Float64Var(&perSecond, "rate", 0, "Requests per second allowed (0 = unlimited)")
	cmd.Flags().IntVar(&burst, "burst", 10, "Rate limiter burst")
	return cmd
}
