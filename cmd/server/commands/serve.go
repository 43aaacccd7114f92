package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/conduit/internal/db"
	"github.com/conduit/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var (
	listenAddr      string
	skipMigrate     bool
	shutdownTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		if !skipMigrate {
			if err := db.Migrate(a.db); err != nil {
				return err
			}
		}

		addr := a.cfg.ListenAddr
		if listenAddr != "" {
			addr = listenAddr
		}

		gin.SetMode(a.cfg.GinMode)
		srv := &http.Server{
			Addr:              addr,
			Handler:           router.SetupRouter(a.api, a.log, a.metrics),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			a.log.WithField("addr", addr).Info("listening")
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		a.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "Listen address (overrides LISTEN_ADDR)")
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not create or update tables on startup")
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 15*time.Second, "Grace period for in-flight requests")
	rootCmd.AddCommand(serveCmd)
}
