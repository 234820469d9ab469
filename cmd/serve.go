package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/blogicum/api-go/config"
	"github.com/blogicum/api-go/routes"
	"github.com/blogicum/api-go/services"
	"github.com/blogicum/api-go/storage"
	"github.com/blogicum/api-go/tracing"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var autoMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		if autoMigrate {
			if err := config.Migrate(db); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, cfg.Env, log)
		if err != nil {
			return err
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(flushCtx); err != nil {
				log.Warn("Tracing shutdown failed", "error", err)
			}
		}()

		var images storage.ImageStore
		if cfg.R2.Enabled() {
			images = storage.NewR2Store(cfg.R2)
		} else {
			log.Warn("R2 is not configured; post images are disabled")
		}
		google := config.NewGoogleConfig(cfg.Google)

		if cfg.IsProduction() {
			gin.SetMode(gin.ReleaseMode)
		}
		router := routes.NewRouter(routes.Dependencies{
			Config:   cfg,
			Services: services.New(db, images, log, services.SystemClock),
			Images:   images,
			Google:   google,
			Log:      log,
		})

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}
		errCh := make(chan error, 1)
		go func() {
			log.Info("Starting server", "port", cfg.Port)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", false, "Run migrations before serving")
	rootCmd.AddCommand(serveCmd)
}
