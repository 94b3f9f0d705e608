package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/reoring/uiskema/cache"
	"github.com/reoring/uiskema/catalog"
	"github.com/reoring/uiskema/config"
	"github.com/reoring/uiskema/httpapi"
	"github.com/reoring/uiskema/i18n"
	"github.com/reoring/uiskema/metrics"
	"github.com/reoring/uiskema/validate"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the validation API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, cat, err := a.setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			handler, err := buildHandler(cfg, log, cat)
			if err != nil {
				return err
			}
			srv := &http.Server{
				Addr:         cfg.Addr(),
				Handler:      handler,
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				log.Info("listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				log.Info("shutting down")
				sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(sctx)
			})
			return g.Wait()
		},
	}
}

func buildHandler(cfg *config.Config, log *zap.Logger, cat *catalog.Catalog) (http.Handler, error) {
	gin.SetMode(gin.ReleaseMode)

	var m *metrics.Collector
	opts := validatorOptions(cfg, log)
	if cfg.Metrics.Enabled {
		m = metrics.New(nil)
		opts = append(opts, validate.WithObserver(m))
	}
	var v httpapi.DocumentValidator = validate.New(cat, opts...)
	if cfg.Cache.Enabled {
		copts := []cache.Option{cache.WithLogger(log)}
		if m != nil {
			copts = append(copts, cache.WithObserver(m))
		}
		c, err := cache.New(v, cfg.Cache.Size, copts...)
		if err != nil {
			return nil, err
		}
		v = c
	}
	return httpapi.New(httpapi.Deps{
		Validator:   v,
		Catalog:     cat,
		Metrics:     m,
		MetricsPath: cfg.Metrics.Path,
		Logger:      log,
		MaxBytes:    cfg.Validation.MaxBytes,
		Messages:    i18n.ForLanguage(cfg.Validation.Language),
	})
}
