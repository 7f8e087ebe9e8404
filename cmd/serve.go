package main

import (
	"context"
	"errors"

	"github.com/oleg-kuibar/time-agent/internal/api"
	"github.com/oleg-kuibar/time-agent/internal/scheduler"
	"github.com/oleg-kuibar/time-agent/internal/transport/http/middleware"
	handlers_fiber "github.com/oleg-kuibar/time-agent/internal/transport/http/server/handlers-fiber"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, webhook receiver and scheduled jobs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, closeFn, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			return serve(cmd.Context(), a)
		},
	}
}

func serve(ctx context.Context, a *app) error {
	cfg, log := a.cfg, a.log

	serv := fiber.New(fiber.Config{
		ReadTimeout:           cfg.HTTP.RequestTimeout,
		WriteTimeout:          cfg.HTTP.RequestTimeout,
		DisableStartupMessage: true,
	})
	serv.Use(recover.New())
	serv.Use(requestid.New())
	serv.Use(middleware.RequestLogger(log))
	serv.Use(middleware.SecurityHeaders())
	serv.Use(middleware.RateLimiter(log, cfg.Server.RateLimitMax, cfg.Server.RateLimitWindow))

	if cfg.GitHub.WebhookSecret == "" {
		log.Warnw("github webhook secret is empty, signatures are not verified")
	}
	api.RegisterHandlers(serv, handlers_fiber.NewHandler(log, a.uc, cfg.GitHub.WebhookSecret, a.loc))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infow("http server listening", "addr", cfg.ServerAddr())
		return serv.Listen(cfg.ServerAddr())
	})

	if cfg.Scheduler.Enabled {
		sched, err := scheduler.New(log, cfg.Scheduler, a.uc)
		if err != nil {
			return err
		}
		g.Go(func() error { return sched.Run(gctx) })
	} else {
		log.Infow("scheduler disabled")
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := serv.ShutdownWithContext(shutdownCtx); err != nil {
			log.Warnw("server shutdown timeout", "timeout", cfg.Server.ShutdownTimeout, "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Errorw("server stopped", "error", err)
		return err
	}
	log.Infow("server stopped")
	return nil
}
