// The mailworker command runs the delivery queue processor: it connects to
// postgres, applies schema migrations, builds the provider cascade from the
// environment and drains the queue until interrupted.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/baustructura/notifier/pkg/config"
	"github.com/baustructura/notifier/pkg/logger"
	"github.com/baustructura/notifier/pkg/mail"
	"github.com/baustructura/notifier/pkg/mailqueue"
	"github.com/baustructura/notifier/pkg/pg"
)

type appConfig struct {
	Env           string `env:"APP_ENV" envDefault:"development"`
	MigrationsDir string `env:"MAIL_QUEUE_MIGRATIONS_DIR" envDefault:"pkg/mailqueue/migrations"`
}

func main() {
	var (
		appCfg   appConfig
		mailCfg  mail.Config
		queueCfg mailqueue.Config
		pgCfg    pg.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&mailCfg)
	config.MustLoad(&queueCfg)
	config.MustLoad(&pgCfg)

	queueCfg = queueCfg.ApplyEnvironmentDefaults(mailCfg.IsProduction())

	log := logger.New(logger.WithEnvironment(appCfg.Env, "mailworker"))
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		log.Error("failed to connect to postgres", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, appCfg.MigrationsDir); err != nil {
		log.Error("failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	registry := mail.NewRegistry(mailCfg, log)
	store := mailqueue.NewPgStore(pool)

	processor, err := mailqueue.NewProcessor(store, registry,
		mailqueue.WithConfig(queueCfg),
		mailqueue.WithLogger(log),
	)
	if err != nil {
		log.Error("failed to build processor", slog.String("error", err.Error()))
		os.Exit(1)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(processor.Run(gCtx))

	if err := g.Wait(); err != nil {
		log.Error("worker exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
