package boxsale

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/boxsale/internal/config"
	"github.com/gaze-network/boxsale/internal/postgres"
	"github.com/gaze-network/boxsale/modules/boxsale/api/httphandler"
	"github.com/gaze-network/boxsale/modules/boxsale/engine"
	"github.com/gaze-network/boxsale/modules/boxsale/notifier"
	"github.com/gaze-network/boxsale/modules/boxsale/report"
	repository "github.com/gaze-network/boxsale/modules/boxsale/repository/postgres"
	"github.com/gaze-network/boxsale/pkg/logger"
	"github.com/gaze-network/boxsale/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do/v2"
	"golang.org/x/sync/errgroup"
)

const Version = "v0.1.0"

// Module runs the engine and its background workers.
type Module struct {
	processor      *engine.Processor
	resolver       *engine.Resolver
	exporter       *report.Exporter
	notifier       *notifier.Notifier
	reportInterval time.Duration
	cleanupFuncs   []func(context.Context) error
}

func New(injector do.Injector) (*Module, error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector)
	moduleConf := conf.BoxSale

	genesis, err := engine.Bootstrap(moduleConf)
	if err != nil {
		return nil, errors.Wrap(err, "invalid boxsale configuration")
	}

	pg, err := postgres.NewPool(ctx, conf.Postgres)
	if err != nil {
		return nil, errors.Wrap(err, "can't create postgres connection pool")
	}
	var cleanupFuncs []func(context.Context) error
	cleanupFuncs = append(cleanupFuncs, func(ctx context.Context) error {
		pg.Close()
		return nil
	})
	repo := repository.NewRepository(pg)

	clock := engine.NewSystemClock(time.Unix(moduleConf.Genesis, 0), moduleConf.BlockTime)
	processor := engine.NewProcessor(repo, clock, genesis)
	if err := processor.Restore(ctx); err != nil {
		return nil, errors.Wrap(err, "can't restore state from journal")
	}

	module := &Module{
		processor:      processor,
		reportInterval: moduleConf.Report.Interval,
		cleanupFuncs:   cleanupFuncs,
	}
	if moduleConf.Oracle.AutoResolve && !conf.APIOnly {
		module.resolver = engine.NewResolver(processor, moduleConf.Oracle.ResolveInterval)
	}
	if moduleConf.Report.Enabled && !conf.APIOnly {
		uploader, err := report.NewS3Uploader(ctx, moduleConf.Report)
		if err != nil {
			return nil, errors.Wrap(err, "can't create report uploader")
		}
		module.exporter = report.NewExporter(processor, uploader, moduleConf.Report.Bucket, moduleConf.Report.Prefix)
	}

	if moduleConf.Webhook.Enabled && !conf.APIOnly {
		module.notifier, err = notifier.New(moduleConf.Webhook, Version)
		if err != nil {
			return nil, errors.Wrap(err, "invalid webhook configuration")
		}
	}

	httpServer := do.MustInvoke[*fiber.App](injector)
	handler := httphandler.New(processor, repo)
	if err := handler.Mount(httpServer); err != nil {
		return nil, errors.Wrap(err, "can't mount boxsale API")
	}
	logger.InfoContext(ctx, "Mounted boxsale HTTP handler")

	return module, nil
}

// Run blocks until the processor stops.
func (m *Module) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	group.Go(func() error {
		defer stopWorkers()
		return errors.WithStack(m.processor.Run(ctx))
	})
	if m.resolver != nil {
		group.Go(func() error {
			return errors.WithStack(m.resolver.Run(workerCtx))
		})
	}
	if m.exporter != nil {
		group.Go(func() error {
			return errors.WithStack(m.exporter.Run(workerCtx, m.reportInterval))
		})
	}
	if m.notifier != nil {
		group.Go(func() error {
			return errors.WithStack(m.notifier.Run(workerCtx, m.processor))
		})
	}
	return errors.WithStack(group.Wait())
}

func (m *Module) Shutdown() error {
	ctx := context.Background()
	var errList []error
	if err := m.processor.Shutdown(); err != nil {
		errList = append(errList, errors.Wrap(err, "failed to stop processor"))
	}
	for _, cleanup := range m.cleanupFuncs {
		if err := cleanup(ctx); err != nil {
			logger.WarnContext(ctx, "Failed to clean up boxsale module", slogx.Error(err))
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}
