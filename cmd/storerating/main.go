package main

import (
	"context"
	"log/slog"

	"storerating/config"
	"storerating/internal/delivery"
	"storerating/internal/delivery/cli"
	"storerating/internal/domain/service"
	"storerating/internal/infra/auth"
	logs "storerating/internal/infra/log"
	"storerating/internal/infra/seed"
	"storerating/internal/infra/session"
	"storerating/internal/usecase/impl"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

type startConsoleParams struct {
	fx.In
	fx.Lifecycle

	Shutdowner fx.Shutdowner
	Seeder     *seed.Seeder
	Logger     *slog.Logger
	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		options(),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger}
		}),
	).Run()
}

func options() fx.Option {
	return fx.Options(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		fx.Invoke(
			startConsole,
		),
	)
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		newClock,
		session.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			newStorage,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewIdentityService,
			impl.NewRatingService,
			impl.NewDirectoryService,
			seed.NewSeeder,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				cli.NewConsole,
				fx.As(new(delivery.Delivery)),
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func newClock() service.Clock {
	return service.SystemClock{}
}

// startConsole seeds the directory on start, then serves every delivery and
// stops the application once the last one returns.
func startConsole(params startConsoleParams) {
	runCtx, cancel := context.WithCancel(context.Background())

	params.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := params.Seeder.Run(ctx); err != nil {
				return err
			}

			for _, d := range params.Deliveries {
				go func() {
					if err := d.Serve(runCtx); err != nil {
						params.Logger.Error("Delivery stopped with error", slog.Any("error", err))
					}
					if err := params.Shutdowner.Shutdown(); err != nil {
						params.Logger.Error("Failed to shut down", slog.Any("error", err))
					}
				}()
			}

			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()

			return nil
		},
	})
}
