package web

import (
	"log"
	"time"

	"github.com/broadcastlabs/op47titler/internal/controllers"
	"github.com/broadcastlabs/op47titler/internal/dispatcher"
	"github.com/broadcastlabs/op47titler/internal/entities"
	"github.com/broadcastlabs/op47titler/internal/mapper"
	"github.com/broadcastlabs/op47titler/internal/scheduler"
	"github.com/broadcastlabs/op47titler/internal/segmenter"
	"github.com/broadcastlabs/op47titler/internal/teletext"
	"github.com/broadcastlabs/op47titler/internal/timesource"
	"github.com/broadcastlabs/op47titler/internal/web/handlers"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Dependencies() fx.Option {
	var c entities.Config
	if err := envconfig.Process("op47titler", &c); err != nil {
		log.Fatal(err.Error())
	}

	return fx.Options(
		// HTTP Server
		fx.Provide(NewHTTPServer),

		// HTTP router
		fx.Provide(NewServeMux),

		// HTTP handlers
		fx.Provide(handlers.NewTitlingHandler),
		fx.Provide(handlers.NewStopHandler),

		// Encoding
		fx.Provide(providePageEncoder),

		// Downstream dispatcher
		fx.Provide(provideDispatcher),
		fx.Provide(provideTitleDispatcher),

		// Scheduling and segmenting
		fx.Provide(provideScheduler),
		fx.Provide(provideSegmenter),

		// Time sources, grouped for TitlingController's selectSourceFor.
		fx.Provide(
			fx.Annotate(
				provideAutonomousClock,
				fx.As(new(timesource.TimeSource)),
				fx.ResultTags(`group:"timesources"`),
			),
		),
		fx.Provide(
			fx.Annotate(
				provideExternalSource,
				fx.As(new(timesource.TimeSource)),
				fx.ResultTags(`group:"timesources"`),
			),
		),

		// Controllers
		fx.Provide(controllers.NewTitlingController),

		// Mappers
		fx.Provide(mapper.NewMapper),

		// Logging, Config constructors
		fx.Provide(func() *zap.SugaredLogger {
			logger, _ := zap.NewProduction()
			return logger.Sugar()
		}),
		fx.Provide(func() *entities.Config {
			return &c
		}),

		// Lifecycle-only wiring
		fx.Invoke(registerDispatcher),
	)
}

func providePageEncoder(c *entities.Config) *teletext.PageEncoder {
	return teletext.NewPageEncoder(c)
}

func provideDispatcher(c *entities.Config, l *zap.SugaredLogger) *dispatcher.Dispatcher {
	return dispatcher.New(
		l,
		c.DownstreamHost,
		c.DownstreamPort,
		c.DownstreamChannelLayer,
		time.Duration(c.DownstreamReconnectDelayMS)*time.Millisecond,
	)
}

func provideTitleDispatcher(d *dispatcher.Dispatcher, enc *teletext.PageEncoder) *dispatcher.TitleDispatcher {
	return dispatcher.NewTitleDispatcher(d, enc)
}

func provideScheduler(l *zap.SugaredLogger, td *dispatcher.TitleDispatcher, c *entities.Config) *scheduler.Scheduler {
	return scheduler.New(
		l,
		td,
		time.Duration(c.SchedulerTickIntervalMS)*time.Millisecond,
		time.Duration(c.SchedulerHangWindowMS)*time.Millisecond,
	)
}

func provideSegmenter(c *entities.Config) *segmenter.Segmenter {
	return segmenter.New(c.LineWidth)
}

func provideAutonomousClock() *timesource.AutonomousClock {
	return timesource.NewAutonomousClock(timesource.SystemClock)
}

func provideExternalSource(c *entities.Config) *timesource.ExternalSource {
	return timesource.NewExternalSource(c.ExternalTimeAddress, c.TimeSourceStrictMatch)
}

func registerDispatcher(d *dispatcher.Dispatcher, lc fx.Lifecycle) {
	d.Register(lc)
}
