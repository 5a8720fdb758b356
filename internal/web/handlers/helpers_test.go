package handlers

import (
	"time"

	"github.com/broadcastlabs/op47titler/internal/controllers"
	"github.com/broadcastlabs/op47titler/internal/scheduler"
	"github.com/broadcastlabs/op47titler/internal/segmenter"
	"github.com/broadcastlabs/op47titler/internal/timesource"
	"go.uber.org/zap"
)

type nopDispatcher struct{}

func (nopDispatcher) ShowTitle(lines []string) error { return nil }
func (nopDispatcher) ClearTitle() error              { return nil }

func newTestController() *controllers.TitlingController {
	log := zap.NewNop().Sugar()
	sched := scheduler.New(log, nopDispatcher{}, 100*time.Millisecond, 2*time.Second)
	return controllers.NewTitlingController(
		log,
		segmenter.New(38),
		sched,
		controllers.TitlingControllerParams{
			TimeSources: []timesource.TimeSource{
				timesource.NewAutonomousClock(timesource.SystemClock),
				timesource.NewExternalSource("chan/time", false),
			},
		},
	)
}
