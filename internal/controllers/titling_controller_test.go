package controllers

import (
	"os"
	"testing"
	"time"

	"github.com/broadcastlabs/op47titler/internal/entities"
	"github.com/broadcastlabs/op47titler/internal/scheduler"
	"github.com/broadcastlabs/op47titler/internal/segmenter"
	"github.com/broadcastlabs/op47titler/internal/timesource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDispatcher struct {
	shown   [][]string
	cleared int
}

func (f *fakeDispatcher) ShowTitle(lines []string) error {
	f.shown = append(f.shown, lines)
	return nil
}

func (f *fakeDispatcher) ClearTitle() error {
	f.cleared++
	return nil
}

func newController(t *testing.T, d scheduler.Dispatcher) (*TitlingController, *timesource.ExternalSource) {
	log := zap.NewNop().Sugar()
	sched := scheduler.New(log, d, 100*time.Millisecond, 2*time.Second)
	external := timesource.NewExternalSource("chan/time", false)
	autonomous := timesource.NewAutonomousClock(timesource.SystemClock)

	c := NewTitlingController(
		log,
		segmenter.New(38),
		sched,
		TitlingControllerParams{
			TimeSources: []timesource.TimeSource{autonomous, external},
		},
	)
	return c, external
}

func writeTempVTT(t *testing.T, contents string) string {
	f, err := os.CreateTemp(t.TempDir(), "*.vtt")
	require.NoError(t, err)
	_, err = f.WriteString(contents)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func TestLoad_ValidVTT_ReturnsCuesAndSegments(t *testing.T) {
	c, _ := newController(t, &fakeDispatcher{})
	path := writeTempVTT(t, "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nhello\n")

	cues, segments, err := c.Load(path, entities.TimeModeAutonomous, 0)
	require.NoError(t, err)
	assert.Len(t, cues, 1)
	assert.Len(t, segments, 1)
}

func TestLoad_MissingFile_ReturnsNotFound(t *testing.T) {
	c, _ := newController(t, &fakeDispatcher{})
	_, _, err := c.Load("/no/such/file.vtt", entities.TimeModeAutonomous, 0)
	assert.ErrorIs(t, err, entities.ErrVTTFileNotFound)
}

func TestLoad_ExternalMode_ClearsPriorReading(t *testing.T) {
	c, external := newController(t, &fakeDispatcher{})
	external.Update("chan/time", 42.0)

	path := writeTempVTT(t, "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nhello\n")
	_, _, err := c.Load(path, entities.TimeModeExternal, 0)
	require.NoError(t, err)

	_, ok := external.GetTime()
	assert.False(t, ok)
}

func TestLoad_UnknownMode_ReturnsError(t *testing.T) {
	c, _ := newController(t, &fakeDispatcher{})
	path := writeTempVTT(t, "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nhello\n")
	_, _, err := c.Load(path, entities.TimeMode("bogus"), 0)
	assert.ErrorIs(t, err, entities.ErrNoTimeSourceForMode)
}

func TestStop_DispatchesClear(t *testing.T) {
	d := &fakeDispatcher{}
	c, _ := newController(t, d)
	path := writeTempVTT(t, "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nhello\n")

	_, _, err := c.Load(path, entities.TimeModeAutonomous, 0)
	require.NoError(t, err)

	c.Stop()
	assert.Equal(t, 1, d.cleared)
}
