package segmenter

import (
	"strings"
	"testing"

	"github.com/broadcastlabs/op47titler/internal/entities"
	"github.com/stretchr/testify/assert"
)

func TestSegment_ShortCue_SingleSegmentInheritsTiming(t *testing.T) {
	s := New(38)
	cue := entities.Cue{StartS: 1.0, EndS: 3.0, Text: "hello world"}
	segs := s.Segment(cue)
	assert.Len(t, segs, 1)
	assert.Equal(t, 1.0, segs[0].StartS)
	assert.Equal(t, 3.0, segs[0].EndS)
	assert.Equal(t, []string{"hello world"}, segs[0].Lines)
}

func TestSegment_LongCue_ProducesMultipleSegmentsProportionalTiming(t *testing.T) {
	s := New(10)
	text := strings.Repeat("word ", 20)
	cue := entities.Cue{StartS: 0, EndS: 10, Text: text}
	segs := s.Segment(cue)

	assert.Greater(t, len(segs), 1)
	for _, seg := range segs {
		assert.LessOrEqual(t, len(seg.Lines), maxLines)
		for _, l := range seg.Lines {
			assert.LessOrEqual(t, len([]rune(l)), 10)
		}
	}

	// Last segment ends exactly at cue end.
	assert.Equal(t, cue.EndS, segs[len(segs)-1].EndS)

	// Segments strictly ordered, non-overlapping, and laid end-to-end.
	for i := 1; i < len(segs); i++ {
		assert.Equal(t, segs[i-1].EndS, segs[i].StartS)
		assert.Greater(t, segs[i].StartS, segs[i-1].StartS)
	}
	assert.Equal(t, cue.StartS, segs[0].StartS)
}

func TestWrap_SingleWordLongerThanLineWidth_HardTruncated(t *testing.T) {
	s := New(5)
	lines := s.wrap("abcdefgh")
	assert.Equal(t, []string{"abcde"}, lines)
}

func TestWrap_GreedyPacking(t *testing.T) {
	s := New(11)
	lines := s.wrap("the quick brown fox")
	assert.Equal(t, []string{"the quick", "brown fox"}, lines)
}

func TestSegment_EmptyText_NoSegments(t *testing.T) {
	s := New(38)
	segs := s.Segment(entities.Cue{StartS: 0, EndS: 1, Text: "   "})
	assert.Nil(t, segs)
}

func TestSegment_EveryLineWithinWidthInvariant(t *testing.T) {
	s := New(15)
	cue := entities.Cue{StartS: 0, EndS: 20, Text: strings.Repeat("supercalifragilistic ", 10)}
	segs := s.Segment(cue)
	for _, seg := range segs {
		assert.LessOrEqual(t, len(seg.Lines), maxLines)
		for _, l := range seg.Lines {
			assert.LessOrEqual(t, len([]rune(l)), 15)
		}
	}
}

func TestSegmentAll_ConcatenatesInOrder(t *testing.T) {
	s := New(38)
	cues := []entities.Cue{
		{StartS: 0, EndS: 1, Text: "one"},
		{StartS: 2, EndS: 3, Text: "two"},
	}
	segs := s.SegmentAll(cues)
	assert.Len(t, segs, 2)
	assert.Equal(t, []string{"one"}, segs[0].Lines)
	assert.Equal(t, []string{"two"}, segs[1].Lines)
}
