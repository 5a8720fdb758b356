// Package segmenter converts timed VTT cues into fixed-geometry
// display segments (at most two lines, each bounded by a configured
// character width) with proportionally-distributed sub-timing.
package segmenter

import (
	"strings"

	"github.com/broadcastlabs/op47titler/internal/entities"
)

const maxLines = 2

// Segmenter wraps and splits cues into segments at a fixed line width.
type Segmenter struct {
	lineWidth int
}

func New(lineWidth int) *Segmenter {
	return &Segmenter{lineWidth: lineWidth}
}

// Segment converts a single cue into an ordered list of segments.
func (s *Segmenter) Segment(cue entities.Cue) []entities.Segment {
	lines := s.wrap(cue.Text)
	if len(lines) == 0 {
		return nil
	}

	chunks := chunk(lines, maxLines)
	segments := make([]entities.Segment, len(chunks))
	for i, c := range chunks {
		segments[i] = entities.Segment{Lines: truncateAll(c, s.lineWidth)}
	}

	s.distributeTiming(cue, segments)
	return segments
}

// SegmentAll runs Segment over every cue and concatenates the results
// in order. Cues are assumed already sorted by start time.
func (s *Segmenter) SegmentAll(cues []entities.Cue) []entities.Segment {
	var out []entities.Segment
	for _, c := range cues {
		out = append(out, s.Segment(c)...)
	}
	return out
}

// wrap splits text on whitespace and greedily packs words into lines
// no longer than lineWidth. A single word longer than lineWidth is
// hard-truncated; the dropped remainder is not carried to a new line.
func (s *Segmenter) wrap(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	var cur strings.Builder
	for _, w := range words {
		if len([]rune(w)) > s.lineWidth {
			w = string([]rune(w)[:s.lineWidth])
		}

		switch {
		case cur.Len() == 0:
			cur.WriteString(w)
		case len([]rune(cur.String()))+1+len([]rune(w)) <= s.lineWidth:
			cur.WriteByte(' ')
			cur.WriteString(w)
		default:
			lines = append(lines, cur.String())
			cur.Reset()
			cur.WriteString(w)
		}
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// chunk groups lines into groups of up to n.
func chunk(lines []string, n int) [][]string {
	var chunks [][]string
	for i := 0; i < len(lines); i += n {
		end := i + n
		if end > len(lines) {
			end = len(lines)
		}
		chunks = append(chunks, lines[i:end])
	}
	return chunks
}

func truncateAll(lines []string, width int) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		r := []rune(l)
		if len(r) > width {
			r = r[:width]
		}
		out[i] = string(r)
	}
	return out
}

// distributeTiming lays segments end-to-end from cue.StartS,
// proportional to each segment's character count, then pins the last
// segment's end to cue.EndS exactly to avoid floating-point drift. A
// single-segment cue inherits the cue's start and end unchanged.
func (s *Segmenter) distributeTiming(cue entities.Cue, segments []entities.Segment) {
	if len(segments) == 1 {
		segments[0].StartS = cue.StartS
		segments[0].EndS = cue.EndS
		return
	}

	totalChars := 0
	for _, seg := range segments {
		totalChars += seg.Chars()
	}
	if totalChars == 0 {
		totalChars = 1
	}

	t := cue.StartS
	for i := range segments {
		segments[i].StartS = t
		t += cue.Duration() * float64(segments[i].Chars()) / float64(totalChars)
		segments[i].EndS = t
	}
	segments[len(segments)-1].EndS = cue.EndS
}
