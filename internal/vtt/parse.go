// Package vtt extracts timed cues from WebVTT caption files. Parsing
// is deliberately tolerant: only cue timestamp lines and the text that
// follows them are recognized, everything else (headers, cue
// identifiers, NOTE blocks, styling) is skipped.
package vtt

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/broadcastlabs/op47titler/internal/entities"
)

var timestampLine = regexp.MustCompile(
	`^\s*(?:(\d{2}):)?(\d{2}):(\d{2})\.(\d{3})\s*-->\s*(?:(\d{2}):)?(\d{2}):(\d{2})\.(\d{3})`,
)

// ParseCues reads a WebVTT document and returns every recognized cue,
// in file order. Unrecognized lines are skipped; a file with no
// recognizable cues yields an empty, non-nil slice.
func ParseCues(r io.Reader) ([]entities.Cue, error) {
	cues := []entities.Cue{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		m := timestampLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		start, err := parseTimestamp(m[1], m[2], m[3], m[4])
		if err != nil {
			continue
		}
		end, err := parseTimestamp(m[5], m[6], m[7], m[8])
		if err != nil {
			continue
		}

		var textLines []string
		for scanner.Scan() {
			l := strings.TrimSpace(scanner.Text())
			if l == "" {
				break
			}
			textLines = append(textLines, l)
		}

		text := collapseWhitespace(strings.Join(textLines, " "))
		if text == "" || end <= start {
			continue
		}

		cues = append(cues, entities.Cue{StartS: start, EndS: end, Text: text})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cues, nil
}

func parseTimestamp(hh, mm, ss, mmm string) (float64, error) {
	var hours int
	var err error
	if hh != "" {
		hours, err = strconv.Atoi(hh)
		if err != nil {
			return 0, err
		}
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil {
		return 0, err
	}
	seconds, err := strconv.Atoi(ss)
	if err != nil {
		return 0, err
	}
	millis, err := strconv.Atoi(mmm)
	if err != nil {
		return 0, err
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

var whitespaceRun = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}
