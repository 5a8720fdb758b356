package entities

import "errors"

var ErrHTTPGetOnly = errors.New("you must use http GET verb")
var ErrHTTPPostOnly = errors.New("you must use http POST verb")

var ErrMissingVTTPath = errors.New("vttPath must not be empty")
var ErrInvalidTimeMode = errors.New("timeMode must be \"external\" or \"autonomous\"")
var ErrInvalidCue = errors.New("cue end must be greater than start")
var ErrEmptyCueText = errors.New("cue text must not be empty after trim")

var ErrVTTFileNotFound = errors.New("vtt file not found")
var ErrVTTFileUnreadable = errors.New("vtt file could not be read")

var ErrNoTimeSourceForMode = errors.New("no time source registered for requested mode")
var ErrNotRunning = errors.New("scheduler is not running")
