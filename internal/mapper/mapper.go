// Package mapper converts between the HTTP control surface's JSON
// wire shapes and the core entities, mirroring the teacher's
// mapper.Mapper as the single translation boundary.
package mapper

import (
	"github.com/broadcastlabs/op47titler/internal/entities"
	"go.uber.org/zap"
)

// TitlingRequest is the JSON body of POST /titling.
type TitlingRequest struct {
	VTTPath  string   `json:"vttPath"`
	TimeMode string   `json:"timeMode,omitempty"`
	StartAt  *float64 `json:"startAt,omitempty"`
}

// TitlingResponse is the JSON body returned by a successful POST /titling.
type TitlingResponse struct {
	OK       bool     `json:"ok"`
	Cues     int      `json:"cues"`
	Segments int      `json:"segments"`
	TimeMode string   `json:"timeMode"`
	StartAt  *float64 `json:"startAt,omitempty"`
}

// StopResponse is the JSON body returned by POST|DELETE /titling/stop.
type StopResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type Mapper struct {
	l *zap.SugaredLogger
}

func NewMapper(l *zap.SugaredLogger) *Mapper {
	return &Mapper{l: l}
}

// ValidateTitlingRequest checks the required fields and resolves the
// requested timeMode, defaulting to autonomous when absent.
func (m *Mapper) ValidateTitlingRequest(req TitlingRequest) (entities.TimeMode, error) {
	if req.VTTPath == "" {
		return "", entities.ErrMissingVTTPath
	}

	mode := entities.TimeMode(req.TimeMode)
	if mode == "" {
		mode = entities.TimeModeAutonomous
	}
	if mode != entities.TimeModeExternal && mode != entities.TimeModeAutonomous {
		m.l.Errorw("invalid timeMode", "timeMode", req.TimeMode)
		return "", entities.ErrInvalidTimeMode
	}
	return mode, nil
}

// ToTitlingResponse builds the success response for a loaded titling request.
func (m *Mapper) ToTitlingResponse(cues, segments int, mode entities.TimeMode, startAt *float64) TitlingResponse {
	return TitlingResponse{
		OK:       true,
		Cues:     cues,
		Segments: segments,
		TimeMode: string(mode),
		StartAt:  startAt,
	}
}
