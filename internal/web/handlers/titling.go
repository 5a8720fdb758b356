package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/broadcastlabs/op47titler/internal/controllers"
	"github.com/broadcastlabs/op47titler/internal/entities"
	"github.com/broadcastlabs/op47titler/internal/mapper"
	"go.uber.org/zap"
)

// TitlingHandler serves POST /titling: load a VTT file, segment it,
// and start the scheduler against the requested time mode.
type TitlingHandler struct {
	l          *zap.SugaredLogger
	mapper     *mapper.Mapper
	controller *controllers.TitlingController
}

func NewTitlingHandler(l *zap.SugaredLogger, m *mapper.Mapper, c *controllers.TitlingController) *TitlingHandler {
	return &TitlingHandler{l: l, mapper: m, controller: c}
}

func (h *TitlingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		SetError(w, http.StatusBadRequest, entities.ErrHTTPPostOnly)
		return
	}

	var req mapper.TitlingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SetError(w, http.StatusBadRequest, err)
		return
	}

	mode, err := h.mapper.ValidateTitlingRequest(req)
	if err != nil {
		SetError(w, http.StatusBadRequest, err)
		return
	}

	var startAt float64
	if req.StartAt != nil {
		startAt = *req.StartAt
	}

	cues, segments, err := h.controller.Load(req.VTTPath, mode, startAt)
	if err != nil {
		h.l.Errorw("failed to load titling request", "vttPath", req.VTTPath, "error", err)
		SetError(w, http.StatusBadRequest, err)
		return
	}

	SetSuccessJSON(w, h.mapper.ToTitlingResponse(len(cues), len(segments), mode, req.StartAt))
}
