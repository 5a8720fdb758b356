package handlers

import (
	"net/http"

	"github.com/broadcastlabs/op47titler/internal/controllers"
	"github.com/broadcastlabs/op47titler/internal/entities"
	"github.com/broadcastlabs/op47titler/internal/mapper"
)

// StopHandler serves POST|DELETE /titling/stop: halt the scheduler
// and dispatch a final clear command.
type StopHandler struct {
	controller *controllers.TitlingController
}

func NewStopHandler(c *controllers.TitlingController) *StopHandler {
	return &StopHandler{controller: c}
}

func (h *StopHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		SetError(w, http.StatusBadRequest, entities.ErrHTTPPostOnly)
		return
	}

	h.controller.Stop()
	SetSuccessJSON(w, mapper.StopResponse{OK: true, Message: "titling stopped"})
}
