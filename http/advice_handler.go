package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"payoff-engine/domain"
	"payoff-engine/service"
)

// AdviceTracker is the part of the debouncer the handler needs.
type AdviceTracker interface {
	Submit(session string, req domain.AdviceRequest) (domain.AdviceStatus, error)
	Status(session string) domain.AdviceStatus
}

type AdviceHandler struct {
	tracker AdviceTracker
}

func NewAdviceHandler(tracker AdviceTracker) *AdviceHandler {
	return &AdviceHandler{tracker: tracker}
}

// Create opens a new session under a random id and submits to it.
func (h *AdviceHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, uuid.NewString())
}

// Submit schedules advice for arbitrary data and answers 202 right away.
func (h *AdviceHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, chi.URLParam(r, "session"))
}

func (h *AdviceHandler) submit(w http.ResponseWriter, r *http.Request, session string) {
	var req domain.AdviceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Context == "" {
		writeError(w, http.StatusBadRequest, "context is required", "context")
		return
	}

	status, err := h.tracker.Submit(session, req)
	if err != nil {
		if errors.Is(err, service.ErrDebouncerStopped) {
			writeError(w, http.StatusServiceUnavailable, "advice is shutting down", "")
			return
		}
		writeServiceError(w, "advice submission", err)
		return
	}
	writeJSON(w, http.StatusAccepted, status)
}

func (h *AdviceHandler) Status(w http.ResponseWriter, r *http.Request) {
	status := h.tracker.Status(chi.URLParam(r, "session"))
	if status.State == domain.AdviceUnknown {
		writeJSON(w, http.StatusNotFound, status)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
