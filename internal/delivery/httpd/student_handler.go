package httpd

import (
	"bytes"
	"context"
	"net/http"

	"github.com/RubachokBoss/student-records/internal/models"
	"github.com/RubachokBoss/student-records/internal/service"
	"github.com/go-chi/chi/v5/middleware"
)

type studentsResponse struct {
	State   service.Phase          `json:"state"`
	Error   string                 `json:"error,omitempty"`
	Records []models.StudentRecord `json:"records"`
	Total   int                    `json:"total"`
}

// StudentsPage renders the student records page for a fresh page view.
func (h *Handler) StudentsPage(w http.ResponseWriter, r *http.Request) {
	state := h.view(r)

	var buf bytes.Buffer
	if err := h.page.Execute(&buf, h.presenter.Page(state)); err != nil {
		h.logger.Error().Err(err).Msg("Failed to render students page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// GetStudents is the JSON form of the same page view.
func (h *Handler) GetStudents(w http.ResponseWriter, r *http.Request) {
	state := h.view(r)

	switch state.Phase {
	case service.PhaseLoaded:
		writeSuccess(w, http.StatusOK, studentsResponse{
			State:   state.Phase,
			Records: state.Records,
			Total:   len(state.Records),
		})
	case service.PhaseError:
		writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"success": false,
			"data": studentsResponse{
				State:   state.Phase,
				Error:   state.Error,
				Records: []models.StudentRecord{},
			},
		})
	default:
		writeError(w, http.StatusGatewayTimeout, "Student records are still loading")
	}
}

func (h *Handler) view(r *http.Request) service.ViewState {
	ctx := r.Context()
	if h.renderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.renderTimeout)
		defer cancel()
	}

	viewer := h.viewService.Open(r.Context())
	state := viewer.Wait(ctx)

	h.logger.Debug().
		Str("viewer_id", viewer.ID()).
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("state", string(state.Phase)).
		Msg("Page view resolved")

	return state
}
