package httpd

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/RubachokBoss/student-records/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

type Handler struct {
	viewService    service.StudentViewService
	presenter      *Presenter
	page           *template.Template
	renderTimeout  time.Duration
	metricsHandler http.Handler
	logger         zerolog.Logger
}

// NewHandler parses the page template. renderTimeout bounds how long a page
// view waits for its query before rendering whatever state it has; zero
// means wait as long as the request lives. metricsHandler may be nil.
func NewHandler(
	viewService service.StudentViewService,
	presenter *Presenter,
	renderTimeout time.Duration,
	metricsHandler http.Handler,
	logger zerolog.Logger,
) (*Handler, error) {
	page, err := template.ParseFS(templateFS, "templates/students.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	return &Handler{
		viewService:    viewService,
		presenter:      presenter,
		page:           page,
		renderTimeout:  renderTimeout,
		metricsHandler: metricsHandler,
		logger:         logger,
	}, nil
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", h.StudentsPage)
	router.Get("/health", h.HealthCheck)
	router.Get("/ready", h.ReadyCheck)

	if h.metricsHandler != nil {
		router.Handle("/metrics", h.metricsHandler)
	}

	router.Route("/api/v1", func(api chi.Router) {
		api.Get("/students", h.GetStudents)
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":   http.StatusText(status),
		"message": message,
	})
}

func writeSuccess(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}
