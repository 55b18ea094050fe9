package service

import (
	"context"

	"github.com/rs/zerolog"
)

// StudentViewService hands out one mounted Viewer per page view.
type StudentViewService interface {
	Open(ctx context.Context) *Viewer
	Ping(ctx context.Context) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

type studentViewService struct {
	source  RecordSource
	metrics *Metrics
	logger  zerolog.Logger
}

func NewStudentViewService(source RecordSource, metrics *Metrics, logger zerolog.Logger) StudentViewService {
	return &studentViewService{
		source:  source,
		metrics: metrics,
		logger:  logger.With().Str("component", "student_viewer").Logger(),
	}
}

func (s *studentViewService) Open(ctx context.Context) *Viewer {
	v := NewViewer(s.source, s.metrics, s.logger)
	v.Mount(ctx)
	return v
}

// Ping reports whether the record source is reachable. Sources that cannot
// be pinged are assumed up.
func (s *studentViewService) Ping(ctx context.Context) error {
	if p, ok := s.source.(pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
