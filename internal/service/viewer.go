package service

import (
	"context"
	"sync"
	"time"

	"github.com/RubachokBoss/student-records/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// RecordSource answers a RecordQuery. Implemented by the REST client and the
// Postgres repository.
type RecordSource interface {
	Select(ctx context.Context, q models.RecordQuery) ([]models.StudentRecord, error)
}

type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseError   Phase = "error"
	PhaseLoaded  Phase = "loaded"
)

// ViewState is a snapshot of a viewer. Exactly one of the three phases holds;
// Records is only meaningful when loaded, Error only on failure.
type ViewState struct {
	Phase   Phase
	Records []models.StudentRecord
	Error   string
}

// Viewer holds the state of one page view. It starts out loading and moves
// to error or loaded once its single query resolves; it never goes back.
type Viewer struct {
	id      string
	source  RecordSource
	metrics *Metrics
	logger  zerolog.Logger

	once sync.Once
	done chan struct{}

	mu    sync.RWMutex
	state ViewState
}

func NewViewer(source RecordSource, metrics *Metrics, logger zerolog.Logger) *Viewer {
	id := uuid.NewString()

	return &Viewer{
		id:      id,
		source:  source,
		metrics: metrics,
		logger:  logger.With().Str("viewer_id", id).Logger(),
		done:    make(chan struct{}),
		state:   ViewState{Phase: PhaseLoading},
	}
}

func (v *Viewer) ID() string {
	return v.id
}

// Mount issues the students query. Only the first call does anything.
// The query outlives ctx's cancellation: if the caller goes away the result
// is stored but nobody reads it.
func (v *Viewer) Mount(ctx context.Context) {
	v.once.Do(func() {
		go v.fetch(context.WithoutCancel(ctx))
	})
}

// Wait blocks until the query resolves or ctx ends, then returns the state.
func (v *Viewer) Wait(ctx context.Context) ViewState {
	select {
	case <-v.done:
	case <-ctx.Done():
	}
	return v.State()
}

func (v *Viewer) State() ViewState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

// Done is closed once the viewer has left the loading phase.
func (v *Viewer) Done() <-chan struct{} {
	return v.done
}

func (v *Viewer) fetch(ctx context.Context) {
	defer close(v.done)

	start := time.Now()
	records, err := v.source.Select(ctx, models.StudentsQuery())
	took := time.Since(start)

	if err != nil {
		msg := models.FailureMessage(err)
		v.metrics.observe(outcomeFailure, took, 0)
		v.logger.Warn().Err(err).Dur("duration", took).Msg("Student query failed")
		v.set(ViewState{Phase: PhaseError, Error: msg})
		return
	}

	if records == nil {
		records = []models.StudentRecord{}
	}
	if len(records) > models.MaxStudentRecords {
		v.logger.Warn().
			Int("returned", len(records)).
			Int("limit", models.MaxStudentRecords).
			Msg("Backend ignored row limit, truncating")
		records = records[:models.MaxStudentRecords]
	}

	v.metrics.observe(outcomeSuccess, took, len(records))
	v.logger.Debug().Int("count", len(records)).Dur("duration", took).Msg("Student query resolved")
	v.set(ViewState{Phase: PhaseLoaded, Records: records})
}

func (v *Viewer) set(state ViewState) {
	v.mu.Lock()
	v.state = state
	v.mu.Unlock()
}
