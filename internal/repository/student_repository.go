package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RubachokBoss/student-records/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// StudentRepository reads student records straight from Postgres. It answers
// the same RecordQuery the REST client does.
type StudentRepository interface {
	Select(ctx context.Context, q models.RecordQuery) ([]models.StudentRecord, error)
	Ping(ctx context.Context) error
}

type studentRepository struct {
	*PostgresRepository
}

type studentRow struct {
	ID            string         `db:"id"`
	StudentNumber sql.NullString `db:"student_number"`
	FirstName     sql.NullString `db:"first_name"`
	MiddleName    sql.NullString `db:"middle_name"`
	LastName      sql.NullString `db:"last_name"`
	Email         sql.NullString `db:"email"`
	Department    sql.NullString `db:"department"`
	Program       sql.NullString `db:"program"`
	YearLevel     sql.NullString `db:"year_level"`
	CreatedAt     sql.NullTime   `db:"created_at"`
}

// NewStudentRepository bounds every Select by queryTimeout. The viewer fetches
// on a detached context, so this is the only deadline a hung query sees.
func NewStudentRepository(db *sqlx.DB, queryTimeout time.Duration, logger zerolog.Logger) StudentRepository {
	return &studentRepository{
		PostgresRepository: NewPostgresRepository(
			db,
			queryTimeout,
			logger.With().Str("component", "student_repository").Logger(),
		),
	}
}

func (r *studentRepository) Select(ctx context.Context, q models.RecordQuery) ([]models.StudentRecord, error) {
	query, args, err := buildSelect(q)
	if err != nil {
		return nil, &models.QueryFailure{Message: err.Error(), Err: err}
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	var rows []studentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			r.logger.Error().Err(err).Str("table", q.Table).Dur("timeout", r.queryTimeout).Msg("Select timed out")
			return nil, &models.QueryFailure{
				Message: "query timed out",
				Err:     fmt.Errorf("%w: %w", context.DeadlineExceeded, err),
			}
		}
		r.logger.Error().Err(err).Str("table", q.Table).Msg("Failed to select records")
		return nil, pqFailure(err)
	}

	records := make([]models.StudentRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toRecord())
	}

	return records, nil
}

// buildSelect renders a RecordQuery as SQL. Identifiers are quoted, the limit
// is bound as a parameter.
func buildSelect(q models.RecordQuery) (string, []any, error) {
	if q.Table == "" {
		return "", nil, fmt.Errorf("query has no table")
	}

	columns := "*"
	if len(q.Columns) > 0 {
		quoted := make([]string, len(q.Columns))
		for i, c := range q.Columns {
			quoted[i] = pq.QuoteIdentifier(c)
		}
		columns = strings.Join(quoted, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", columns, pq.QuoteIdentifier(q.Table))

	if q.OrderBy != "" {
		dir := "ASC"
		if q.Descending {
			dir = "DESC"
		}
		fmt.Fprintf(&b, " ORDER BY %s %s", pq.QuoteIdentifier(q.OrderBy), dir)
	}

	var args []any
	if q.Limit > 0 {
		b.WriteString(" LIMIT $1")
		args = append(args, q.Limit)
	}

	return b.String(), args, nil
}

func pqFailure(err error) *models.QueryFailure {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return models.NewQueryFailure(err)
	}
	return &models.QueryFailure{
		Message: pqErr.Message,
		Code:    string(pqErr.Code),
		Details: pqErr.Detail,
		Hint:    pqErr.Hint,
		Err:     err,
	}
}

func (row studentRow) toRecord() models.StudentRecord {
	rec := models.StudentRecord{
		ID:            row.ID,
		StudentNumber: nullString(row.StudentNumber),
		FirstName:     nullString(row.FirstName),
		MiddleName:    nullString(row.MiddleName),
		LastName:      nullString(row.LastName),
		Email:         nullString(row.Email),
		Department:    nullString(row.Department),
		Program:       nullString(row.Program),
		YearLevel:     nullString(row.YearLevel),
	}
	if row.CreatedAt.Valid {
		ts := row.CreatedAt.Time.UTC().Format(time.RFC3339Nano)
		rec.CreatedAt = &ts
	}
	return rec
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
