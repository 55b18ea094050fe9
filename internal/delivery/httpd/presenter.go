package httpd

import (
	"strings"
	"time"

	"github.com/RubachokBoss/student-records/internal/models"
	"github.com/RubachokBoss/student-records/internal/service"
)

// Placeholder stands in for any missing value on the page.
const Placeholder = "—"

const pageTitle = "🎓 Student Records"

// timestamp layouts tried in order; the first matches what PostgREST and
// lib/pq emit, the rest cover timestamp columns without a zone.
var createdAtLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05Z07",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

type StudentRow struct {
	ID         string
	Name       string
	Email      string
	Department string
	Program    string
	Year       string
	Created    string
}

type PageData struct {
	Title   string
	Loading bool
	Error   string
	Empty   bool
	Rows    []StudentRow
}

type Presenter struct {
	location *time.Location
	layout   string
}

func NewPresenter(location *time.Location, layout string) *Presenter {
	if location == nil {
		location = time.Local
	}
	if layout == "" {
		layout = "1/2/2006, 3:04:05 PM"
	}
	return &Presenter{location: location, layout: layout}
}

func (p *Presenter) Page(state service.ViewState) PageData {
	data := PageData{Title: pageTitle}

	switch state.Phase {
	case service.PhaseError:
		data.Error = state.Error
		if data.Error == "" {
			data.Error = models.UnknownErrorMessage
		}
	case service.PhaseLoaded:
		if len(state.Records) == 0 {
			data.Empty = true
			break
		}
		data.Rows = make([]StudentRow, 0, len(state.Records))
		for _, r := range state.Records {
			data.Rows = append(data.Rows, p.Row(r))
		}
	default:
		data.Loading = true
	}

	return data
}

func (p *Presenter) Row(s models.StudentRecord) StudentRow {
	return StudentRow{
		ID:         orPlaceholder(s.ID),
		Name:       orPlaceholder(s.FullName()),
		Email:      orPlaceholder(models.Value(s.Email)),
		Department: orPlaceholder(models.Value(s.Department)),
		Program:    orPlaceholder(models.Value(s.Program)),
		Year:       orPlaceholder(models.Value(s.YearLevel)),
		Created:    p.FormatCreated(s.CreatedAt),
	}
}

// FormatCreated renders a created_at value as a date-time in the configured
// zone. Values that do not parse are shown as fetched.
func (p *Presenter) FormatCreated(v *string) string {
	raw := strings.TrimSpace(models.Value(v))
	if raw == "" {
		return Placeholder
	}

	for _, layout := range createdAtLayouts {
		t, err := time.ParseInLocation(layout, raw, p.location)
		if err == nil {
			return t.In(p.location).Format(p.layout)
		}
	}
	return raw
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}
