package models

const (
	StudentsTable = "students"
	// MaxStudentRecords caps every page view.
	MaxStudentRecords = 50
)

// StudentColumns is the fixed projection requested from the backend.
var StudentColumns = []string{
	"id",
	"student_number",
	"first_name",
	"middle_name",
	"last_name",
	"email",
	"department",
	"program",
	"year_level",
	"created_at",
}

// RecordQuery describes a read against a record source: which table, which
// columns, the ordering column and a row limit.
type RecordQuery struct {
	Table      string
	Columns    []string
	OrderBy    string
	Descending bool
	Limit      int
}

// StudentsQuery is the query the record viewer issues on mount.
func StudentsQuery() RecordQuery {
	columns := make([]string, len(StudentColumns))
	copy(columns, StudentColumns)

	return RecordQuery{
		Table:      StudentsTable,
		Columns:    columns,
		OrderBy:    "created_at",
		Descending: true,
		Limit:      MaxStudentRecords,
	}
}
