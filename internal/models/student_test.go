package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullName(t *testing.T) {
	tests := []struct {
		name   string
		record StudentRecord
		want   string
	}{
		{
			name:   "first and last",
			record: StudentRecord{ID: "1", FirstName: Ptr("A"), LastName: Ptr("C")},
			want:   "A C",
		},
		{
			name:   "all parts",
			record: StudentRecord{ID: "2", FirstName: Ptr("Ana"), MiddleName: Ptr("B."), LastName: Ptr("Cruz")},
			want:   "Ana B. Cruz",
		},
		{
			name:   "empty middle skipped",
			record: StudentRecord{ID: "3", FirstName: Ptr("A"), MiddleName: Ptr(""), LastName: Ptr("C")},
			want:   "A C",
		},
		{
			name:   "none",
			record: StudentRecord{ID: "4"},
			want:   "",
		},
		{
			name:   "all empty",
			record: StudentRecord{ID: "5", FirstName: Ptr(""), MiddleName: Ptr(""), LastName: Ptr("")},
			want:   "",
		},
		{
			name:   "last only",
			record: StudentRecord{ID: "6", LastName: Ptr("Doe")},
			want:   "Doe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.FullName())
		})
	}
}

func TestStudentRecordUnmarshalNumericColumns(t *testing.T) {
	var records []StudentRecord
	err := json.Unmarshal([]byte(`[
		{"id":1,"student_number":20240017,"first_name":"Jane","year_level":2},
		{"id":"a1b2","student_number":"S-002","year_level":null,"email":"x@y.z"},
		{"id":9007199254740993,"year_level":"3rd"}
	]`), &records)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "1", records[0].ID)
	assert.Equal(t, "20240017", Value(records[0].StudentNumber))
	assert.Equal(t, "Jane", Value(records[0].FirstName))
	assert.Equal(t, "2", Value(records[0].YearLevel))

	assert.Equal(t, "a1b2", records[1].ID)
	assert.Equal(t, "S-002", Value(records[1].StudentNumber))
	assert.Nil(t, records[1].YearLevel)
	assert.Equal(t, "x@y.z", Value(records[1].Email))

	assert.Equal(t, "9007199254740993", records[2].ID)
	assert.Nil(t, records[2].StudentNumber)
	assert.Equal(t, "3rd", Value(records[2].YearLevel))
}

func TestStudentRecordUnmarshalRejectsOtherTypes(t *testing.T) {
	var rec StudentRecord
	assert.Error(t, json.Unmarshal([]byte(`{"id":true}`), &rec))
	assert.Error(t, json.Unmarshal([]byte(`{"id":"1","year_level":{"n":2}}`), &rec))
	assert.Error(t, json.Unmarshal([]byte(`{"id":"1","first_name":7}`), &rec))
}

func TestStudentsQuery(t *testing.T) {
	q := StudentsQuery()

	assert.Equal(t, "students", q.Table)
	assert.Equal(t, "created_at", q.OrderBy)
	assert.True(t, q.Descending)
	assert.Equal(t, 50, q.Limit)
	assert.Len(t, q.Columns, 10)
	assert.Equal(t, "id", q.Columns[0])

	q.Columns[0] = "mutated"
	assert.Equal(t, "id", StudentColumns[0])
}

func TestFailureMessage(t *testing.T) {
	assert.Equal(t, "network timeout", FailureMessage(&QueryFailure{Message: "network timeout"}))
	assert.Equal(t, "Unknown error", FailureMessage(&QueryFailure{}))
	assert.Equal(t, "Unknown error", FailureMessage(nil))
	assert.Equal(t, "Unknown error", FailureMessage(errors.New("  ")))
	assert.Equal(t, "boom", FailureMessage(errors.New("boom")))

	wrapped := fmt.Errorf("query students: %w", &QueryFailure{Message: "permission denied"})
	assert.Equal(t, "permission denied", FailureMessage(wrapped))
}

func TestNewQueryFailure(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	qf := NewQueryFailure(cause)
	assert.Equal(t, "dial tcp: connection refused", qf.Error())
	assert.ErrorIs(t, qf, cause)

	same := &QueryFailure{Message: "x"}
	assert.Same(t, same, NewQueryFailure(fmt.Errorf("wrap: %w", same)))
}
