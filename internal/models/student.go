package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StudentRecord is one row of the students collection. Only ID is guaranteed;
// every other column may be null or missing in the backend.
type StudentRecord struct {
	ID            string  `json:"id" db:"id"`
	StudentNumber *string `json:"student_number" db:"student_number"`
	FirstName     *string `json:"first_name" db:"first_name"`
	MiddleName    *string `json:"middle_name" db:"middle_name"`
	LastName      *string `json:"last_name" db:"last_name"`
	Email         *string `json:"email" db:"email"`
	Department    *string `json:"department" db:"department"`
	Program       *string `json:"program" db:"program"`
	YearLevel     *string `json:"year_level" db:"year_level"`
	CreatedAt     *string `json:"created_at" db:"created_at"`
}

// UnmarshalJSON accepts id, student_number and year_level as either JSON
// strings or JSON numbers; backends often type them as integers.
func (s *StudentRecord) UnmarshalJSON(data []byte) error {
	type plain StudentRecord
	var raw struct {
		plain
		ID            scalarText  `json:"id"`
		StudentNumber *scalarText `json:"student_number"`
		YearLevel     *scalarText `json:"year_level"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = StudentRecord(raw.plain)
	s.ID = string(raw.ID)
	s.StudentNumber = raw.StudentNumber.ptr()
	s.YearLevel = raw.YearLevel.ptr()
	return nil
}

// scalarText holds a JSON string or number as text. Numbers keep their
// literal spelling.
type scalarText string

func (t *scalarText) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = scalarText(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*t = scalarText(n)
	return nil
}

func (t *scalarText) ptr() *string {
	if t == nil {
		return nil
	}
	s := string(*t)
	return &s
}

// FullName joins first, middle and last name with single spaces, skipping
// parts that are nil or empty.
func (s StudentRecord) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []*string{s.FirstName, s.MiddleName, s.LastName} {
		if v := Value(p); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

// Value dereferences an optional column, treating nil as "".
func Value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Ptr is a helper for building records in tests and fixtures.
func Ptr(s string) *string {
	return &s
}
