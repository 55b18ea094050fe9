package models

import (
	"errors"
	"strings"
)

const UnknownErrorMessage = "Unknown error"

// QueryFailure is returned by record sources for any failed read: transport
// errors, error responses from the backend and malformed payloads alike.
// Message may be empty.
type QueryFailure struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
	Err     error  `json:"-"`
}

func (e *QueryFailure) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return UnknownErrorMessage
	}
	return e.Message
}

func (e *QueryFailure) Unwrap() error {
	return e.Err
}

// NewQueryFailure wraps err, taking its text as the message.
func NewQueryFailure(err error) *QueryFailure {
	if err == nil {
		return &QueryFailure{}
	}
	var qf *QueryFailure
	if errors.As(err, &qf) {
		return qf
	}
	return &QueryFailure{Message: err.Error(), Err: err}
}

// FailureMessage is the text shown to the user for a failed query.
func FailureMessage(err error) string {
	if err == nil {
		return UnknownErrorMessage
	}
	var qf *QueryFailure
	if errors.As(err, &qf) {
		return qf.Error()
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return UnknownErrorMessage
}
