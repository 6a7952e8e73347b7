package sources

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrSourceUnavailable matches every *UnavailableError via errors.Is.
var ErrSourceUnavailable = errors.New("source unavailable")

// UnavailableError reports a transport, status or decode failure of one
// external catalog.
type UnavailableError struct {
	Source     string
	StatusCode int
	Message    string
	Err        error
}

func (e *UnavailableError) Error() string {
	msg := fmt.Sprintf("%s unavailable", e.Source)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Is(target error) bool { return target == ErrSourceUnavailable }

func unavailable(source, message string, err error) *UnavailableError {
	return &UnavailableError{Source: source, Message: message, Err: err}
}

// IsNotFound reports whether err is a 404 answer from a source.
func IsNotFound(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue) && ue.StatusCode == http.StatusNotFound
}
