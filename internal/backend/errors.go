package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// NoRecommendationsDetail is the detail text the backend sends with a 404
// when a journal simply has no recommendations yet.
const NoRecommendationsDetail = "No recommendations found for this journal."

var (
	ErrUnauthorized      = errors.New("backend: unauthorized")
	ErrNoRecommendations = errors.New("backend: no recommendations")
	ErrInvalidIdentity   = errors.New("backend: token response has no identity")
)

// StatusError is any other non-2xx response.
type StatusError struct {
	Operation string
	Status    int
	Message   string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend %s: status %d: %s", e.Operation, e.Status, e.Message)
	}
	return fmt.Sprintf("backend %s: status %d", e.Operation, e.Status)
}

func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Status == http.StatusNotFound
}

// Message returns text suitable for showing to the author.
func Message(err error, fallback string) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Message != "" {
		return statusErr.Message
	}
	return fallback
}
