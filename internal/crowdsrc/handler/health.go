package handler

import (
	"context"
	"net/http"
)

// HealthChecker reports whether a dependency is usable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

type healthResponse struct {
	Status string `json:"status"`
}

// Health returns a handler answering 200 while every checker succeeds and
// 503 otherwise.
func Health(checkers ...HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, c := range checkers {
			if err := c.Health(r.Context()); err != nil {
				writeError(w, &APIError{Status: http.StatusServiceUnavailable, Message: "unavailable", Cause: err})
				return
			}
		}
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
	}
}
