package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"crowdsrc/internal/crowdsrc/models"
)

const internalErrorMessage = "Internal server error"

// responseBody is the envelope shared by every API response.
type responseBody[T any] struct {
	StatusCode int `json:"status_code"`
	Data       T   `json:"data"`
}

type errorData struct {
	Message string `json:"message"`
}

// APIError is a client-facing failure. Cause is kept for logging only and
// never written to the response.
type APIError struct {
	Status  int
	Message string
	Cause   error
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() error { return e.Cause }

func unprocessable(message string) *APIError {
	return &APIError{Status: http.StatusUnprocessableEntity, Message: message}
}

// ToAPIError maps request parsing failures and CreateUserError variants to
// the response sent to the caller.
func ToAPIError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var wsErr *models.UserNameWhitespaceError
	var emailErr *models.EmailAddressError
	switch {
	case errors.Is(err, models.ErrUserNameEmpty):
		return unprocessable("username can't be empty")
	case errors.As(err, &wsErr):
		return unprocessable(fmt.Sprintf("username '%s' is not valid", wsErr.InvalidUserName))
	case errors.As(err, &emailErr):
		return unprocessable(fmt.Sprintf("email address %s is invalid", emailErr.InvalidEmail))
	}

	switch e := models.AsCreateUserError(err).(type) {
	case *models.DuplicateUserNameError:
		return unprocessable(fmt.Sprintf("user with username %s already exists", e.UserName))
	case *models.DuplicateEmailError:
		return unprocessable(fmt.Sprintf("user with email '%s' already exists", e.Email))
	default:
		return &APIError{Status: http.StatusInternalServerError, Message: internalErrorMessage, Cause: err}
	}
}

func writeJSON[T any](w http.ResponseWriter, status int, data T) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(responseBody[T]{StatusCode: status, Data: data})
}

func writeError(w http.ResponseWriter, apiErr *APIError) {
	writeJSON(w, apiErr.Status, errorData{Message: apiErr.Message})
}
