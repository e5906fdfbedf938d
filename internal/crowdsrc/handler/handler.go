package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"crowdsrc/internal/crowdsrc/models"
	"crowdsrc/internal/crowdsrc/ports"
)

const maxBodyBytes = 1 << 20

// Handler exposes user registration over HTTP.
type Handler struct {
	service ports.Service
	logger  *slog.Logger
}

// New constructs a Handler.
func New(service ports.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts the API routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api", h.handleHome)
	r.Post("/api/users", h.handleCreateUser)
}

// CreateUserRequest is the body of POST /api/users.
type CreateUserRequest struct {
	UserName     string `json:"username"`
	EmailAddress string `json:"email_address"`
}

// toDomain validates the raw fields. Username is checked first.
func (r CreateUserRequest) toDomain() (models.CreateUserRequest, error) {
	name, err := models.NewUserName(r.UserName)
	if err != nil {
		return models.CreateUserRequest{}, err
	}
	email, err := models.NewEmailAddress(r.EmailAddress)
	if err != nil {
		return models.CreateUserRequest{}, err
	}
	return models.NewCreateUserRequest(name, email), nil
}

// CreateUserResponse carries only the generated identifier.
type CreateUserResponse struct {
	ID string `json:"id"`
}

type homeResponse struct {
	Message string `json:"message"`
}

func (h *Handler) handleHome(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, homeResponse{Message: "crowdsrc api"})
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body CreateUserRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		h.logger.DebugContext(ctx, "decode create user request", "error", err)
		writeError(w, &APIError{Status: http.StatusBadRequest, Message: "invalid request body", Cause: err})
		return
	}

	req, err := body.toDomain()
	if err != nil {
		writeError(w, ToAPIError(err))
		return
	}

	user, err := h.service.CreateUser(ctx, req)
	if err != nil {
		apiErr := ToAPIError(err)
		h.logFailure(ctx, req, apiErr)
		writeError(w, apiErr)
		return
	}

	writeJSON(w, http.StatusCreated, CreateUserResponse{ID: user.ID().String()})
}

func (h *Handler) logFailure(ctx context.Context, req models.CreateUserRequest, apiErr *APIError) {
	if apiErr.Status < http.StatusInternalServerError {
		return
	}
	h.logger.ErrorContext(ctx, "create user failed",
		"operation", "create_user",
		"username", req.UserName().String(),
		"email", req.Email().String(),
		"error", apiErr.Cause,
	)
}
