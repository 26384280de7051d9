package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dkraev/mycolog/internal/common"
	"github.com/dkraev/mycolog/internal/logging"
	"github.com/dkraev/mycolog/internal/server/services"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UsersHandler serves the unauthenticated account routes.
type UsersHandler struct {
	users  *services.UserService
	logger logging.Logger
}

func NewUsersHandler(users *services.UserService, logger logging.Logger) *UsersHandler {
	return &UsersHandler{users: users, logger: logger.With("component", "users_handler")}
}

// Register handles POST /api/v1/auth/register.
func (h *UsersHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, "username and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.users.Register(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrUserExists) {
			respondError(w, "username is taken", http.StatusConflict)
			return
		}
		h.logger.Error(ctx, "registration failed", "error", err)
		respondError(w, "registration failed", http.StatusInternalServerError)
		return
	}

	h.logger.Info(ctx, "user registered", "user_id", user.ID, "username", user.UserName)
	respondJSON(w, http.StatusCreated, map[string]string{
		"id":       user.ID,
		"username": user.UserName,
	})
}

// Login handles POST /api/v1/auth/login.
func (h *UsersHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	token, err := h.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			respondError(w, "wrong username or password", http.StatusUnauthorized)
			return
		}
		h.logger.Error(ctx, "login failed", "error", err)
		respondError(w, "login failed", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}
