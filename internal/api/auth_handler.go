package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/phrazzld/shopping-list-api/internal/api/shared"
	"github.com/phrazzld/shopping-list-api/internal/platform/logger"
	"github.com/phrazzld/shopping-list-api/internal/service"
	"github.com/phrazzld/shopping-list-api/internal/service/auth"
)

// AuthHandler handles account creation, login and token refresh.
type AuthHandler struct {
	users  service.UserService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(users service.UserService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		users:  users,
		logger: logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /create/.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tokens, err := h.users.Register(r.Context(), service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("account created")
	respondWithTokens(w, r, http.StatusCreated, tokens)
}

// Login handles POST /login/.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tokens, err := h.users.Login(r.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	respondWithTokens(w, r, http.StatusOK, tokens)
}

// RefreshToken handles POST /token/refresh/.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tokens, err := h.users.Refresh(r.Context(), req.Refresh)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	respondWithTokens(w, r, http.StatusOK, tokens)
}

func respondWithTokens(w http.ResponseWriter, r *http.Request, status int, tokens *auth.TokenPair) {
	shared.RespondWithJSON(w, r, status, TokenResponse{
		Code:   strconv.Itoa(status),
		Tokens: tokens,
	})
}
