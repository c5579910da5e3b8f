package account

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mkovarik/social-api/internal/apperr"
	"github.com/mkovarik/social-api/internal/auth"
	"github.com/mkovarik/social-api/internal/httputil"
	"github.com/mkovarik/social-api/internal/logging"
	"github.com/mkovarik/social-api/internal/ratelimit"
	"github.com/mkovarik/social-api/internal/user"
)

// Handler contains HTTP handlers for account lifecycle endpoints
type Handler struct {
	service     *Service
	rateLimiter *ratelimit.Limiter
	logger      *logging.Logger
}

func NewHandler(service *Service, rateLimiter *ratelimit.Limiter, logger *logging.Logger) *Handler {
	return &Handler{
		service:     service,
		rateLimiter: rateLimiter,
		logger:      logger,
	}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	EmailAddress    string `json:"email_address"`
}

// UpdateRequest represents the profile update request body
type UpdateRequest struct {
	EmailAddress    string `json:"email_address,omitempty"`
	Password        string `json:"password,omitempty"`
	ConfirmPassword string `json:"confirm_password,omitempty"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	EmailAddress string    `json:"email_address"`
	IsVerified   bool      `json:"is_verified"`
}

// RegisterResponse represents the registration response
type RegisterResponse struct {
	User    UserResponse `json:"user"`
	Message string       `json:"message"`
}

// Register handles account registration
// @Summary      Register a new account
// @Description  Create a new account. A verification message is dispatched to the given email address.
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration fields"
// @Success      201 {object} RegisterResponse
// @Failure      400 {object} httputil.ErrorResponse "Validation error or duplicate username/email"
// @Failure      404 {object} httputil.ErrorResponse "Password mismatch"
// @Router       /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ip := getClientIP(r)
	exceeded, err := h.rateLimiter.CheckIPRateLimit(r.Context(), ip, "register")
	if err != nil {
		logger.Error("failed to check IP rate limit", "error", err.Error())
	} else if exceeded {
		logger.Warn("IP rate limit exceeded for register", "ip", ip)
		httputil.RespondError(w, "too many requests, please try again later", http.StatusTooManyRequests)
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid registration request body", "error", err.Error())
		httputil.RespondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"username": req.Username})

	if err := h.rateLimiter.RecordIPRequest(r.Context(), ip, "register"); err != nil {
		logger.Error("failed to record IP request", "error", err.Error())
	}

	session := auth.SessionFromContext(r.Context())

	newUser, message, err := h.service.Register(r.Context(), RegisterInput{
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		EmailAddress:    req.EmailAddress,
	}, session)
	if err != nil {
		logger.Warn("registration failed", "error", apperr.From(err).Name)
		httputil.RespondAppError(w, err)
		return
	}

	logger.Info("user registered successfully", "user_id", newUser.ID)

	httputil.RespondJSON(w, RegisterResponse{
		User:    mapUserToResponse(newUser),
		Message: message,
	}, http.StatusCreated)
}

// VerifyEmail handles email verification
// @Summary      Verify email address
// @Description  Verify an account's email address using the token from the verification message
// @Tags         account
// @Produce      json
// @Param        token query string true "Verification token"
// @Success      200 {object} map[string]string
// @Failure      404 {object} httputil.ErrorResponse "Invalid or expired token"
// @Router       /auth/verify-email [get]
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	token := r.URL.Query().Get("token")
	if token == "" {
		logger.Warn("email verification failed: token missing")
		httputil.RespondAppError(w, apperr.TokenExpired)
		return
	}

	if err := h.service.Verify(r.Context(), token); err != nil {
		logger.Warn("email verification failed", "error", apperr.From(err).Name)
		httputil.RespondAppError(w, err)
		return
	}

	logger.Info("email verified successfully")

	httputil.RespondJSON(w, map[string]string{
		"message": "Email verified successfully. You can now login.",
	}, http.StatusOK)
}

// Me returns the calling account's details
// @Summary      Get own account details
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} user.User
// @Failure      404 {object} httputil.ErrorResponse "Not authenticated"
// @Router       /users/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	session := auth.SessionFromContext(r.Context())

	u, err := h.service.Details(r.Context(), session)
	if err != nil {
		logger.Warn("fetching account details failed", "error", apperr.From(err).Name)
		httputil.RespondAppError(w, err)
		return
	}

	httputil.RespondJSON(w, u, http.StatusOK)
}

// UpdateMe updates the calling account's profile
// @Summary      Update own account
// @Description  Change email address and/or password. Omitted fields are untouched.
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateRequest true "Fields to update"
// @Success      200 {object} user.User
// @Failure      400 {object} httputil.ErrorResponse "Validation error or email taken"
// @Failure      404 {object} httputil.ErrorResponse "Not authenticated or password mismatch"
// @Router       /users/me [patch]
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid update request body", "error", err.Error())
		httputil.RespondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	session := auth.SessionFromContext(r.Context())

	u, err := h.service.Update(r.Context(), UpdateInput{
		EmailAddress:    req.EmailAddress,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}, session)
	if err != nil {
		logger.Warn("profile update failed", "error", apperr.From(err).Name)
		httputil.RespondAppError(w, err)
		return
	}

	logger.Info("profile updated successfully", "user_id", u.ID)

	httputil.RespondJSON(w, u, http.StatusOK)
}

func mapUserToResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		EmailAddress: u.EmailAddress,
		IsVerified:   u.IsVerified,
	}
}

// getClientIP extracts the client IP address from the request
func getClientIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		return strings.TrimSpace(xri)
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
