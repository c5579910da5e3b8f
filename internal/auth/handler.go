package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mkovarik/social-api/internal/apperr"
	"github.com/mkovarik/social-api/internal/httputil"
	"github.com/mkovarik/social-api/internal/logging"
	"github.com/mkovarik/social-api/internal/ratelimit"
)

// Handler contains HTTP handlers for session endpoints
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

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest represents the token refresh request body
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// MessageResponse represents a plain confirmation response
type MessageResponse struct {
	Message string `json:"message"`
}

// Login handles user login
// @Summary      User login
// @Description  Authenticate by username and password and receive an access/refresh token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} TokenPair
// @Failure      400 {object} httputil.ErrorResponse "User not found"
// @Failure      403 {object} httputil.ErrorResponse "Email not verified"
// @Failure      404 {object} httputil.ErrorResponse "Password mismatch"
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ip := getClientIP(r)
	exceeded, err := h.rateLimiter.CheckIPRateLimit(r.Context(), ip, "login")
	if err != nil {
		logger.Error("failed to check IP rate limit", "error", err.Error())
	} else if exceeded {
		logger.Warn("IP rate limit exceeded for login", "ip", ip)
		httputil.RespondError(w, "too many requests, please try again later", http.StatusTooManyRequests)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		httputil.RespondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"username": req.Username})

	if err := h.rateLimiter.RecordIPRequest(r.Context(), ip, "login"); err != nil {
		logger.Error("failed to record IP request", "error", err.Error())
	}

	session := SessionFromContext(r.Context())

	tokens, err := h.service.Login(r.Context(), req.Username, req.Password, session)
	if err != nil {
		logger.Warn("login failed", "error", apperr.From(err).Name)
		httputil.RespondAppError(w, err)
		return
	}

	logger.Info("user logged in successfully")

	httputil.RespondJSON(w, tokens, http.StatusOK)
}

// Refresh handles refresh-token rotation
// @Summary      Refresh session tokens
// @Description  Exchange a valid refresh token for a new access/refresh token pair. Each refresh token is single-use.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshRequest true "Refresh token"
// @Success      200 {object} TokenPair
// @Failure      404 {object} httputil.ErrorResponse "Invalid or expired refresh token"
// @Router       /auth/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid refresh request body", "error", err.Error())
		httputil.RespondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	refreshToken := strings.TrimSpace(req.RefreshToken)
	if refreshToken == "" {
		logger.Warn("refresh token missing from request")
		httputil.RespondAppError(w, apperr.TokenExpired)
		return
	}

	tokens, err := h.service.Refresh(r.Context(), refreshToken)
	if err != nil {
		logger.Warn("token refresh failed", "error", apperr.From(err).Name)
		httputil.RespondAppError(w, err)
		return
	}

	logger.Info("session tokens rotated successfully")

	httputil.RespondJSON(w, tokens, http.StatusOK)
}

// Logout handles user logout
// @Summary      User logout
// @Description  End the current session by clearing the stored refresh token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} MessageResponse
// @Failure      404 {object} httputil.ErrorResponse "Not logged in"
// @Router       /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	session := SessionFromContext(r.Context())

	confirmation, err := h.service.Logout(r.Context(), session)
	if err != nil {
		logger.Warn("logout failed", "error", apperr.From(err).Name)
		httputil.RespondAppError(w, err)
		return
	}

	logger.Info("user logged out successfully")

	httputil.RespondJSON(w, MessageResponse{Message: confirmation}, http.StatusOK)
}

// getClientIP extracts the client IP address from the request
func getClientIP(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs, take the first one
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

	// RemoteAddr format is "IP:port", extract just the IP
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
