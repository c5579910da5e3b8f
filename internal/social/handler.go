package social

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkovarik/social-api/internal/apperr"
	"github.com/mkovarik/social-api/internal/auth"
	"github.com/mkovarik/social-api/internal/httputil"
	"github.com/mkovarik/social-api/internal/logging"
)

// Handler contains HTTP handlers for follow graph endpoints
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// MessageResponse represents a plain confirmation response
type MessageResponse struct {
	Message string `json:"message"`
}

// Follow handles following a user
// @Summary      Follow a user
// @Description  Follow the user with the given username. Following an already followed user succeeds silently.
// @Tags         social
// @Produce      json
// @Security     BearerAuth
// @Param        username path string true "Username to follow"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "User not found or self-follow"
// @Failure      404 {object} httputil.ErrorResponse "Not authenticated"
// @Router       /users/{username}/follow [post]
func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	targetUsername := chi.URLParam(r, "username")
	logger = logger.WithFields(map[string]any{"target": targetUsername})

	session := auth.SessionFromContext(r.Context())

	if err := h.service.Follow(r.Context(), targetUsername, session); err != nil {
		logger.Warn("follow failed", "error", apperr.From(err).Name)
		httputil.RespondAppError(w, err)
		return
	}

	logger.Info("user followed successfully")

	httputil.RespondJSON(w, MessageResponse{Message: "User followed successfully !"}, http.StatusOK)
}

// Unfollow handles unfollowing a user
// @Summary      Unfollow a user
// @Description  Stop following the user with the given username. Unfollowing a user that was never followed succeeds silently.
// @Tags         social
// @Produce      json
// @Security     BearerAuth
// @Param        username path string true "Username to unfollow"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "User not found"
// @Failure      404 {object} httputil.ErrorResponse "Not authenticated"
// @Router       /users/{username}/follow [delete]
func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	targetUsername := chi.URLParam(r, "username")
	logger = logger.WithFields(map[string]any{"target": targetUsername})

	session := auth.SessionFromContext(r.Context())

	if err := h.service.Unfollow(r.Context(), targetUsername, session); err != nil {
		logger.Warn("unfollow failed", "error", apperr.From(err).Name)
		httputil.RespondAppError(w, err)
		return
	}

	logger.Info("user unfollowed successfully")

	httputil.RespondJSON(w, MessageResponse{Message: "User unfollowed successfully !"}, http.StatusOK)
}

// Followers lists the caller's followers
// @Summary      List followers
// @Tags         social
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} user.Projection
// @Failure      404 {object} httputil.ErrorResponse "Not authenticated"
// @Router       /users/me/followers [get]
func (h *Handler) Followers(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	session := auth.SessionFromContext(r.Context())

	projections, err := h.service.Followers(r.Context(), session)
	if err != nil {
		logger.Warn("listing followers failed", "error", apperr.From(err).Name)
		httputil.RespondAppError(w, err)
		return
	}

	httputil.RespondJSON(w, projections, http.StatusOK)
}

// Following lists the accounts the caller follows
// @Summary      List followed users
// @Tags         social
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} user.Projection
// @Failure      404 {object} httputil.ErrorResponse "Not authenticated"
// @Router       /users/me/following [get]
func (h *Handler) Following(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	session := auth.SessionFromContext(r.Context())

	projections, err := h.service.Following(r.Context(), session)
	if err != nil {
		logger.Warn("listing following failed", "error", apperr.From(err).Name)
		httputil.RespondAppError(w, err)
		return
	}

	httputil.RespondJSON(w, projections, http.StatusOK)
}
