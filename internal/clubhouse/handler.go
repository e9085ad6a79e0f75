package clubhouse

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sharath018/golftrip-backend/middleware"
	"github.com/sharath018/golftrip-backend/utils"
)

const (
	SessionHeader     = "X-Clubhouse-Session"
	sessionContextKey = "clubhouse_session"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ErrEventNotFound):
		return http.StatusNotFound, "Event not found"
	case errors.Is(err, ErrClubhouseDisabled):
		return http.StatusForbidden, "Clubhouse is not enabled for this event"
	case errors.Is(err, ErrWrongPassword):
		return http.StatusUnauthorized, "Incorrect password"
	case errors.Is(err, ErrGateToken):
		return http.StatusUnauthorized, "Please enter the clubhouse password first"
	case errors.Is(err, ErrInvalidSession):
		return http.StatusUnauthorized, "Session is invalid or has expired"
	case errors.Is(err, ErrSessionConflict):
		return http.StatusConflict, "Session belongs to another event"
	case errors.Is(err, ErrMigrationRequired):
		return http.StatusServiceUnavailable, "Clubhouse is not available yet: database migration required"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.service.log.Error().Err(err).Str("path", c.FullPath()).Msg("clubhouse request failed")
	}
	utils.RespondError(c, status, msg)
}

// VerifyPassword godoc
// @Summary Check a clubhouse password
// @Tags Clubhouse
// @Accept json
// @Produce json
// @Param body body VerifyPasswordRequest true "Event and password"
// @Success 200 {object} VerifyPasswordResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 429 {object} utils.ErrorResponse
// @Router /api/clubhouse/verify-password [post]
func (h *Handler) VerifyPassword(c *gin.Context) {
	var req VerifyPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	token, err := h.service.VerifyPassword(c.Request.Context(), req, middleware.GetIPFromContext(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, VerifyPasswordResponse{Success: true, GateToken: token})
}

// CreateSession godoc
// @Summary Join the clubhouse under a display name
// @Tags Clubhouse
// @Accept json
// @Produce json
// @Param body body CreateSessionRequest true "Session"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/clubhouse/create-session [post]
func (h *Handler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	sess, err := h.service.CreateSession(c.Request.Context(), req, middleware.GetIPFromContext(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{
		Success: true,
		Session: SessionView{ID: sess.ID, DisplayName: sess.DisplayName, SessionID: sess.SessionID},
	})
}

// VerifySession godoc
// @Summary Re-validate a cached clubhouse session
// @Tags Clubhouse
// @Accept json
// @Produce json
// @Param body body VerifySessionRequest true "Session"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/clubhouse/verify-session [post]
func (h *Handler) VerifySession(c *gin.Context) {
	var req VerifySessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	sess, err := h.service.VerifySession(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{
		Success: true,
		Session: SessionView{ID: sess.ID, DisplayName: sess.DisplayName},
	})
}

// RequireSession verifies the X-Clubhouse-Session header (or ?session= for EventSource)
// against :eventId on every request.
func (h *Handler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if sessionID == "" {
			sessionID = c.Query("session")
		}
		if sessionID == "" {
			utils.RespondError(c, http.StatusUnauthorized, "Clubhouse session required")
			return
		}
		sess, err := h.service.VerifySession(c.Request.Context(), VerifySessionRequest{
			EventID:   c.Param("eventId"),
			SessionID: sessionID,
		})
		if err != nil {
			h.fail(c, err)
			return
		}
		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

func sessionFromContext(c *gin.Context) *Session {
	v, _ := c.Get(sessionContextKey)
	s, _ := v.(*Session)
	return s
}

// ListMessages godoc
// @Summary Clubhouse board
// @Tags Clubhouse
// @Produce json
// @Param eventId path string true "Event ID"
// @Param X-Clubhouse-Session header string true "Session ID"
// @Param limit query int false "Max messages (default 50)"
// @Success 200 {array} Message
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/clubhouse/events/{eventId}/messages [get]
func (h *Handler) ListMessages(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	msgs, err := h.service.ListMessages(c.Request.Context(), c.Param("eventId"), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// PostMessage godoc
// @Summary Post to the clubhouse board
// @Tags Clubhouse
// @Accept json
// @Produce json
// @Param eventId path string true "Event ID"
// @Param X-Clubhouse-Session header string true "Session ID"
// @Param body body PostMessageRequest true "Message"
// @Success 201 {object} Message
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/clubhouse/events/{eventId}/messages [post]
func (h *Handler) PostMessage(c *gin.Context) {
	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	msg, err := h.service.PostMessage(c.Request.Context(), sessionFromContext(c), req.Body)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// Stream godoc
// @Summary Live clubhouse messages (SSE)
// @Tags Clubhouse
// @Produce text/event-stream
// @Param eventId path string true "Event ID"
// @Param session query string true "Session ID"
// @Router /api/clubhouse/events/{eventId}/stream [get]
func (h *Handler) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	feed, stop, err := h.service.Subscribe(ctx, c.Param("eventId"))
	if err != nil {
		h.service.log.Error().Err(err).Msg("clubhouse subscribe failed")
		utils.RespondError(c, http.StatusServiceUnavailable, "Live updates are unavailable")
		return
	}
	defer stop()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.Status(http.StatusInternalServerError)
		return
	}
	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	flusher.Flush()

	heartbeat := time.NewTicker(25 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case payload, ok := <-feed:
			if !ok {
				return
			}
			_, _ = c.Writer.Write([]byte("event: message\n"))
			_, _ = c.Writer.Write([]byte("data: " + string(payload) + "\n\n"))
			flusher.Flush()
		case <-heartbeat.C:
			_, _ = c.Writer.Write([]byte(":ping\n\n"))
			flusher.Flush()
		case <-ctx.Done():
			return
		}
	}
}
