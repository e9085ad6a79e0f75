package invitation

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sharath018/golftrip-backend/middleware"
	"github.com/sharath018/golftrip-backend/utils"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ErrEventNotFound):
		return http.StatusNotFound, "Event not found"
	case errors.Is(err, ErrInvitationNotFound):
		return http.StatusNotFound, "Invitation not found"
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized, "Authentication required"
	case errors.Is(err, ErrEmailMismatch):
		return http.StatusForbidden, "This invitation was sent to a different email address"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, ErrTransitionFailed):
		return http.StatusConflict, "Invitation could not be accepted, please retry"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		h.service.log.Error().Err(err).Str("path", c.FullPath()).Msg("invitation request failed")
	}
	utils.RespondError(c, status, msg)
}

func callerFrom(c *gin.Context) *middleware.Identity {
	id, ok := middleware.IdentityFromContext(c)
	if !ok {
		return nil
	}
	return id
}

// Get godoc
// @Summary Invitation landing data
// @Tags Invitations
// @Produce json
// @Param eventId path string true "Event ID"
// @Param email query string true "Invited email"
// @Success 200 {object} View
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/invitations/{eventId} [get]
func (h *Handler) Get(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), c.Param("eventId"), c.Query("email"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Accept godoc
// @Summary Accept an invitation
// @Description Without a bearer token the response is 401 with a returnTo path to resume after sign-in.
// @Tags Invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AcceptRequest true "Invitation"
// @Success 200 {object} AcceptResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} UnauthenticatedResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/invitations/accept [post]
func (h *Handler) Accept(c *gin.Context) {
	var req AcceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.EventID = strings.TrimSpace(req.EventID)

	already, err := h.service.Accept(c.Request.Context(), req.EventID, req.Email, callerFrom(c), middleware.GetIPFromContext(c))
	if errors.Is(err, ErrUnauthenticated) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, UnauthenticatedResponse{
			Success:  false,
			Error:    "Please sign in to accept this invitation",
			ReturnTo: InvitationPath(req.EventID, req.Email),
		})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, AcceptResponse{Success: true, AlreadyAccepted: already, EventID: req.EventID})
}

// AcceptRPC godoc
// @Summary Accept the caller's invitation (RPC style)
// @Description Once authenticated, outcomes are reported in the body with HTTP 200.
// @Tags Invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RPCAcceptRequest true "Event"
// @Success 200 {object} RPCResult
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/rpc/accept_event_invitation [post]
func (h *Handler) AcceptRPC(c *gin.Context) {
	var req RPCAcceptRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.EventID) == "" {
		utils.RespondError(c, http.StatusBadRequest, "p_event_id is required")
		return
	}
	caller := callerFrom(c)
	if caller == nil {
		utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	_, err := h.service.AcceptForCaller(c.Request.Context(), strings.TrimSpace(req.EventID), caller, middleware.GetIPFromContext(c))
	if err != nil {
		_, msg := statusFor(err)
		if errors.Is(err, ErrInvitationNotFound) {
			msg = "No invitation found for your email address"
		}
		c.JSON(http.StatusOK, RPCResult{Success: false, Error: msg})
		return
	}
	c.JSON(http.StatusOK, RPCResult{Success: true})
}

// Send godoc
// @Summary Email all pending invitations for an event
// @Tags Invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SendRequest true "Event"
// @Success 200 {object} SendResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/invitations/send [post]
func (h *Handler) Send(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	resp, err := h.service.Send(c.Request.Context(), strings.TrimSpace(req.EventID), callerFrom(c), middleware.GetIPFromContext(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
