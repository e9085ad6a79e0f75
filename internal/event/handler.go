package event

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sharath018/golftrip-backend/middleware"
	"github.com/sharath018/golftrip-backend/utils"
)

const managedEventKey = "managed_event"

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

// respondError maps service errors to statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSaveInProgress):
		utils.RespondError(c, http.StatusConflict, "Save already in progress")
	case errors.Is(err, ErrInvalidInput):
		utils.RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, "Event not found")
	case errors.Is(err, ErrPlayerNotFound):
		utils.RespondError(c, http.StatusNotFound, "Player not found")
	case errors.Is(err, ErrForbidden):
		utils.RespondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrDuplicatePlayer):
		utils.RespondError(c, http.StatusConflict, err.Error())
	default:
		utils.RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

func mustIdentity(c *gin.Context) (*middleware.Identity, bool) {
	id, ok := middleware.IdentityFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}
	return id, true
}

// RequireManager lets the request through only when the caller manages the :id event.
// The loaded event is available to later handlers through ManagedEvent.
func (h *Handler) RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := mustIdentity(c)
		if !ok {
			return
		}
		ev, err := h.Service.loadManaged(c.Request.Context(), c.Param("id"), caller)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Set(managedEventKey, ev)
		c.Next()
	}
}

// ManagedEvent returns the event loaded by RequireManager.
func ManagedEvent(c *gin.Context) (*Event, bool) {
	v, ok := c.Get(managedEventKey)
	if !ok {
		return nil, false
	}
	ev, ok := v.(*Event)
	return ev, ok
}

// CreateEvent godoc
// @Summary Create a golf trip
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEventRequest true "Event"
// @Success 201 {object} Event
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/events [post]
func (h *Handler) CreateEvent(c *gin.Context) {
	caller, ok := mustIdentity(c)
	if !ok {
		return
	}
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "invalid input: "+err.Error())
		return
	}

	ev, err := h.Service.CreateEvent(c.Request.Context(), caller, req, middleware.GetIPFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

// ListMyEvents godoc
// @Summary Events the caller created or joined
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Success 200 {array} Event
// @Router /api/events [get]
func (h *Handler) ListMyEvents(c *gin.Context) {
	caller, ok := mustIdentity(c)
	if !ok {
		return
	}
	events, err := h.Service.ListMyEvents(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get an event
// @Description Published public events are visible to anyone; others only to members.
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} Event
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/events/{id} [get]
func (h *Handler) GetEvent(c *gin.Context) {
	caller, _ := middleware.IdentityFromContext(c)
	ev, err := h.Service.GetEvent(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// SaveTrip godoc
// @Summary Save trip details
// @Description Partial update. A second save from the same user while one is running returns 409.
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param body body SaveTripRequest true "Changes"
// @Success 200 {object} Event
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/events/{id} [put]
func (h *Handler) SaveTrip(c *gin.Context) {
	caller, ok := mustIdentity(c)
	if !ok {
		return
	}
	var req SaveTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "invalid input: "+err.Error())
		return
	}

	ev, err := h.Service.SaveTrip(c.Request.Context(), c.Param("id"), caller, req, middleware.GetIPFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// SetClubhousePassword godoc
// @Summary Set or clear the clubhouse password
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param body body ClubhousePasswordRequest true "Password, empty to disable"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/events/{id}/clubhouse-password [put]
func (h *Handler) SetClubhousePassword(c *gin.Context) {
	caller, ok := mustIdentity(c)
	if !ok {
		return
	}
	var req ClubhousePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "invalid input: "+err.Error())
		return
	}
	err := h.Service.SetClubhousePassword(c.Request.Context(), c.Param("id"), caller, req, middleware.GetIPFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "clubhouse_enabled": req.Password != ""})
}

// ListPlayers godoc
// @Summary Event roster
// @Tags Players
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {array} Player
// @Router /api/events/{id}/players [get]
func (h *Handler) ListPlayers(c *gin.Context) {
	caller, ok := mustIdentity(c)
	if !ok {
		return
	}
	players, err := h.Service.ListPlayers(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, players)
}

// AddPlayer godoc
// @Summary Add a player to the roster
// @Tags Players
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param body body AddPlayerRequest true "Player"
// @Success 201 {object} Player
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/events/{id}/players [post]
func (h *Handler) AddPlayer(c *gin.Context) {
	caller, ok := mustIdentity(c)
	if !ok {
		return
	}
	var req AddPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "invalid input: "+err.Error())
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	p, err := h.Service.AddPlayer(c.Request.Context(), c.Param("id"), caller, req, middleware.GetIPFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// RemovePlayer godoc
// @Summary Remove a player
// @Tags Players
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param playerId path string true "Player ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/events/{id}/players/{playerId} [delete]
func (h *Handler) RemovePlayer(c *gin.Context) {
	caller, ok := mustIdentity(c)
	if !ok {
		return
	}
	err := h.Service.RemovePlayer(c.Request.Context(), c.Param("id"), c.Param("playerId"), caller, middleware.GetIPFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
