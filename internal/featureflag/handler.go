package featureflag

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sharath018/golftrip-backend/utils"
)

type Handler struct {
	client *Client
}

func NewHandler(c *Client) *Handler {
	return &Handler{client: c}
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, "Feature not found")
	case errors.Is(err, ErrNotConfigured):
		utils.RespondError(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, ErrUnrecognizedShape), errors.Is(err, ErrUpstream):
		utils.RespondError(c, http.StatusBadGateway, "Feature flags are unavailable")
	default:
		utils.RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// List godoc
// @Summary List feature flags
// @Tags Feature Flags
// @Produce json
// @Success 200 {array} Feature
// @Failure 502 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/feature-flags [get]
func (h *Handler) List(c *gin.Context) {
	features, err := h.client.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, features)
}

// Get godoc
// @Summary Get one feature flag
// @Tags Feature Flags
// @Produce json
// @Param key path string true "Feature key"
// @Success 200 {object} Feature
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/feature-flags/{key} [get]
func (h *Handler) Get(c *gin.Context) {
	f, err := h.client.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": f.Key, "enabled": f.Enabled(), "feature": f})
}
