package devices

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harikaa2703/ArogyaKrishi/internal/shared/server/middleware"
	"github.com/harikaa2703/ArogyaKrishi/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the devices service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches device routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register-device", h.registerDevice)
}

type registerRequest struct {
	DeviceToken          string   `json:"deviceToken"`
	Latitude             *float64 `json:"latitude"`
	Longitude            *float64 `json:"longitude"`
	NotificationsEnabled *bool    `json:"notificationsEnabled"`
	Language             string   `json:"language"`
}

func (h *Handler) registerDevice(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	token := strings.TrimSpace(req.DeviceToken)
	if token == "" {
		token = middleware.DeviceTokenFromContext(c)
	}
	if token == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "deviceToken is required", nil)
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "latitude and longitude are required", nil)
		return
	}
	if *req.Latitude < -90 || *req.Latitude > 90 || *req.Longitude < -180 || *req.Longitude > 180 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "latitude or longitude out of range", nil)
		return
	}

	enabled := true
	if req.NotificationsEnabled != nil {
		enabled = *req.NotificationsEnabled
	}

	device, err := h.Svc.Register(c.Request.Context(), RegisterInput{
		DeviceToken:          token,
		Latitude:             *req.Latitude,
		Longitude:            *req.Longitude,
		NotificationsEnabled: enabled,
		Language:             req.Language,
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to register device", nil)
		return
	}
	respond.JSON(c, http.StatusOK, device)
}
