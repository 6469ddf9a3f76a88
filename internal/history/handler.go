package history

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/harikaa2703/ArogyaKrishi/internal/shared/server/middleware"
	"github.com/harikaa2703/ArogyaKrishi/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the history service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches history routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/history", h.list)
	rg.GET("/history/diseases", h.diseases)
	rg.DELETE("/history/:id", h.delete)
	rg.DELETE("/history", h.clear)
}

func requireDeviceToken(c *gin.Context) (string, bool) {
	token := middleware.DeviceTokenFromContext(c)
	if token == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "X-Device-Token header is required", nil)
		return "", false
	}
	return token, true
}

func (h *Handler) list(c *gin.Context) {
	token, ok := requireDeviceToken(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	page, err := h.Svc.List(c.Request.Context(), token, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch history", nil)
		return
	}
	respond.JSON(c, http.StatusOK, page)
}

func (h *Handler) diseases(c *gin.Context) {
	token, ok := requireDeviceToken(c)
	if !ok {
		return
	}
	diseases, err := h.Svc.Diseases(c.Request.Context(), token)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch diseases", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"diseases": diseases})
}

func (h *Handler) delete(c *gin.Context) {
	token, ok := requireDeviceToken(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if id == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "search id is required", nil)
		return
	}

	err := h.Svc.Delete(c.Request.Context(), token, id)
	switch {
	case err == nil:
		respond.JSON(c, http.StatusOK, gin.H{"deleted": true})
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "search not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete search", nil)
	}
}

func (h *Handler) clear(c *gin.Context) {
	token, ok := requireDeviceToken(c)
	if !ok {
		return
	}
	count, err := h.Svc.Clear(c.Request.Context(), token)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to clear history", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"deleted": count})
}
