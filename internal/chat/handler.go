package chat

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harikaa2703/ArogyaKrishi/internal/shared/server/respond"
)

const maxMessageLength = 2000

// Handler wires HTTP handlers to the chat service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches chat routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/chat/message", h.sendMessage)
}

type messageRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
	Language  string `json:"language"`
}

func (h *Handler) sendMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "message is required", nil)
		return
	}
	if len(req.Message) > maxMessageLength {
		respond.Error(c, http.StatusBadRequest, "validation_error", "message is too long", nil)
		return
	}

	turn, err := h.Svc.SendMessage(c.Request.Context(), req.SessionID, req.Message, req.Language)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate reply", nil)
		return
	}
	respond.JSON(c, http.StatusOK, turn)
}
