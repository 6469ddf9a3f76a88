package knowledge

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harikaa2703/ArogyaKrishi/internal/shared/server/respond"
	"github.com/harikaa2703/ArogyaKrishi/internal/shared/telemetry"
)

// Handler exposes the crop checklist and offline matcher over HTTP.
type Handler struct {
	Matcher *Matcher
	// DatasetPath overrides the embedded dataset on reload when set.
	DatasetPath string
}

func NewHandler(matcher *Matcher, datasetPath string) *Handler {
	return &Handler{Matcher: matcher, DatasetPath: datasetPath}
}

// RegisterRoutes attaches knowledge routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/crops", h.listCrops)
	rg.GET("/crops/:cropId/symptoms", h.listSymptoms)
	rg.POST("/match", h.match)
	rg.POST("/knowledge/reload", h.reload)
}

type cropView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageRef string `json:"imageRef,omitempty"`
}

func (h *Handler) listCrops(c *gin.Context) {
	lang := c.Query("language")
	kb := h.Matcher.Snapshot()

	crops := kb.Crops()
	out := make([]cropView, 0, len(crops))
	for _, crop := range crops {
		out = append(out, cropView{
			ID:       crop.ID,
			Name:     crop.DisplayName(lang),
			ImageRef: crop.ImageRef,
		})
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"crops":   out,
		"version": kb.Version(),
	})
}

type symptomView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (h *Handler) listSymptoms(c *gin.Context) {
	cropID := c.Param("cropId")
	lang := c.Query("language")

	symptoms, err := h.Matcher.CandidateSymptoms(cropID, lang)
	if err != nil {
		if errors.Is(err, ErrUnknownCrop) {
			respond.Error(c, http.StatusNotFound, "not_found", "unknown crop", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to build checklist", nil)
		return
	}

	out := make([]symptomView, 0, len(symptoms))
	for _, s := range symptoms {
		out = append(out, symptomView{
			ID:          s.ID,
			Name:        s.DisplayName(lang),
			Description: s.DescriptionKey,
		})
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"cropId":   cropID,
		"symptoms": out,
	})
}

type matchRequest struct {
	CropID     string   `json:"cropId"`
	SymptomIDs []string `json:"symptomIds"`
	Language   string   `json:"language"`
}

type matchedDiseaseView struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	RemedyKeys []string `json:"remedyKeys,omitempty"`
}

func (h *Handler) match(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	req.CropID = strings.TrimSpace(req.CropID)
	if req.CropID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "cropId is required", nil)
		return
	}

	result, err := h.Matcher.MatchDisease(req.CropID, req.SymptomIDs)
	if err != nil {
		if errors.Is(err, ErrUnknownCrop) {
			respond.Error(c, http.StatusNotFound, "not_found", "unknown crop", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to match disease", nil)
		return
	}

	if !result.Matched {
		respond.JSON(c, http.StatusOK, gin.H{
			"matched": false,
			"score":   0,
		})
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"matched": true,
		"score":   result.Score,
		"disease": matchedDiseaseView{
			ID:         result.Disease.ID,
			Name:       result.Disease.DisplayName(req.Language),
			RemedyKeys: append([]string(nil), result.Disease.RemedyKeys...),
		},
	})
}

// reload rebuilds the knowledge base from disk (or the embedded default)
// and swaps it in atomically. In-flight requests keep their snapshot.
func (h *Handler) reload(c *gin.Context) {
	var kb *KnowledgeBase
	var err error
	if h.DatasetPath != "" {
		kb, err = Load(h.DatasetPath)
	} else {
		kb, err = Default()
	}
	if err != nil {
		telemetry.Error("knowledge.reload_failed", map[string]any{
			"error":      err.Error(),
			"path":       h.DatasetPath,
			"request_id": c.GetString("requestId"),
		})
		respond.Error(c, http.StatusUnprocessableEntity, "invalid_dataset", "knowledge dataset failed validation", nil)
		return
	}

	h.Matcher.Reload(kb)
	telemetry.Info("knowledge.reloaded", map[string]any{
		"version": kb.Version(),
		"crops":   len(kb.Crops()),
	})
	respond.JSON(c, http.StatusOK, gin.H{
		"reloaded": true,
		"version":  kb.Version(),
	})
}
