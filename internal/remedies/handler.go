package remedies

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harikaa2703/ArogyaKrishi/internal/shared/server/respond"
	"github.com/harikaa2703/ArogyaKrishi/internal/shared/telemetry"
)

// fallbackStoreURLs are shown when no physical store is found nearby.
var fallbackStoreURLs = []string{
	"https://www.bighaat.com/",
	"https://agribegri.com/",
	"https://www.amazon.in/s?k=plant+fungicide",
}

// Handler wires HTTP handlers to the remedies service.
type Handler struct {
	Svc    *Service
	Finder *StoreFinder
}

func NewHandler(svc *Service, finder *StoreFinder) *Handler {
	return &Handler{Svc: svc, Finder: finder}
}

// RegisterRoutes attaches treatment routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/scan-treatment", h.scanTreatment)
	rg.GET("/suggested-treatments", h.suggestedTreatments)
	rg.GET("/remedies", h.remediesList)
}

func (h *Handler) remediesList(c *gin.Context) {
	disease := strings.TrimSpace(c.Query("disease"))
	if disease == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "disease is required", nil)
		return
	}
	lang := ValidateLanguage(c.Query("language"))
	diseaseID := h.Svc.NormalizeDiseaseName(disease)
	if diseaseID == "" {
		diseaseID = disease
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"disease":  h.Svc.TranslatedDisease(diseaseID, lang),
		"language": lang,
		"remedies": h.Svc.RemediesList(diseaseID, lang),
	})
}

type scanTreatmentRequest struct {
	Disease   string `json:"disease"`
	ItemLabel string `json:"itemLabel"`
	Language  string `json:"language"`
}

func (h *Handler) scanTreatment(c *gin.Context) {
	var req scanTreatmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	req.Disease = strings.TrimSpace(req.Disease)
	req.ItemLabel = strings.TrimSpace(req.ItemLabel)
	if req.Disease == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "disease is required", nil)
		return
	}
	if req.ItemLabel == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "itemLabel is required", nil)
		return
	}

	verdict := h.Svc.EvaluateTreatment(req.Disease, req.ItemLabel, req.Language)
	respond.JSON(c, http.StatusOK, verdict)
}

func (h *Handler) suggestedTreatments(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "lat and lng are required", nil)
		return
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "lat or lng out of range", nil)
		return
	}

	stores, err := h.Finder.Nearby(c.Request.Context(), lat, lng)
	if err != nil {
		telemetry.Warn("remedies.store_lookup_failed", map[string]any{
			"error":      err.Error(),
			"request_id": c.GetString("requestId"),
		})
	}
	if stores == nil {
		stores = []Store{}
	}

	payload := gin.H{
		"stores":       stores,
		"fallbackUrls": fallbackStoreURLs,
	}
	if disease := strings.TrimSpace(c.Query("disease")); disease != "" {
		lang := ValidateLanguage(c.Query("language"))
		diseaseID := h.Svc.NormalizeDiseaseName(disease)
		if diseaseID == "" {
			diseaseID = disease
		}
		payload["remedies"] = h.Svc.RemediesList(diseaseID, lang)
	}
	respond.JSON(c, http.StatusOK, payload)
}
