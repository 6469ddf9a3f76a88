package detections

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harikaa2703/ArogyaKrishi/internal/shared/server/middleware"
	"github.com/harikaa2703/ArogyaKrishi/internal/shared/server/respond"
	"github.com/harikaa2703/ArogyaKrishi/internal/shared/util"
)

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
}

// Handler wires HTTP handlers to the detections service.
type Handler struct {
	Svc           *Service
	MaxImageBytes int64
}

// NewHandler constructs a Handler. maxImageMB bounds upload size.
func NewHandler(svc *Service, maxImageMB int) *Handler {
	if maxImageMB <= 0 {
		maxImageMB = 10
	}
	return &Handler{Svc: svc, MaxImageBytes: int64(maxImageMB) << 20}
}

// RegisterRoutes attaches detection routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/detect-image", h.detectImage)
	rg.GET("/nearby-alerts", h.nearbyAlerts)
}

func (h *Handler) detectImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxImageBytes)

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "image file is required", nil)
		return
	}
	defer file.Close()

	contentType := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
	if _, ok := allowedImageTypes[contentType]; !ok {
		respond.Error(c, http.StatusBadRequest, "validation_error", "only jpeg and png images are accepted", nil)
		return
	}

	fileName, err := util.SanitizeFileName(header.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		return
	}

	image, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "image exceeds the size limit", nil)
		return
	}
	if len(image) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "image file is empty", nil)
		return
	}

	lat, lng, err := optionalCoords(c.PostForm("latitude"), c.PostForm("longitude"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	result, err := h.Svc.Detect(c.Request.Context(), DetectInput{
		DeviceToken: middleware.DeviceTokenFromContext(c),
		FileName:    fileName,
		Image:       image,
		Latitude:    lat,
		Longitude:   lng,
		Language:    c.PostForm("language"),
		RequestID:   c.GetString("requestId"),
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to analyze image", nil)
		return
	}
	respond.JSON(c, http.StatusOK, result)
}

func (h *Handler) nearbyAlerts(c *gin.Context) {
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

	var radiusKm float64
	if raw := c.Query("radiusKm"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 || parsed > 100 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "radiusKm must be between 0 and 100", nil)
			return
		}
		radiusKm = parsed
	}

	alerts, err := h.Svc.NearbyAlerts(c.Request.Context(), lat, lng, radiusKm, c.Query("language"))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch nearby alerts", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// optionalCoords parses latitude and longitude form values. Both must be
// present, or both absent.
func optionalCoords(rawLat, rawLng string) (*float64, *float64, error) {
	rawLat, rawLng = strings.TrimSpace(rawLat), strings.TrimSpace(rawLng)
	if rawLat == "" && rawLng == "" {
		return nil, nil, nil
	}
	if rawLat == "" || rawLng == "" {
		return nil, nil, errBadCoords
	}
	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil || lat < -90 || lat > 90 {
		return nil, nil, errBadCoords
	}
	lng, err := strconv.ParseFloat(rawLng, 64)
	if err != nil || lng < -180 || lng > 180 {
		return nil, nil, errBadCoords
	}
	return &lat, &lng, nil
}

var errBadCoords = errCoords{}

type errCoords struct{}

func (errCoords) Error() string { return "latitude and longitude must be provided together and in range" }
