package detections

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/harikaa2703/ArogyaKrishi/internal/classifier"
	"github.com/harikaa2703/ArogyaKrishi/internal/queue"
	"github.com/harikaa2703/ArogyaKrishi/internal/remedies"
	"github.com/harikaa2703/ArogyaKrishi/internal/shared/geo"
	"github.com/harikaa2703/ArogyaKrishi/internal/shared/metrics"
	"github.com/harikaa2703/ArogyaKrishi/internal/shared/storage/object"
	"github.com/harikaa2703/ArogyaKrishi/internal/shared/telemetry"
)

// nearbyWindow bounds how far back nearby-alert queries look.
const nearbyWindow = 7 * 24 * time.Hour

// Alerter notifies registered devices near a detection. Used when no queue
// is configured; otherwise the worker does the fan-out.
type Alerter interface {
	AlertNearby(ctx context.Context, eventID, disease string, lat, lng float64) (int, error)
}

// SearchRecorder appends a diagnosis to the device's search history.
type SearchRecorder interface {
	RecordSearch(ctx context.Context, crop, disease string, confidence float64, language, deviceToken string, lat, lng *float64) error
}

// Service runs the detection pipeline: classify, persist, archive, fan out.
type Service struct {
	Classifier classifier.Classifier
	Repo       Repo
	Store      object.ObjectStore
	Queue      queue.Client
	Alerter    Alerter
	Remedies   *remedies.Service
	Searches   SearchRecorder

	ConfidenceThreshold float64
	AlertRadiusKm       float64
}

// DetectInput carries one uploaded image through the pipeline.
type DetectInput struct {
	DeviceToken string
	FileName    string
	Image       []byte
	Latitude    *float64
	Longitude   *float64
	Language    string
	RequestID   string
}

// DetectResult is the diagnosis returned to the uploader.
type DetectResult struct {
	EventID    string   `json:"eventId,omitempty"`
	Crop       string   `json:"crop"`
	Disease    string   `json:"disease"`
	Confidence float64  `json:"confidence"`
	Language   string   `json:"language"`
	Remedies   []string `json:"remedies"`
	Saved      bool     `json:"saved"`
}

// Detect classifies the image and, when confidence clears the threshold,
// persists the event, archives the image, and triggers the alert fan-out.
func (s *Service) Detect(ctx context.Context, in DetectInput) (DetectResult, error) {
	start := time.Now()
	metrics.IncDetectionStarted()
	defer func() {
		metrics.ObserveDetectionDurationMs(float64(time.Since(start).Milliseconds()))
	}()

	pred, err := s.Classifier.Classify(ctx, in.Image)
	if err != nil {
		metrics.IncDetectionFailed()
		return DetectResult{}, fmt.Errorf("classify: %w", err)
	}

	lang := remedies.ValidateLanguage(in.Language)
	result := DetectResult{
		Crop:       s.Remedies.TranslatedCrop(pred.Crop, lang),
		Disease:    s.Remedies.TranslatedDisease(pred.Disease, lang),
		Confidence: roundConfidence(pred.Confidence),
		Language:   lang,
		Remedies:   s.Remedies.RemediesList(pred.Disease, lang),
	}

	if s.Searches != nil {
		err := s.Searches.RecordSearch(ctx, pred.Crop, pred.Disease, pred.Confidence, lang, in.DeviceToken, in.Latitude, in.Longitude)
		if err != nil {
			telemetry.Warn("detections.history_failed", map[string]any{
				"error":      err.Error(),
				"request_id": in.RequestID,
			})
		}
	}

	if pred.Confidence < s.ConfidenceThreshold {
		telemetry.Info("detections.below_threshold", map[string]any{
			"crop":       pred.Crop,
			"disease":    pred.Disease,
			"confidence": pred.Confidence,
			"request_id": in.RequestID,
		})
		return result, nil
	}

	event := Event{
		ID:         uuid.NewString(),
		Crop:       pred.Crop,
		Disease:    pred.Disease,
		Confidence: pred.Confidence,
		Latitude:   in.Latitude,
		Longitude:  in.Longitude,
		CreatedAt:  time.Now().UTC(),
	}

	if s.Store != nil && len(in.Image) > 0 {
		key, _, _, err := s.Store.Save(ctx, in.DeviceToken, in.FileName, bytes.NewReader(in.Image))
		if err != nil {
			// The diagnosis is still useful without the archived image.
			telemetry.Warn("detections.archive_failed", map[string]any{
				"error":      err.Error(),
				"request_id": in.RequestID,
			})
		} else {
			event.ImageKey = key
		}
	}

	if err := s.Repo.Create(ctx, event); err != nil {
		metrics.IncDetectionFailed()
		return DetectResult{}, fmt.Errorf("persist detection: %w", err)
	}
	metrics.IncDetectionSaved()

	result.EventID = event.ID
	result.Saved = true

	if event.HasLocation() {
		s.fanOut(ctx, event, in.RequestID)
	}

	telemetry.Info("detections.saved", map[string]any{
		"event_id":   event.ID,
		"crop":       event.Crop,
		"disease":    event.Disease,
		"confidence": event.Confidence,
		"request_id": in.RequestID,
	})
	return result, nil
}

// fanOut hands the alert job to the queue when one is configured, otherwise
// alerts devices inline. Failures never fail the detection itself.
func (s *Service) fanOut(ctx context.Context, event Event, requestID string) {
	lat, lng := *event.Latitude, *event.Longitude

	if s.Queue != nil {
		msg := queue.Message{
			EventID:    event.ID,
			Disease:    event.Disease,
			Latitude:   lat,
			Longitude:  lng,
			RequestID:  requestID,
			EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
			Version:    1,
		}
		if err := s.Queue.Send(ctx, msg); err != nil {
			telemetry.Warn("detections.enqueue_failed", map[string]any{
				"event_id":   event.ID,
				"error":      err.Error(),
				"request_id": requestID,
			})
		}
		return
	}

	if s.Alerter == nil {
		return
	}
	notified, err := s.Alerter.AlertNearby(ctx, event.ID, event.Disease, lat, lng)
	if err != nil {
		telemetry.Warn("detections.alert_failed", map[string]any{
			"event_id":   event.ID,
			"error":      err.Error(),
			"request_id": requestID,
		})
		return
	}
	if notified > 0 {
		telemetry.Info("detections.alerts_sent", map[string]any{
			"event_id": event.ID,
			"notified": notified,
		})
	}
}

// Alert is one nearby detection reported back to a device.
type Alert struct {
	EventID    string    `json:"eventId"`
	Crop       string    `json:"crop"`
	Disease    string    `json:"disease"`
	DistanceKm float64   `json:"distanceKm"`
	DetectedAt time.Time `json:"detectedAt"`
}

// NearbyAlerts returns recent detections within radiusKm of the point. A
// bounding box prefilters candidates before the exact distance check.
func (s *Service) NearbyAlerts(ctx context.Context, lat, lng, radiusKm float64, lang string) ([]Alert, error) {
	if radiusKm <= 0 {
		radiusKm = s.AlertRadiusKm
	}
	lang = remedies.ValidateLanguage(lang)

	latDelta, lngDelta := geo.BoundingBox(lat, radiusKm)
	since := time.Now().UTC().Add(-nearbyWindow)
	events, err := s.Repo.ListInBox(ctx, lat-latDelta, lat+latDelta, lng-lngDelta, lng+lngDelta, since)
	if err != nil {
		return nil, fmt.Errorf("list detections: %w", err)
	}

	alerts := make([]Alert, 0, len(events))
	for _, e := range events {
		dist := geo.HaversineKm(lat, lng, *e.Latitude, *e.Longitude)
		if dist > radiusKm {
			continue
		}
		alerts = append(alerts, Alert{
			EventID:    e.ID,
			Crop:       s.Remedies.TranslatedCrop(e.Crop, lang),
			Disease:    s.Remedies.TranslatedDisease(e.Disease, lang),
			DistanceKm: geo.RoundKm(dist),
			DetectedAt: e.CreatedAt,
		})
	}
	return alerts, nil
}

// roundConfidence trims classifier scores to three decimals for responses.
func roundConfidence(v float64) float64 {
	return math.Round(v*1000) / 1000
}
