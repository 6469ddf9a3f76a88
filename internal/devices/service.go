package devices

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harikaa2703/ArogyaKrishi/internal/remedies"
	"github.com/harikaa2703/ArogyaKrishi/internal/shared/geo"
	"github.com/harikaa2703/ArogyaKrishi/internal/shared/metrics"
	"github.com/harikaa2703/ArogyaKrishi/internal/shared/telemetry"
)

// Service registers devices and fans out outbreak alerts to the ones near
// a detection.
type Service struct {
	Repo     Repo
	Notifier Notifier
	Remedies *remedies.Service

	AlertRadiusKm float64
	DedupeWindow  time.Duration
}

// RegisterInput is a device registration request.
type RegisterInput struct {
	DeviceToken          string
	Latitude             float64
	Longitude            float64
	NotificationsEnabled bool
	Language             string
}

// Register upserts the device keyed by its token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Device, error) {
	device, err := s.Repo.UpsertByToken(ctx, Device{
		DeviceToken:          in.DeviceToken,
		Latitude:             in.Latitude,
		Longitude:            in.Longitude,
		NotificationsEnabled: in.NotificationsEnabled,
		Language:             remedies.ValidateLanguage(in.Language),
	})
	if err != nil {
		return Device{}, fmt.Errorf("upsert device: %w", err)
	}
	return device, nil
}

var alertTitle = map[string]string{
	"en": "Crop disease alert",
	"hi": "फसल रोग चेतावनी",
	"te": "పంట వ్యాధి హెచ్చరిక",
}

var alertBody = map[string]string{
	"en": "%s was detected %skm from your farm. Inspect your crop and check the app for remedies.",
	"hi": "आपके खेत से %s किमी दूर %s पाया गया। अपनी फसल की जांच करें और उपायों के लिए ऐप देखें।",
	"te": "మీ పొలానికి %s కి.మీ దూరంలో %s గుర్తించబడింది. మీ పంటను పరిశీలించి, పరిష్కారాల కోసం యాప్ చూడండి.",
}

func (s *Service) alertText(disease, lang string, distKm float64) (string, string) {
	title, ok := alertTitle[lang]
	if !ok {
		title, lang = alertTitle["en"], "en"
	}
	name := s.Remedies.TranslatedDisease(disease, lang)
	dist := fmt.Sprintf("%.1f", distKm)

	var body string
	if lang == "en" {
		body = fmt.Sprintf(alertBody["en"], name, dist+" ")
	} else {
		body = fmt.Sprintf(alertBody[lang], dist, name)
	}
	return title, strings.TrimSpace(body)
}

// AlertNearby notifies every eligible device within the alert radius of the
// detection. A device is skipped when notifications are off or when it was
// already alerted for this disease inside the dedupe window. Returns the
// number of devices notified.
func (s *Service) AlertNearby(ctx context.Context, eventID, disease string, lat, lng float64) (int, error) {
	radius := s.AlertRadiusKm
	if radius <= 0 {
		radius = 10
	}
	latDelta, lngDelta := geo.BoundingBox(lat, radius)
	candidates, err := s.Repo.ListInBox(ctx, lat-latDelta, lat+latDelta, lng-lngDelta, lng+lngDelta)
	if err != nil {
		return 0, fmt.Errorf("list devices: %w", err)
	}

	since := time.Now().UTC().Add(-s.DedupeWindow)
	notified := 0
	for _, device := range candidates {
		if !device.NotificationsEnabled {
			continue
		}
		dist := geo.HaversineKm(lat, lng, device.Latitude, device.Longitude)
		if dist > radius {
			continue
		}

		sent, err := s.Repo.WasAlertedSince(ctx, device.ID, disease, since)
		if err != nil {
			return notified, fmt.Errorf("check alert history: %w", err)
		}
		if sent {
			continue
		}

		lang := remedies.ValidateLanguage(device.Language)
		title, body := s.alertText(disease, lang, geo.RoundKm(dist))
		if err := s.Notifier.Push(ctx, device, title, body); err != nil {
			telemetry.Warn("devices.push_failed", map[string]any{
				"device_id": device.ID,
				"event_id":  eventID,
				"error":     err.Error(),
			})
			continue
		}

		if err := s.Repo.RecordAlert(ctx, SentAlert{
			ID:       uuid.NewString(),
			DeviceID: device.ID,
			Disease:  disease,
			SentAt:   time.Now().UTC(),
		}); err != nil {
			return notified, fmt.Errorf("record alert: %w", err)
		}
		metrics.IncAlertSent()
		notified++
	}
	return notified, nil
}
