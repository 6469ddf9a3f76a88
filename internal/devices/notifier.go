package devices

import (
	"context"

	"github.com/harikaa2703/ArogyaKrishi/internal/shared/telemetry"
)

// Notifier delivers a push notification to one device. The production
// transport (FCM, APNs) plugs in here; the default writes to the log so
// the alert pipeline can run end to end without push credentials.
type Notifier interface {
	Push(ctx context.Context, device Device, title, body string) error
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct{}

func (LogNotifier) Push(ctx context.Context, device Device, title, body string) error {
	telemetry.Info("devices.push", map[string]any{
		"device_id": device.ID,
		"title":     title,
		"body":      body,
		"language":  device.Language,
	})
	return nil
}
