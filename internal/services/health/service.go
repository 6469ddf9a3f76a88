package health

import "time"

// Version is the application version reported by /health and /version.
const Version = "0.1.0"

// Service encapsulates health-related checks.
type Service struct {
	startedAt time.Time
}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{startedAt: time.Now().UTC()}
}

// Status returns the health payload.
func (s *Service) Status() map[string]any {
	return map[string]any{
		"ok":             true,
		"version":        Version,
		"uptime_seconds": int64(time.Since(s.startedAt).Seconds()),
	}
}
