package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/pkg/logger"
)

// Snackbar holds at most one visible notification. A new Show pre-empts the
// current message instead of queueing behind it.
type Snackbar struct {
	logg            *logger.Logger
	defaultDuration time.Duration

	mu      sync.Mutex
	current domain.Notification
	gen     uint64
	timer   *time.Timer
}

func NewSnackbar(logg *logger.Logger, defaultDuration time.Duration) *Snackbar {
	if defaultDuration <= 0 {
		defaultDuration = domain.DefaultNotificationDuration
	}
	return &Snackbar{
		logg:            logg,
		defaultDuration: defaultDuration,
		current:         domain.Notification{Severity: domain.SeverityInfo},
	}
}

func (s *Snackbar) Show(message string, severity domain.Severity, duration time.Duration) {
	if duration <= 0 {
		duration = s.defaultDuration
	}
	if severity == "" {
		severity = domain.SeverityInfo
	}

	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.current = domain.Notification{
		Message:  message,
		Severity: severity,
		Visible:  true,
		ShownAt:  time.Now(),
	}
	s.timer = time.AfterFunc(duration, func() { s.expire(gen) })
	s.mu.Unlock()

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(context.Background(), map[string]any{
			"severity":    string(severity),
			"duration_ms": duration.Milliseconds(),
			"text":        message,
		}), "notification.show")
	}
}

func (s *Snackbar) Hide() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.current.Visible = false
}

// Current returns the last shown notification and whether it is still visible.
func (s *Snackbar) Current() domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// expire hides the message shown as gen, unless a later Show or Hide already replaced it.
func (s *Snackbar) expire(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		return
	}
	s.current.Visible = false
	s.timer = nil
}
