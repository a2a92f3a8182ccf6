package port

import (
	"time"

	"github.com/rl1809/storefront/internal/core/domain"
)

type Notifier interface {
	// Show displays message right away, replacing any visible one, and hides it
	// after duration (domain.DefaultNotificationDuration when duration <= 0)
	Show(message string, severity domain.Severity, duration time.Duration)

	// Hide hides the current message immediately
	Hide()
}
