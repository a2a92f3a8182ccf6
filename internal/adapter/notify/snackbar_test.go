package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
	"github.com/rl1809/storefront/pkg/logger"
)

var _ port.Notifier = (*Snackbar)(nil)

func TestSnackbar_ShowAndAutoHide(t *testing.T) {
	s := NewSnackbar(logger.Nop(), 0)

	s.Show("Backpack added to cart", domain.SeveritySuccess, 20*time.Millisecond)

	current := s.Current()
	assert.True(t, current.Visible)
	assert.Equal(t, "Backpack added to cart", current.Message)
	assert.Equal(t, domain.SeveritySuccess, current.Severity)

	require.Eventually(t, func() bool { return !s.Current().Visible }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "Backpack added to cart", s.Current().Message)
}

func TestSnackbar_NewMessagePreemptsOld(t *testing.T) {
	s := NewSnackbar(logger.Nop(), 0)

	s.Show("first", domain.SeverityInfo, 30*time.Millisecond)
	s.Show("second", domain.SeverityError, 500*time.Millisecond)

	// The first message's timer must not hide the second one
	time.Sleep(80 * time.Millisecond)

	current := s.Current()
	assert.True(t, current.Visible)
	assert.Equal(t, "second", current.Message)
	assert.Equal(t, domain.SeverityError, current.Severity)
}

func TestSnackbar_HideImmediately(t *testing.T) {
	s := NewSnackbar(logger.Nop(), time.Minute)

	s.Show("Cart cleared", domain.SeverityInfo, 0)
	require.True(t, s.Current().Visible)

	s.Hide()
	assert.False(t, s.Current().Visible)

	s.Show("again", domain.SeverityInfo, 0)
	assert.True(t, s.Current().Visible)
}

func TestSnackbar_DefaultsSeverity(t *testing.T) {
	s := NewSnackbar(nil, 0)

	s.Show("plain", "", time.Minute)
	assert.Equal(t, domain.SeverityInfo, s.Current().Severity)
	s.Hide()
}
