package types

import "time"

// Toast represents a notification message
type Toast struct {
	Level   ToastLevel
	Message string
	Expires time.Time
}

// Expired reports whether the toast should be hidden at now
func (t Toast) Expired(now time.Time) bool {
	return !now.Before(t.Expires)
}

// ToastLevel indicates the severity of a toast
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastWarning
	ToastError
)
