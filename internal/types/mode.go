// Package types contains shared types used across the application.
package types

// Mode represents the current interaction mode of the board
type Mode int

const (
	ModeNormal Mode = iota
	// ModeDrag is active while a card or column is picked up
	ModeDrag
	// ModeInput is active while an overlay takes keyboard input
	ModeInput
)

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeDrag:
		return "MOVE"
	case ModeInput:
		return "INPUT"
	default:
		return "UNKNOWN"
	}
}
