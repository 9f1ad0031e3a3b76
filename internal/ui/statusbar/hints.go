package statusbar

import "github.com/riordanpawley/wbsboard/internal/types"

// GetHints returns the keybinding hints for the given mode
func GetHints(mode types.Mode) string {
	switch mode {
	case types.ModeNormal:
		return "h/l: columns  j/k: cards  Space: pick card  P: pick column  a/A: add  r: refresh  q: quit"
	case types.ModeDrag:
		return "h/j/k/l: target  Enter: drop  Esc: cancel"
	case types.ModeInput:
		return "Enter: confirm  Esc: cancel"
	default:
		return ""
	}
}
