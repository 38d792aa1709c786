package ui

import (
	"fmt"

	"github.com/magoslab/calmirror/internal/model"
)

// ANSI256 color codes.
const (
	colorNew       = 74  // blue
	colorConfirmed = 71  // green
	colorChanged   = 178 // yellow
	colorCancelled = 167 // red
	colorArchived  = 245 // medium gray
	colorMuted     = 245 // medium gray
)

var noColor bool

// RenderStatus returns the status string colored by lifecycle state.
func RenderStatus(s model.Status) string {
	if noColor {
		return string(s)
	}
	var code int
	switch s {
	case model.StatusNew:
		code = colorNew
	case model.StatusConfirmed:
		code = colorConfirmed
	case model.StatusChanged:
		code = colorChanged
	case model.StatusCancelled:
		code = colorCancelled
	default:
		code = colorArchived
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorMuted, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
