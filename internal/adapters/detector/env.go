// Package detector picks how progress output is rendered.
package detector

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"go.trai.ch/kiln/internal/ui/output"
)

// OutputMode is the rendering mode for progress lines.
type OutputMode int

const (
	// ModeAuto defers to environment detection.
	ModeAuto OutputMode = iota
	// ModeColor renders with terminal colors.
	ModeColor
	// ModePlain renders without escape sequences.
	ModePlain
)

// DetectEnvironment returns ModePlain when w is not a terminal, when CI is
// set, or when NO_COLOR is set. Otherwise it returns ModeColor.
func DetectEnvironment(w io.Writer) OutputMode {
	ci := os.Getenv("CI")
	if ci == "true" || ci == "1" || os.Getenv("NO_COLOR") != "" || !output.IsTerminal(w) {
		return ModePlain
	}
	return ModeColor
}

// ResolveMode applies the --color flag ("auto", "always", "never") to autoDetected.
func ResolveMode(autoDetected OutputMode, flag string) OutputMode {
	switch flag {
	case "always":
		return ModeColor
	case "never":
		return ModePlain
	default:
		return autoDetected
	}
}

// Profile returns the termenv profile selector for mode.
func Profile(mode OutputMode) func() termenv.Profile {
	if mode == ModePlain {
		return output.Plain
	}
	return func() termenv.Profile {
		if p := output.ColorProfile(); p != termenv.Ascii {
			return p
		}
		return termenv.ANSI
	}
}
