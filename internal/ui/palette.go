package ui

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

const (
	noColorEnvironmentVariableConstant  = "NO_COLOR"
	terminalEnvironmentVariableConstant = "TERM"
	dumbTerminalValueConstant           = "dumb"
	redColorCodeConstant                = "1"
	greenColorCodeConstant              = "2"
	yellowColorCodeConstant             = "3"
	cyanColorCodeConstant               = "6"
)

// VariableLookup resolves an environment variable.
type VariableLookup func(name string) (string, bool)

// IsTerminal reports whether file is attached to a terminal.
func IsTerminal(file *os.File) bool {
	if file == nil {
		return false
	}
	fileDescriptor := file.Fd()
	return isatty.IsTerminal(fileDescriptor) || isatty.IsCygwinTerminal(fileDescriptor)
}

// ColorEnabled decides whether output may carry ANSI styling: NO_COLOR must
// be unset or empty, TERM must not be "dumb", and the output must be a terminal.
func ColorEnabled(lookupVariable VariableLookup, outputIsTerminal bool) bool {
	if lookupVariable == nil {
		lookupVariable = os.LookupEnv
	}
	if noColorValue, exists := lookupVariable(noColorEnvironmentVariableConstant); exists && len(noColorValue) > 0 {
		return false
	}
	if terminalValue, exists := lookupVariable(terminalEnvironmentVariableConstant); exists && strings.TrimSpace(terminalValue) == dumbTerminalValueConstant {
		return false
	}
	return outputIsTerminal
}

// Palette styles short inline fragments of text.
type Palette struct {
	renderer     *lipgloss.Renderer
	colorEnabled bool
}

// NewPalette builds a palette writing to output. When colorEnabled is false
// every style renders plain text.
func NewPalette(output io.Writer, colorEnabled bool) Palette {
	renderer := lipgloss.NewRenderer(output)
	if colorEnabled {
		renderer.SetColorProfile(termenv.ANSI)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}
	return Palette{renderer: renderer, colorEnabled: colorEnabled}
}

// ColorEnabled reports whether the palette emits ANSI styling.
func (palette Palette) ColorEnabled() bool {
	return palette.colorEnabled
}

// Bold renders text in bold.
func (palette Palette) Bold(text string) string {
	return palette.render(palette.style().Bold(true), text)
}

// Dim renders text faint.
func (palette Palette) Dim(text string) string {
	return palette.render(palette.style().Faint(true), text)
}

// Red renders text in red.
func (palette Palette) Red(text string) string {
	return palette.render(palette.style().Foreground(lipgloss.Color(redColorCodeConstant)), text)
}

// Green renders bold green text.
func (palette Palette) Green(text string) string {
	return palette.render(palette.style().Foreground(lipgloss.Color(greenColorCodeConstant)).Bold(true), text)
}

// Yellow renders text in yellow.
func (palette Palette) Yellow(text string) string {
	return palette.render(palette.style().Foreground(lipgloss.Color(yellowColorCodeConstant)), text)
}

// YellowBold renders bold yellow text.
func (palette Palette) YellowBold(text string) string {
	return palette.render(palette.style().Foreground(lipgloss.Color(yellowColorCodeConstant)).Bold(true), text)
}

// Cyan renders text in cyan.
func (palette Palette) Cyan(text string) string {
	return palette.render(palette.style().Foreground(lipgloss.Color(cyanColorCodeConstant)), text)
}

// CyanBold renders bold cyan text.
func (palette Palette) CyanBold(text string) string {
	return palette.render(palette.style().Foreground(lipgloss.Color(cyanColorCodeConstant)).Bold(true), text)
}

func (palette Palette) style() lipgloss.Style {
	if palette.renderer == nil {
		return lipgloss.NewStyle()
	}
	return palette.renderer.NewStyle()
}

func (palette Palette) render(style lipgloss.Style, text string) string {
	if !palette.colorEnabled || len(text) == 0 {
		return text
	}
	return style.Render(text)
}
