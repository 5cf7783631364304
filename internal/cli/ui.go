package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/gangsheet/pkg/layout"
)

// =============================================================================
// Palette and Styles
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle for headings such as "Gang sheet plan".
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for measured values and paths.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for counts.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleHit     = lipgloss.NewStyle().Foreground(colorGreen)
	styleMiss    = lipgloss.NewStyle().Foreground(colorGray)
)

// statusKind selects the icon and colour of a status line.
type statusKind int

const (
	statusSuccess statusKind = iota
	statusError
	statusWarning
	statusInfo
)

var statusIcons = map[statusKind]string{
	statusSuccess: lipgloss.NewStyle().Foreground(colorGreen).Render("✓"),
	statusError:   lipgloss.NewStyle().Foreground(colorRed).Render("✗"),
	statusWarning: lipgloss.NewStyle().Foreground(colorYellow).Render("!"),
	statusInfo:    lipgloss.NewStyle().Foreground(colorGray).Render("›"),
}

// Cache labels shown at the end of the stats line.
const (
	labelCached = "cached"
	labelFresh  = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printStatus(w io.Writer, kind statusKind, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if kind == statusWarning {
		msg = StyleWarning.Render(msg)
	}
	fmt.Fprintln(w, statusIcons[kind]+" "+msg)
}

func printSuccess(w io.Writer, format string, args ...any) {
	printStatus(w, statusSuccess, format, args...)
}

func printWarning(w io.Writer, format string, args ...any) {
	printStatus(w, statusWarning, format, args...)
}

func printInfo(w io.Writer, format string, args ...any) {
	printStatus(w, statusInfo, format, args...)
}

// printDetail prints an indented, dimmed line under a status line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints one written output path.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

// keyValue formats a labeled value with the key padded to a fixed width.
func keyValue(key, value string) string {
	return styleKey.Render(key) + " " + StyleValue.Render(value)
}

// =============================================================================
// Plan Stats
// =============================================================================

// plural returns "1 sheet" or "n sheets".
func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}

// statsLine summarises a finished job: sheets, copies, how much of the
// usable sheet area the copies cover, and whether everything came from cache.
func statsLine(sum layout.Summary, cached bool) string {
	parts := []string{
		plural(sum.Sheets, "sheet", "sheets"),
		plural(sum.Placements, "copy", "copies"),
		fmt.Sprintf("%.0f%% used", sum.Utilization*100),
	}

	label, style := labelFresh, styleMiss
	if cached {
		label, style = labelCached, styleHit
	}
	sep := StyleDim.Render(" · ")
	return "  " + StyleDim.Render(strings.Join(parts, " · ")) + sep + style.Render(label)
}

func printStats(w io.Writer, sum layout.Summary, cached bool) {
	fmt.Fprintln(w, statsLine(sum, cached))
}
