package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gangsheet/pkg/layout"
	"github.com/matzehuels/gangsheet/pkg/pipeline"
)

// Sheet map glyphs.
const (
	glyphMargin = '·'
	glyphEmpty  = ' '
	glyphCopyA  = '▓'
	glyphCopyB  = '░'
)

// Preview styles
var (
	previewMapStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	previewCopyStyle = lipgloss.NewStyle().Foreground(colorCyan)
	previewHelpStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// previewCommand creates the interactive preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var job jobFlags

	cmd := &cobra.Command{
		Use:   "preview [artwork]",
		Short: "Browse the planned sheets in the terminal",
		Long: `Preview plans a job and draws each sheet as a character map.

Use ←/→ (or h/l) to page between sheets, g/G for the first and last sheet and
q to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), cmd.OutOrStdout(), args[0], job.options(cmd.Flags()), job.noCache)
		},
	}

	job.register(cmd.Flags())
	c.registerJobCompletions(cmd)
	return cmd
}

func (c *CLI) runPreview(ctx context.Context, w io.Writer, input string, opts pipeline.Options, noCache bool) error {
	data, err := readInput(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)
	result, err := runner.Plan(ctx, data, opts)
	if err != nil {
		return err
	}
	if len(result.Plan.Sheets) == 0 {
		printInfo(w, "Nothing to place")
		return nil
	}

	_, err = tea.NewProgram(NewPreviewModel(result.Plan, input), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// PreviewModel - Interactive sheet browser
// =============================================================================

// PreviewModel is the bubbletea model for browsing a plan's sheets.
type PreviewModel struct {
	Plan   layout.Plan
	Title  string
	Index  int
	Width  int
	Height int
}

// NewPreviewModel creates a preview starting at the first sheet.
func NewPreviewModel(plan layout.Plan, title string) PreviewModel {
	return PreviewModel{Plan: plan, Title: title, Width: 80, Height: 24}
}

func (m PreviewModel) Init() tea.Cmd {
	return nil
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	last := len(m.Plan.Sheets) - 1
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h", "pgup", "k":
			if m.Index > 0 {
				m.Index--
			}
		case "right", "l", "pgdown", "j", " ":
			if m.Index < last {
				m.Index++
			}
		case "home", "g":
			m.Index = 0
		case "end", "G":
			m.Index = last
		}
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
	}
	return m, nil
}

func (m PreviewModel) View() string {
	var b strings.Builder

	sheet := m.Plan.Sheets[m.Index]
	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("sheet %d/%d · %d copies · %s",
		m.Index+1, len(m.Plan.Sheets), len(sheet.Placements), m.Plan.Spec)))
	b.WriteString("\n")

	// Border, header and help take six lines and four columns.
	lines := sheetMap(m.Plan.Spec, sheet, max(m.Width-4, 10), max(m.Height-6, 5))
	for i, line := range lines {
		lines[i] = colorizeCopies(line)
	}
	b.WriteString(previewMapStyle.Render(strings.Join(lines, "\n")))
	b.WriteString("\n")
	b.WriteString(previewHelpStyle.Render("←/→ sheet  g/G first/last  q quit"))

	return b.String()
}

// colorizeCopies styles the runs of copy glyphs in a map line.
func colorizeCopies(line string) string {
	var b, run strings.Builder
	flush := func() {
		if run.Len() > 0 {
			b.WriteString(previewCopyStyle.Render(run.String()))
			run.Reset()
		}
	}
	for _, r := range line {
		if r == glyphCopyA || r == glyphCopyB {
			run.WriteRune(r)
			continue
		}
		flush()
		b.WriteRune(r)
	}
	flush()
	return b.String()
}

// sheetMap draws sheet as at most maxCols x maxRows characters. Terminal
// cells are about twice as tall as wide, so one row covers two column widths.
// Copies alternate between two glyphs in a checkerboard so neighbours stay
// distinguishable when the gap is too small to show.
func sheetMap(spec layout.SheetSpec, sheet layout.Sheet, maxCols, maxRows int) []string {
	scale := math.Min(float64(maxCols)/spec.Width, 2*float64(maxRows)/spec.Height)
	cols := max(int(math.Round(spec.Width*scale)), 1)
	rows := max(int(math.Round(spec.Height*scale/2)), 1)

	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = make([]rune, cols)
		for c := range grid[r] {
			grid[r][c] = glyphMargin
		}
	}

	// Cell ranges covering [x0, x1) x [top0, top1) in top-left inches.
	span := func(lo, hi, perCell float64, n int) (int, int) {
		a := int(math.Floor(lo * perCell))
		b := int(math.Ceil(hi*perCell)) - 1
		a = min(max(a, 0), n-1)
		b = min(max(b, a), n-1)
		return a, b
	}
	fill := func(x0, x1, top0, top1 float64, g rune) {
		c0, c1 := span(x0, x1, scale, cols)
		r0, r1 := span(top0, top1, scale/2, rows)
		for r := r0; r <= r1; r++ {
			for c := c0; c <= c1; c++ {
				grid[r][c] = g
			}
		}
	}

	fill(spec.Margin, spec.Width-spec.Margin, spec.Margin, spec.Height-spec.Margin, glyphEmpty)
	for _, p := range sheet.Placements {
		g := glyphCopyA
		if (p.Row+p.Column)%2 == 1 {
			g = glyphCopyB
		}
		fill(p.X, p.Right(), spec.Height-p.Top(), spec.Height-p.Y, g)
	}

	out := make([]string, rows)
	for r, line := range grid {
		out[r] = string(line)
	}
	return out
}
