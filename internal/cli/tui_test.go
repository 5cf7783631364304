package cli

import (
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/gangsheet/pkg/layout"
)

func testSheetPlan(t *testing.T, quantity int) layout.Plan {
	t.Helper()
	cfg := layout.DefaultConfig(layout.WithSheet(4, 4), layout.WithMargin(0), layout.WithGap(0))
	plan, err := layout.NewPlanner(cfg).Plan(
		layout.Artifact{Kind: layout.KindRaster, NativeWidth: 600, NativeHeight: 600},
		layout.Request{Quantity: quantity},
	)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	return plan
}

func TestSheetMap(t *testing.T) {
	plan := testSheetPlan(t, 3)

	lines := sheetMap(plan.Spec, plan.Sheets[0], 8, 4)
	if len(lines) != 4 {
		t.Fatalf("got %d rows, want 4", len(lines))
	}
	for i, l := range lines {
		if n := utf8.RuneCountInString(l); n != 8 {
			t.Errorf("row %d has %d columns, want 8", i, n)
		}
	}

	// Three 2x2 copies fill the top row and the bottom-left slot; neighbours
	// alternate glyphs.
	want := []string{
		"▓▓▓▓░░░░",
		"▓▓▓▓░░░░",
		"░░░░    ",
		"░░░░    ",
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("row %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestSheetMapMargin(t *testing.T) {
	spec := layout.SheetSpec{Width: 10, Height: 10, Margin: 1}
	lines := sheetMap(spec, layout.Sheet{}, 10, 5)
	if !strings.ContainsRune(lines[0], glyphMargin) {
		t.Errorf("first row should be margin: %q", lines[0])
	}
	if !strings.ContainsRune(lines[2], glyphEmpty) {
		t.Errorf("middle row should have usable space: %q", lines[2])
	}
}

func TestPreviewModelPaging(t *testing.T) {
	plan := testSheetPlan(t, 10) // 3 sheets
	var m tea.Model = NewPreviewModel(plan, "logo.png")

	press := func(key string) {
		var msg tea.KeyMsg
		switch key {
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}
		m, _ = m.Update(msg)
	}
	index := func() int { return m.(PreviewModel).Index }

	press("left")
	if index() != 0 {
		t.Errorf("left on first sheet: index = %d", index())
	}
	press("right")
	press("right")
	press("right")
	if index() != 2 {
		t.Errorf("right past last sheet: index = %d, want 2", index())
	}
	press("g")
	if index() != 0 {
		t.Errorf("g: index = %d, want 0", index())
	}
	press("G")
	if index() != 2 {
		t.Errorf("G: index = %d, want 2", index())
	}

	if view := m.View(); !strings.Contains(view, "sheet 3/3") || !strings.Contains(view, "2 copies") {
		t.Errorf("view header wrong:\n%s", view)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestPreviewModelResize(t *testing.T) {
	m, _ := NewPreviewModel(testSheetPlan(t, 1), "x").Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	pm := m.(PreviewModel)
	if pm.Width != 120 || pm.Height != 40 {
		t.Errorf("size = %dx%d", pm.Width, pm.Height)
	}
}
