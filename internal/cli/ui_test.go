package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/gangsheet/pkg/layout"
)

func TestStatsLine(t *testing.T) {
	tests := []struct {
		name   string
		sum    layout.Summary
		cached bool
		want   []string
	}{
		{"single sheet", layout.Summary{Sheets: 1, Placements: 4, Utilization: 1}, false, []string{"1 sheet ", "4 copies", "100% used", labelFresh}},
		{"cached", layout.Summary{Sheets: 3, Placements: 10, Utilization: 0.8333}, true, []string{"3 sheets", "10 copies", "83% used", labelCached}},
		{"one copy", layout.Summary{Sheets: 1, Placements: 1, Utilization: 0.25}, false, []string{"1 copy ", "25% used"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := statsLine(tt.sum, tt.cached)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("statsLine() = %q, missing %q", got, w)
				}
			}
		})
	}
}

func TestPlural(t *testing.T) {
	if got := plural(1, "sheet", "sheets"); got != "1 sheet" {
		t.Errorf("plural(1) = %q", got)
	}
	if got := plural(0, "sheet", "sheets"); got != "0 sheets" {
		t.Errorf("plural(0) = %q", got)
	}
}

func TestStatusLines(t *testing.T) {
	var buf bytes.Buffer
	printSuccess(&buf, "Cleared %d cached entries", 3)
	printWarning(&buf, "Cache backend %q is not managed locally", "redis")
	printFile(&buf, "out/logo-gangsheet.pdf")

	out := buf.String()
	for _, want := range []string{"Cleared 3 cached entries", `"redis" is not managed locally`, "out/logo-gangsheet.pdf"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
	if n := strings.Count(out, "\n"); n != 3 {
		t.Errorf("got %d lines, want 3", n)
	}
}

func TestKeyValue(t *testing.T) {
	got := keyValue("Sheets", "3")
	if !strings.HasPrefix(got, "Sheets") || !strings.HasSuffix(got, "3") {
		t.Errorf("keyValue() = %q", got)
	}
}
