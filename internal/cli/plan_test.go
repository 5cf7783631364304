package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/gangsheet/pkg/cache"
	"github.com/matzehuels/gangsheet/pkg/layout"
)

func TestPlanCommand(t *testing.T) {
	dir := isolate(t)
	art := writeArtwork(t, dir)

	out, err := execute(t, append([]string{"plan", art, "-q", "10"}, sheetArgs...)...)
	if err != nil {
		t.Fatalf("plan error: %v", err)
	}
	for _, want := range []string{"Gang sheet plan", "2.000 x 2.000 in", "per sheet", "Sheets", "75 ppi"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPlanCommandJSON(t *testing.T) {
	dir := isolate(t)
	art := writeArtwork(t, dir)

	out, err := execute(t, append([]string{"plan", art, "-q", "10", "--json"}, sheetArgs...)...)
	if err != nil {
		t.Fatalf("plan --json error: %v", err)
	}

	var plan struct {
		Quantity int            `json:"quantity"`
		Summary  layout.Summary `json:"summary"`
		Sheets   []struct {
			Placements []json.RawMessage `json:"placements"`
		} `json:"sheets"`
	}
	if err := json.Unmarshal([]byte(out), &plan); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if plan.Quantity != 10 || plan.Summary.Sheets != 3 || plan.Summary.LastSheet != 2 {
		t.Errorf("plan = %+v", plan)
	}
	if len(plan.Sheets) != 3 || len(plan.Sheets[0].Placements) != 4 {
		t.Errorf("unexpected sheet breakdown: %d sheets", len(plan.Sheets))
	}
}

func TestPlanCommandTooLarge(t *testing.T) {
	dir := isolate(t)
	art := writeArtwork(t, dir)

	_, err := execute(t, "plan", art, "--sheet-width", "1", "--sheet-height", "1", "--margin", "0", "--density", "75", "--no-cache")
	if err == nil || !strings.Contains(err.Error(), "ARTIFACT_TOO_LARGE") {
		t.Errorf("error = %v, want ARTIFACT_TOO_LARGE", err)
	}
}

func TestPresetsCommand(t *testing.T) {
	dir := isolate(t)
	presetsFile := filepath.Join(dir, "presets.toml")
	writeFile(t, presetsFile, "[presets.banner]\nwidth = 24\nheight = 72\n")
	writeFile(t, filepath.Join(dir, "config", appName, "config.toml"), "presets_file = \""+filepath.ToSlash(presetsFile)+"\"\n")

	out, err := execute(t, "presets")
	if err != nil {
		t.Fatalf("presets error: %v", err)
	}
	for _, want := range []string{"22x36", "letter", "banner", "24 x 72 in"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestWritePresetsJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writePresets(&buf, layout.BuiltinPresets(), true); err != nil {
		t.Fatal(err)
	}
	var presets []layout.Preset
	if err := json.Unmarshal(buf.Bytes(), &presets); err != nil {
		t.Fatal(err)
	}
	if len(presets) != len(layout.BuiltinPresets()) {
		t.Errorf("got %d presets", len(presets))
	}
}

func TestCachePathCommand(t *testing.T) {
	dir := isolate(t)
	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "cache", appName); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestCacheInfoAndClear(t *testing.T) {
	dir := isolate(t)
	art := writeArtwork(t, t.TempDir())

	// A cached run populates the file cache under XDG_CACHE_HOME.
	args := []string{"plan", art, "-q", "5", "--sheet-width", "4", "--sheet-height", "4", "--margin", "0", "--gap", "0", "--density", "75"}
	if _, err := execute(t, args...); err != nil {
		t.Fatalf("plan: %v", err)
	}

	out, err := execute(t, "cache", "info")
	if err != nil {
		t.Fatalf("cache info: %v", err)
	}
	cacheRoot := filepath.Join(dir, "cache", appName)
	if !strings.Contains(out, cacheRoot) || !strings.Contains(out, "Entries") {
		t.Errorf("cache info = %q", out)
	}
	fc, err := cache.NewFileCache(cacheRoot)
	if err != nil {
		t.Fatal(err)
	}
	if st, _ := fc.Stats(); st.Entries == 0 {
		t.Error("plan run should leave a cached entry")
	}

	out, err = execute(t, "cache", "clear", "--expired")
	if err != nil {
		t.Fatalf("cache clear --expired: %v", err)
	}
	if !strings.Contains(out, "Nothing to remove") {
		t.Errorf("clear --expired = %q", out)
	}

	out, err = execute(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Removed") {
		t.Errorf("clear = %q", out)
	}
}

func TestCacheCommandsOtherBackend(t *testing.T) {
	isolate(t)
	t.Setenv("GANGSHEET_CACHE_BACKEND", "none")
	out, err := execute(t, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "not managed locally") {
		t.Errorf("clear with none backend = %q", out)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
