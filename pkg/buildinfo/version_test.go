package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	tests := []struct {
		name                  string
		version, commit, date string
		bi                    *debug.BuildInfo
		want                  Info
	}{
		{
			name: "no build info", version: "dev", commit: "none", date: "unknown",
			want: Info{Version: "dev", Commit: "none", Date: "unknown"},
		},
		{
			name: "embedded metadata", version: "dev", commit: "none", date: "unknown", bi: bi,
			want: Info{Version: "v0.3.1", Commit: "0123456789abcdef0123", Date: "2026-01-02T03:04:05Z", Modified: true},
		},
		{
			name: "ldflags win", version: "v1.0.0", commit: "feedface", date: "2026-10-01", bi: bi,
			want: Info{Version: "v1.0.0", Commit: "feedface", Date: "2026-10-01", Modified: true},
		},
		{
			name: "devel module", version: "dev", commit: "none", date: "unknown",
			bi:   &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			want: Info{Version: "dev", Commit: "none", Date: "unknown"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolve(tt.version, tt.commit, tt.date, tt.bi)
			got.GoVersion = ""
			if got != tt.want {
				t.Errorf("resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestInfoString(t *testing.T) {
	i := Info{Version: "v1.0.0", Commit: "0123456789abcdef", Date: "2026-10-01", GoVersion: "go1.24.0", Modified: true}
	s := i.String()
	for _, want := range []string{"version: v1.0.0", "commit: 0123456789ab-dirty", "go: go1.24.0"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
	if i.ShortCommit() != "0123456789ab" {
		t.Errorf("ShortCommit() = %q", i.ShortCommit())
	}
}

func TestGetIsStable(t *testing.T) {
	if Get() != Get() {
		t.Error("Get() should resolve once")
	}
	if Get().Version == "" {
		t.Error("Get().Version is empty")
	}
}
