package artifact

import "testing"

func TestDensity(t *testing.T) {
	tests := []struct {
		name   string
		format string
		data   []byte
		want   float64
	}{
		{"png 72 ppi", FormatPNG, pngWithDensity(t, 2, 2, 2835, 1), 72},
		{"png 600 ppi", FormatPNG, pngWithDensity(t, 2, 2, 23622, 1), 600},
		{"png missing", FormatPNG, pngWithDensity(t, 2, 2, 0, 0), 0},
		{"jpeg 96 dpi", FormatJPEG, jpegWithJFIF(t, 2, 2, 1, 96), 96},
		{"gif never", FormatGIF, []byte("GIF89a"), 0},
		{"wrong format hint", FormatPNG, jpegWithJFIF(t, 2, 2, 1, 96), 0},
		{"garbage png", FormatPNG, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\xFFpHYs"), 0},
		{"garbage jpeg", FormatJPEG, []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Density(tt.format, tt.data); got != tt.want {
				t.Errorf("Density() = %g, want %g", got, tt.want)
			}
		})
	}
}
