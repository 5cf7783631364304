package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	errs "github.com/matzehuels/gangsheet/pkg/errors"
	"github.com/matzehuels/gangsheet/pkg/layout"
	"github.com/matzehuels/gangsheet/pkg/pipeline"
)

// artwork is a 150x150 px PNG; at density 75 it is 2x2 in.
func artwork(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 150, 150))
	for y := 0; y < 150; y++ {
		for x := 0; x < 150; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 40, B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func testServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(nil, nil, logger)
	t.Cleanup(func() { _ = runner.Close() })
	return New(runner, logger, cfg)
}

// upload builds a multipart request. A 4x4 in sheet with no margin or gap
// fits four 2x2 in copies.
func upload(t *testing.T, path, filename string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	base := map[string]string{
		"sheet_width":  "4",
		"sheet_height": "4",
		"margin":       "0",
		"gap":          "0",
		"density":      "75",
	}
	for k, v := range fields {
		base[k] = v
	}
	for k, v := range base {
		if v == "" {
			continue
		}
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if data != nil {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = fw.Write(data)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestRoot(t *testing.T) {
	s := testServer(t, Config{})
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "running") {
		t.Errorf("body = %q", rec.Body.String())
	}
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	s := testServer(t, Config{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	rec := serve(s, req)
	if got := rec.Header().Get(middleware.RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
}

func TestHealth(t *testing.T) {
	s := testServer(t, Config{})
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["version"] == "" {
		t.Errorf("body = %v", body)
	}
}

func TestPresets(t *testing.T) {
	s := testServer(t, Config{})
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/presets", nil))
	var presets []layout.Preset
	if err := json.Unmarshal(rec.Body.Bytes(), &presets); err != nil {
		t.Fatal(err)
	}
	if len(presets) != len(layout.BuiltinPresets()) {
		t.Errorf("got %d presets, want %d", len(presets), len(layout.BuiltinPresets()))
	}
}

func TestMergePDF(t *testing.T) {
	s := testServer(t, Config{})
	rec := serve(s, upload(t, "/merge", "logo.png", artwork(t), map[string]string{"quantity": "10"}))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="gangsheet.pdf"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if got := rec.Header().Get(headerSheets); got != "3" {
		t.Errorf("sheets = %s, want 3", got)
	}
	if got := rec.Header().Get(headerPlacements); got != "10" {
		t.Errorf("placements = %s, want 10", got)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Error("body is not a PDF")
	}
}

func TestMergeDefaultQuantity(t *testing.T) {
	s := testServer(t, Config{})
	rec := serve(s, upload(t, "/merge", "logo.png", artwork(t), map[string]string{"format": "svg"}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get(headerPlacements); got != "1" {
		t.Errorf("placements = %s, want 1", got)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestMergePNGSheet(t *testing.T) {
	s := testServer(t, Config{})

	rec := serve(s, upload(t, "/merge", "logo.png", artwork(t), map[string]string{
		"quantity": "6", "format": "png", "sheet": "2",
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if _, err := png.Decode(bytes.NewReader(rec.Body.Bytes())); err != nil {
		t.Fatalf("png.Decode: %v", err)
	}

	rec = serve(s, upload(t, "/merge", "logo.png", artwork(t), map[string]string{
		"quantity": "6", "format": "png", "sheet": "3",
	}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("out of range sheet: status = %d", rec.Code)
	}
}

func TestPlan(t *testing.T) {
	s := testServer(t, Config{})
	rec := serve(s, upload(t, "/plan", "logo.png", artwork(t), map[string]string{
		"quantity": "5", "rotate": "true",
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var out struct {
		Rotate   bool `json:"rotate"`
		Quantity int  `json:"quantity"`
		Source   struct {
			Format string `json:"format"`
		} `json:"source"`
		Summary layout.Summary `json:"summary"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if !out.Rotate || out.Quantity != 5 {
		t.Errorf("rotate=%v quantity=%d", out.Rotate, out.Quantity)
	}
	if out.Source.Format != "png" {
		t.Errorf("source format = %q", out.Source.Format)
	}
	if out.Summary.Sheets != 2 || out.Summary.PerSheet != 4 {
		t.Errorf("summary = %+v", out.Summary)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		fields   map[string]string
		status   int
		code     errs.Code
	}{
		{"missing file", "", nil, nil, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"bad filename", `lo"go.png`, []byte("x"), nil, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"bad quantity", "logo.png", nil, map[string]string{"quantity": "many"}, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"negative quantity", "logo.png", nil, map[string]string{"quantity": "-2"}, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"bad rotate", "logo.png", nil, map[string]string{"rotate": "sideways"}, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"bad format", "logo.png", nil, map[string]string{"format": "docx"}, http.StatusBadRequest, errs.ErrCodeInvalidFormat},
		{"unknown preset", "logo.png", nil, map[string]string{"preset": "poster"}, http.StatusBadRequest, errs.ErrCodeInvalidPreset},
		{"unsupported upload", "notes.txt", []byte("hello"), nil, http.StatusUnsupportedMediaType, errs.ErrCodeUnsupported},
		{"too large", "logo.png", nil, map[string]string{"sheet_width": "1", "sheet_height": "1"}, http.StatusUnprocessableEntity, errs.ErrCodeArtifactTooLarge},
		{"limit", "logo.png", nil, map[string]string{"quantity": "500"}, http.StatusUnprocessableEntity, errs.ErrCodeQuantityExceedsLimit},
		{"empty pdf", "logo.png", nil, map[string]string{"quantity": "0", "format": "pdf"}, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"empty png", "logo.png", nil, map[string]string{"quantity": "0", "format": "png"}, http.StatusBadRequest, errs.ErrCodeInvalidInput},
		{"infinite sheet", "logo.png", nil, map[string]string{"sheet_width": "Inf"}, http.StatusBadRequest, errs.ErrCodeInvalidSheetSpec},
		{"overflowing density", "logo.png", nil, map[string]string{"density": "1e10", "gap": "0", "quantity": "5"}, http.StatusBadRequest, errs.ErrCodeInvalidInput},
	}

	s := testServer(t, Config{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.data
			if data == nil && tt.filename != "" {
				data = artwork(t)
			}
			rec := serve(s, upload(t, "/merge", tt.filename, data, tt.fields))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
			if body := decodeError(t, rec); body.Code != tt.code {
				t.Errorf("code = %s, want %s", body.Code, tt.code)
			}
		})
	}
}

func TestLimitErrorDetails(t *testing.T) {
	s := testServer(t, Config{})
	rec := serve(s, upload(t, "/merge", "logo.png", artwork(t), map[string]string{"quantity": "500"}))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422 (body %s)", rec.Code, rec.Body.String())
	}
	body := decodeError(t, rec)
	for _, key := range []string{"max_quantity", "max_sheets", "required_sheets"} {
		if _, ok := body.Details[key]; !ok {
			t.Errorf("details %v missing %q", body.Details, key)
		}
	}
}

func TestUploadTooLarge(t *testing.T) {
	s := testServer(t, Config{MaxUploadBytes: 1024})
	rec := serve(s, upload(t, "/merge", "logo.png", bytes.Repeat([]byte{0}, 4096), nil))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
}

func TestNotMultipart(t *testing.T) {
	s := testServer(t, Config{})
	req := httptest.NewRequest(http.MethodPost, "/merge", strings.NewReader(`{"quantity":1}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(s, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	s := testServer(t, Config{AllowedOrigins: []string{"https://shop.example"}})
	req := httptest.NewRequest(http.MethodOptions, "/merge", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := serve(s, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	if rec := serve(testServer(t, Config{}), httptest.NewRequest(http.MethodGet, "/metrics", nil)); rec.Code != http.StatusNotFound {
		t.Errorf("metrics disabled: status = %d, want 404", rec.Code)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "gangsheet_test_total", Help: "test"}))
	rec := serve(testServer(t, Config{Metrics: reg}), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "gangsheet_test_total") {
		t.Error("metrics output missing registered collector")
	}
}
