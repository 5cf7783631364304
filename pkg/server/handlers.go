package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/gangsheet/pkg/buildinfo"
	errs "github.com/matzehuels/gangsheet/pkg/errors"
	"github.com/matzehuels/gangsheet/pkg/observability"
	"github.com/matzehuels/gangsheet/pkg/pipeline"
	"github.com/matzehuels/gangsheet/pkg/render/sink"
)

const (
	headerSheets     = "X-Gangsheet-Sheets"
	headerPlacements = "X-Gangsheet-Placements"

	// multipartMemory is how much of an upload is held in memory before
	// spilling to temp files.
	multipartMemory = 8 << 20
)

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "gangsheet is running\n")
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	bi := buildinfo.Get()
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": bi.Version,
		"commit":  bi.ShortCommit(),
	})
}

func (s *Server) handlePresets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.runner.Presets.Sorted())
}

func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	data, opts, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := strings.ToLower(strings.TrimSpace(r.FormValue("format")))
	if format == "" {
		format = pipeline.DefaultFormat
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}

	sheet := 1
	if v := r.FormValue("sheet"); v != "" && format == pipeline.FormatPNG {
		if sheet, err = strconv.Atoi(v); err != nil || sheet < 1 {
			s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "sheet must be a positive integer, got %q", v))
			return
		}
	}

	result, err := s.runner.Execute(r.Context(), data, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body := result.Artifacts[format]
	if format == pipeline.FormatPNG && len(result.Pages) > 0 {
		if sheet > len(result.Pages) {
			s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput,
				"sheet %d out of range, plan has %d sheets", sheet, len(result.Pages)))
			return
		}
		body = result.Pages[sheet-1]
	}

	h := w.Header()
	h.Set("Content-Type", pipeline.ContentTypes[format])
	h.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="gangsheet.%s"`, format))
	h.Set(headerSheets, strconv.Itoa(result.Stats.Sheets))
	h.Set(headerPlacements, strconv.Itoa(result.Stats.Placements))
	h.Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	data, opts, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Plan(r.Context(), data, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body, err := sink.RenderJSON(result.Plan, sink.WithJSONSource(result.Source))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[pipeline.FormatJSON])
	w.Header().Set(headerSheets, strconv.Itoa(result.Stats.Sheets))
	w.Header().Set(headerPlacements, strconv.Itoa(result.Stats.Placements))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// readUpload reads the "file" part and the planning fields of a multipart
// request. Spilled temp files are removed before it returns.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, pipeline.Options, error) {
	var opts pipeline.Options

	if r.ContentLength > s.cfg.MaxUploadBytes {
		return nil, opts, errUploadTooLarge{limit: s.cfg.MaxUploadBytes}
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, opts, errUploadTooLarge{limit: tooBig.Limit}
		}
		return nil, opts, errs.Wrap(errs.ErrCodeInvalidInput, err, "expected multipart/form-data upload")
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	f, hdr, err := r.FormFile("file")
	if err != nil {
		return nil, opts, errs.New(errs.ErrCodeInvalidInput, "missing file upload")
	}
	defer f.Close()
	if err := errs.ValidateUploadFilename(hdr.Filename); err != nil {
		return nil, opts, err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, opts, errs.Wrap(errs.ErrCodeInvalidInput, err, "read upload")
	}

	if opts, err = parseOptions(r); err != nil {
		return nil, opts, err
	}
	opts.Logger = s.logger.With("request_id", middleware.GetReqID(r.Context()))
	return data, opts, nil
}

// parseOptions maps form fields onto pipeline options. Empty fields keep
// their zero values so the runner's defaults apply.
func parseOptions(r *http.Request) (pipeline.Options, error) {
	p := formParser{r: r}
	opts := pipeline.Options{
		Quantity:    1,
		Preset:      strings.TrimSpace(r.FormValue("preset")),
		Title:       r.FormValue("title"),
		Rotate:      p.bool("rotate"),
		CutMarks:    p.bool("cut_marks"),
		SheetWidth:  p.float("sheet_width"),
		SheetHeight: p.float("sheet_height"),
		Margin:      p.optFloat("margin"),
		Gap:         p.optFloat("gap"),

		DefaultDensity: p.float("density"),
	}
	if v := r.FormValue("quantity"); v != "" {
		opts.Quantity = p.int("quantity")
	}
	opts.Page = p.int("page")
	if p.err != nil {
		return opts, p.err
	}
	return opts, nil
}

// formParser collects the first conversion error across several fields.
type formParser struct {
	r   *http.Request
	err error
}

func (p *formParser) value(name string) string {
	return strings.TrimSpace(p.r.FormValue(name))
}

func (p *formParser) fail(name, v, want string) {
	if p.err == nil {
		p.err = errs.New(errs.ErrCodeInvalidInput, "%s must be %s, got %q", name, want, v)
	}
}

func (p *formParser) int(name string) int {
	v := p.value(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(name, v, "an integer")
	}
	return n
}

func (p *formParser) float(name string) float64 {
	v := p.value(name)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(name, v, "a number")
	}
	return f
}

func (p *formParser) optFloat(name string) *float64 {
	if p.value(name) == "" {
		return nil
	}
	return pipeline.Float(p.float(name))
}

func (p *formParser) bool(name string) bool {
	v := p.value(name)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(name, v, "true or false")
	}
	return b
}

// errUploadTooLarge is returned when the body exceeds MaxUploadBytes.
type errUploadTooLarge struct{ limit int64 }

func (e errUploadTooLarge) Error() string {
	return fmt.Sprintf("upload exceeds %d bytes", e.limit)
}

type errorBody struct {
	Code    errs.Code      `json:"code"`
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)

	var tooBig errUploadTooLarge
	if errors.As(err, &tooBig) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Code: errs.ErrCodeInvalidInput, Error: err.Error()})
		return
	}

	status := errs.HTTPStatus(err)
	body := errorBody{Code: errs.GetCode(err), Error: errs.UserMessage(err), Details: errs.DetailsOf(err)}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err, "request_id", middleware.GetReqID(r.Context()))
		body = errorBody{Code: errs.ErrCodeInternal, Error: "internal server error"}
	}
	if body.Code == "" {
		body.Code = errs.ErrCodeInternal
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
