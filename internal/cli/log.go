package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Log formats accepted by --log-format and log_format.
const (
	LogText   = "text"
	LogJSON   = "json"
	LogLogfmt = "logfmt"
)

var logFormatters = map[string]log.Formatter{
	LogText:   log.TextFormatter,
	LogJSON:   log.JSONFormatter,
	LogLogfmt: log.LogfmtFormatter,
}

// newLogger returns a text logger stamped "15:04:05.00". The root pre-run
// switches the formatter once the config is loaded; serve deployments usually
// pick json.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one job and logs the elapsed duration when it finishes.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs "msg (1.234s)" followed by keyvals.
func (p *progress) done(msg string, keyvals ...any) {
	elapsed := time.Since(p.start).Round(time.Millisecond)
	p.logger.Info(msg+" ("+elapsed.String()+")", keyvals...)
}

type loggerKey struct{}

// withLogger attaches l to ctx for the pipeline stages a command runs.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger set by withLogger, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
