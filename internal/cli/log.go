package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a text logger with "HH:MM:SS.ms" timestamps
// (e.g. "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// logFormatters maps the log.format config values to formatters.
var logFormatters = map[string]log.Formatter{
	"text":   log.TextFormatter,
	"json":   log.JSONFormatter,
	"logfmt": log.LogfmtFormatter,
}

// setLogFormat switches l to the named format. Machine-readable formats
// get RFC 3339 timestamps.
func setLogFormat(l *log.Logger, format string) {
	f, ok := logFormatters[format]
	if !ok {
		return
	}
	l.SetFormatter(f)
	if f != log.TextFormatter {
		l.SetTimeFormat(time.RFC3339Nano)
	}
}

// progress tracks the start time of an operation and logs completion with
// elapsed duration. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Read tree.json (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
