package modeladaptor

import (
	"errors"
	"sync"
)

// Collector is an ErrorHandler that keeps every report. It is safe for
// concurrent use so one Collector can serve parallel renders.
type Collector struct {
	mu      sync.Mutex
	reports []ErrorReport
}

// Error records the report.
func (c *Collector) Error(kind ErrorKind, token Token, ctx Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports = append(c.reports, ErrorReport{Kind: kind, Token: token, Context: ctx})
}

// Reports returns a copy of the collected reports in arrival order.
func (c *Collector) Reports() []ErrorReport {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ErrorReport, len(c.reports))
	copy(out, c.reports)
	return out
}

// Len returns the number of collected reports.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.reports)
}

// Reset drops all collected reports.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports = nil
}

// Err joins all collected reports into one error, or returns nil when there are none.
// Each joined error is an ErrorReport and can be recovered with errors.As.
func (c *Collector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.reports) == 0 {
		return nil
	}
	errs := make([]error, len(c.reports))
	for i, r := range c.reports {
		errs[i] = r
	}
	return errors.Join(errs...)
}

// LoggingHandler writes each report through a Logger at warn level.
type LoggingHandler struct {
	Logger Logger
}

// NewLoggingHandler returns a handler logging to l, or to a default stderr logger when l is nil.
func NewLoggingHandler(l Logger) *LoggingHandler {
	if l == nil {
		l = NewLogger(LevelWarn, nil)
	}
	return &LoggingHandler{Logger: l}
}

// Error logs the report with its context as fields.
func (h *LoggingHandler) Error(kind ErrorKind, token Token, ctx Context) {
	fields := ctx.Fields()
	fields["kind"] = string(kind)
	if token != nil {
		fields["token"] = token
	}
	h.Logger.With(fields).Warnf("model resolution error")
}

var (
	_ ErrorHandler = (*Collector)(nil)
	_ ErrorHandler = (*LoggingHandler)(nil)
	_ ErrorHandler = NoLogErrorHandler{}
	_ ErrorHandler = ErrorHandlerFunc(nil)
)
