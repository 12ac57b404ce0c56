package modeladaptor

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/itchyny/timefmt-go"
)

// LogLevel represents the severity level for logs.
type LogLevel int

const (
	LevelError LogLevel = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

func (l LogLevel) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a level name. Unknown names select LevelWarn.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(s) {
	case "ERROR":
		return LevelError
	case "WARN", "WARNING":
		return LevelWarn
	case "INFO":
		return LevelInfo
	case "DEBUG":
		return LevelDebug
	default:
		return LevelWarn
	}
}

// Logger is the interface used by the adaptor and LoggingHandler.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)

	// With returns a child logger carrying fields in addition to the parent's.
	With(fields map[string]any) Logger
}

// levelLogger is implemented by loggers that can tell ahead of time whether a
// level is written, so callers can skip building fields.
type levelLogger interface {
	Enabled(level LogLevel) bool
}

func logEnabled(l Logger, level LogLevel) bool {
	if ll, ok := l.(levelLogger); ok {
		return ll.Enabled(level)
	}
	return true
}

// DefaultLogTimeFormat is the strftime layout used for log timestamps.
const DefaultLogTimeFormat = "%Y-%m-%dT%H:%M:%S.%f%z"

// lineFormat renders one record as
//
//	[LEVEL] ts msg key1=val1 key2=val2
//
// with fields in key order. An empty timeFormat omits the timestamp.
type lineFormat struct {
	timeFormat string
}

func (f lineFormat) format(ts time.Time, level LogLevel, msg string, fields Context) []byte {
	var b strings.Builder
	b.Grow(64 + 16*len(fields))

	b.WriteString("[" + level.String() + "] ")
	if f.timeFormat != "" {
		b.WriteString(timefmt.Format(ts.UTC(), f.timeFormat))
		b.WriteByte(' ')
	}
	b.WriteString(msg)
	if len(fields) > 0 {
		b.WriteByte(' ')
		b.WriteString(fields.String())
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

func safeSprint(v any) string {
	switch t := v.(type) {
	case string:
		if strings.IndexFunc(t, func(r rune) bool { return r <= ' ' }) >= 0 {
			return fmt.Sprintf("%q", t)
		}
		return t
	case fmt.Stringer:
		return t.String()
	case error:
		return safeSprint(t.Error())
	default:
		return fmt.Sprint(v)
	}
}

// textLogger writes lineFormat records. Children created by With share the
// writer and its lock.
type textLogger struct {
	out    io.Writer
	mu     *sync.Mutex
	level  LogLevel
	line   lineFormat
	fields Context // sorted by key, keys unique
}

// NewLogger creates a text logger writing records at or above level to w,
// or to os.Stderr when w is nil.
func NewLogger(level LogLevel, w io.Writer) Logger {
	return newLogger(level, w, DefaultLogTimeFormat)
}

func newLogger(level LogLevel, w io.Writer, timeFormat string) *textLogger {
	if w == nil {
		w = os.Stderr
	}
	return &textLogger{
		out:   w,
		mu:    &sync.Mutex{},
		level: level,
		line:  lineFormat{timeFormat: timeFormat},
	}
}

// Enabled reports whether records of level are written.
func (l *textLogger) Enabled(level LogLevel) bool {
	return level <= l.level
}

func (l *textLogger) With(fields map[string]any) Logger {
	if len(fields) == 0 {
		return l
	}
	merged := make(Context, 0, len(l.fields)+len(fields))
	for _, kv := range l.fields {
		if _, replaced := fields[kv.Key]; !replaced {
			merged = append(merged, kv)
		}
	}
	for k, v := range fields {
		merged = append(merged, KeyValue{Key: k, Value: v})
	}
	slices.SortFunc(merged, func(a, b KeyValue) int { return cmp.Compare(a.Key, b.Key) })

	child := *l
	child.fields = merged
	return &child
}

func (l *textLogger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *textLogger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *textLogger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *textLogger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

func (l *textLogger) logf(level LogLevel, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	line := l.line.format(time.Now(), level, fmt.Sprintf(format, args...), l.fields)

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write(line)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)       {}
func (nopLogger) Infof(string, ...any)        {}
func (nopLogger) Warnf(string, ...any)        {}
func (nopLogger) Errorf(string, ...any)       {}
func (n nopLogger) With(map[string]any) Logger { return n }
func (nopLogger) Enabled(LogLevel) bool       { return false }

// NopLogger returns a logger that discards all output.
func NopLogger() Logger {
	return nopLogger{}
}
