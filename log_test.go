package modeladaptor

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]LogLevel{
		"error": LevelError, "WARN": LevelWarn, "warning": LevelWarn,
		"Info": LevelInfo, "debug": LevelDebug, "bogus": LevelWarn,
	} {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v; want %v", in, got, want)
		}
	}
}

func TestTextFormatter(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	line := string(lineFormat{timeFormat: "%Y-%m-%d %H:%M:%S"}.format(ts, LevelWarn, "hello",
		Ctx("a", 1, "b", "two words", "kind", ErrNotArray)))
	want := `[WARN] 2024-03-09 14:05:07 hello a=1 b="two words" kind=not-array-error` + "\n"
	if line != want {
		t.Errorf("format = %q; want %q", line, want)
	}

	line = string(lineFormat{}.format(ts, LevelDebug, "plain", nil))
	if line != "[DEBUG] plain\n" {
		t.Errorf("format without timestamp = %q", line)
	}
}

func TestLogger_LevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(LevelInfo, &buf, "")

	l.Debugf("hidden %d", 1)
	l.Infof("shown %d", 2)
	child := l.With(map[string]any{"type": "person", "b": 1})
	child.Warnf("from child")
	child.With(map[string]any{"type": "address", "a": 0}).Warnf("grandchild")
	l.Errorf("parent again")

	want := "[INFO] shown 2\n" +
		"[WARN] from child b=1 type=person\n" +
		"[WARN] grandchild a=0 b=1 type=address\n" +
		"[ERROR] parent again\n"
	if got := buf.String(); got != want {
		t.Errorf("log output = %q; want %q", got, want)
	}
}

func TestAdaptor_LogsIntrospectionAtDebug(t *testing.T) {
	var buf bytes.Buffer
	a := New(Options{Logger: newLogger(LevelDebug, &buf, ""), EnableSlowMapAccess: true})

	a.Resolve(map[string]any{"p": person{Age: 3}}, []string{"p", "age"}, nil, nil)
	a.Resolve(map[string]any{"p": person{Age: 4}}, []string{"p", "age"}, nil, nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines; want 1 (only the cache miss):\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "member=Age") || !strings.Contains(lines[0], "property=age") {
		t.Errorf("unexpected log line %q", lines[0])
	}
}

func TestNopLogger(t *testing.T) {
	l := NopLogger()
	l.Errorf("nothing")
	if l.With(map[string]any{"a": 1}) != l {
		t.Error("NopLogger.With should return itself")
	}
	if logEnabled(l, LevelError) {
		t.Error("NopLogger reports LevelError as enabled")
	}
}

func TestAdaptor_SkipsIntrospectionLogAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	a := New(Options{Logger: newLogger(LevelInfo, &buf, "")})
	a.Resolve(person{Age: 3}, []string{"age"}, nil, nil)
	if buf.Len() != 0 {
		t.Errorf("unexpected log output %q", buf.String())
	}
	if !logEnabled(struct{ Logger }{NopLogger()}, LevelDebug) {
		t.Error("loggers without Enabled are treated as enabled")
	}
}
