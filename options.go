package modeladaptor

import (
	"fmt"
	"strings"
)

// LoopMode controls how mappings are iterated by Iterable.
type LoopMode int

const (
	// LoopModeDefault iterates a mapping over its entries.
	LoopModeDefault LoopMode = iota
	// LoopModeList treats everything as a list, so a mapping is a single element.
	LoopModeList
)

func (m LoopMode) String() string {
	switch m {
	case LoopModeDefault:
		return "DEFAULT"
	case LoopModeList:
		return "LIST"
	default:
		return fmt.Sprintf("LoopMode(%d)", int(m))
	}
}

// ParseLoopMode parses "default" or "list" (case-insensitive).
func ParseLoopMode(s string) (LoopMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "DEFAULT":
		return LoopModeDefault, nil
	case "LIST":
		return LoopModeList, nil
	default:
		return LoopModeDefault, fmt.Errorf("unknown loop mode %q", s)
	}
}

// DefaultSpecialIteratorVariable is the name of the per-iteration index variable.
const DefaultSpecialIteratorVariable = "_it"

// Options configures an Adaptor. Options are read once by New.
type Options struct {
	// Iteration
	LoopMode                LoopMode // How mappings are iterated (default: LoopModeDefault)
	SpecialIteratorVariable string   // Name of the loop index pseudo-variable (default: "_it")

	// EnableSlowMapAccess scans all entries by string form of the key when a direct
	// mapping lookup misses (default: true). Never applies to ScopedMap.
	EnableSlowMapAccess bool

	// Logging configuration
	LogLevel      string // Log level: "error", "warn", "info", "debug" (default: "warn")
	LogTimeFormat string // strftime layout for timestamps, "-" disables them
	Logger        Logger // Overrides LogLevel/LogTimeFormat when set; output goes to stderr otherwise
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		LoopMode:                LoopModeDefault,
		SpecialIteratorVariable: DefaultSpecialIteratorVariable,
		EnableSlowMapAccess:     true,
		LogLevel:                "warn",
		LogTimeFormat:           DefaultLogTimeFormat,
	}
}

func (o Options) logger() Logger {
	if o.Logger != nil {
		return o.Logger
	}
	timeFormat := o.LogTimeFormat
	switch timeFormat {
	case "":
		timeFormat = DefaultLogTimeFormat
	case "-":
		timeFormat = ""
	}
	return newLogger(ParseLogLevel(o.LogLevel), nil, timeFormat)
}
