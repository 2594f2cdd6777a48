package container

import "fmt"

// Level is the severity of a diagnostic.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	// LevelFatal marks container-consistency bugs such as a failed
	// capability conversion. The container itself never exits.
	LevelFatal
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Sink receives the container's diagnostics. It is called once for every
// structured error raised, plus debug messages tracing the lifecycle.
type Sink interface {
	Report(level Level, msg string)
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(level Level, msg string)

// Report calls f(level, msg).
func (f SinkFunc) Report(level Level, msg string) { f(level, msg) }
