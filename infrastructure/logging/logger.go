// Package logging provides structured logging for billflow using bolt.
package logging

import (
	"os"
	"sync"

	"github.com/felixgeelhaar/bolt/v3"
)

var (
	defaultLogger *bolt.Logger
	once          sync.Once
)

// Config configures the logger.
type Config struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string

	// Format is the output format (json or console).
	Format string

	// Output is the output destination.
	Output *os.File
}

// DefaultConfig returns a configuration suitable for local development.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
		Output: os.Stdout,
	}
}

// ProductionConfig returns a production-ready configuration.
func ProductionConfig() Config {
	return Config{
		Level:  "info",
		Format: "json",
		Output: os.Stdout,
	}
}

// parseLevel converts a string level to bolt.Level.
func parseLevel(s string) bolt.Level {
	switch s {
	case "trace":
		return bolt.TRACE
	case "debug":
		return bolt.DEBUG
	case "info":
		return bolt.INFO
	case "warn":
		return bolt.WARN
	case "error":
		return bolt.ERROR
	default:
		return bolt.INFO
	}
}

// Init initializes the default logger with the given configuration.
func Init(config Config) {
	once.Do(func() {
		output := config.Output
		if output == nil {
			output = os.Stdout
		}

		var handler bolt.Handler
		if config.Format == "json" {
			handler = bolt.NewJSONHandler(output)
		} else {
			handler = bolt.NewConsoleHandler(output)
		}

		defaultLogger = bolt.New(handler).SetLevel(parseLevel(config.Level))
	})
}

// Get returns the default logger, initializing if necessary.
func Get() *bolt.Logger {
	if defaultLogger == nil {
		Init(DefaultConfig())
	}
	return defaultLogger
}

// SetLevel changes the log level of the default logger.
func SetLevel(level string) {
	Get().SetLevel(parseLevel(level))
}

// Event wraps a bolt.Event so domain fields can be chained onto it.
type Event struct {
	event *bolt.Event
}

// Add applies a field to the event and returns the wrapper for chaining.
func (e *Event) Add(f Field) *Event {
	e.event = f(e.event)
	return e
}

// Msg sends the log event with a message.
func (e *Event) Msg(msg string) {
	e.event.Msg(msg)
}

// Convenience constructors per level.

// Debug returns an Event at debug level.
func Debug() *Event {
	return &Event{event: Get().Debug()}
}

// Info returns an Event at info level.
func Info() *Event {
	return &Event{event: Get().Info()}
}

// Warn returns an Event at warn level.
func Warn() *Event {
	return &Event{event: Get().Warn()}
}

// Error returns an Event at error level.
func Error() *Event {
	return &Event{event: Get().Error()}
}
