package logger

// Field is a single structured key/value attached to a log entry.
type Field struct {
	Key   string
	Value any
}

// Logger is the logging contract used across the portal.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

// Client is kept as an alias so older call sites keep compiling.
type Client = Logger

// Err is shorthand for the error field every caller attaches.
func Err(err error) Field {
	return Field{Key: "err", Value: err}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...Field) {}
func (nopLogger) Info(string, ...Field)  {}
func (nopLogger) Warn(string, ...Field)  {}
func (nopLogger) Error(string, ...Field) {}
func (n nopLogger) With(...Field) Logger { return n }
