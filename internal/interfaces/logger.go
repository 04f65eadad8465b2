package interfaces

// Logger writes leveled, structured log lines. keyvals alternate between a
// string key and its value.
type Logger interface {
	Info(msg string, keyvals ...interface{})
	Warn(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
	Debug(msg string, keyvals ...interface{})
	SetLevel(level string)
	// WithContext returns a child logger that adds fields to every line.
	WithContext(fields map[string]interface{}) Logger
}
