package core

// Logger is any service that can log app events at the usual levels.
// Implementations may inspect args for known types (e.g. a user) to
// enrich the report.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}
