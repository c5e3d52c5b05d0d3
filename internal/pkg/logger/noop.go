package logger

// NewNoop returns a logger that discards everything. Useful in tests and
// in tools that only want stdout output.
func NewNoop() ILogger {
	return noopLogger{}
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }
