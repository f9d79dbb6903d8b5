package logger

// NoOp discards everything. Used in tests and as the default when a
// component is constructed with a nil logger.
type NoOp struct{}

func (NoOp) Debug(msg string, fields ...any) {}
func (NoOp) Info(msg string, fields ...any)  {}
func (NoOp) Warn(msg string, fields ...any)  {}
func (NoOp) Error(msg string, fields ...any) {}
func (NoOp) Fatal(msg string, fields ...any) {}
func (NoOp) With(fields ...any) Interface    { return NoOp{} }
func (NoOp) Sync() error                     { return nil }

var _ Interface = NoOp{}
