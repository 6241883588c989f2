package logger

// Noop is a logger that discards everything. Useful in tests.
type Noop struct{}

// Ensure Noop implements Interface.
var _ Interface = (*Noop)(nil)

// NewNoop returns a logger that discards all messages.
func NewNoop() *Noop { return &Noop{} }

// Debug discards the message.
func (n *Noop) Debug(string, ...any) {}

// Info discards the message.
func (n *Noop) Info(string, ...any) {}

// Warn discards the message.
func (n *Noop) Warn(string, ...any) {}

// Error discards the message.
func (n *Noop) Error(string, ...any) {}

// With returns the same noop logger.
func (n *Noop) With(...any) Interface { return n }

// WithComponent returns the same noop logger.
func (n *Noop) WithComponent(string) Interface { return n }

// WithError returns the same noop logger.
func (n *Noop) WithError(error) Interface { return n }
