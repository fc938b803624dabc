package notify

import (
	"log/slog"
)

// Level classifies a transient user-facing message.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a transient, user-facing message. Failures are surfaced
// here instead of being rethrown to a global handler.
type Notification struct {
	Level   Level
	Message string
}

// Notifier receives user-facing notifications from services.
type Notifier interface {
	Notify(n Notification)
}

// Func adapts a plain function to a Notifier.
type Func func(n Notification)

func (f Func) Notify(n Notification) { f(n) }

// Logger is a Notifier that writes notifications to a slog logger.
// Used headless and as the fallback sink behind interactive surfaces.
type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

func (l *Logger) Notify(n Notification) {
	switch n.Level {
	case LevelError:
		l.logger.Error(n.Message)
	case LevelWarning:
		l.logger.Warn(n.Message)
	default:
		l.logger.Info(n.Message, "level", string(n.Level))
	}
}

// Multi fans a notification out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(n Notification) {
	for _, sink := range m {
		sink.Notify(n)
	}
}

// Chan is a buffered channel notifier. Interactive surfaces drain C to show
// toasts; when the buffer is full the notification is dropped rather than
// blocking the caller.
type Chan struct {
	C chan Notification
}

func NewChan(size int) *Chan {
	return &Chan{C: make(chan Notification, size)}
}

func (c *Chan) Notify(n Notification) {
	select {
	case c.C <- n:
	default:
	}
}
