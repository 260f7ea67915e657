// Package notify delivers user-facing notices such as "playlist published"
// to the desktop.
package notify

import (
	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog"
)

// Notifier shows a short notice to the user.
type Notifier interface {
	Notify(title, message string) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(title, message string) error

// Notify implements Notifier.
func (f NotifierFunc) Notify(title, message string) error {
	return f(title, message)
}

// Desktop sends notifications through the platform notification service.
type Desktop struct {
	AppIcon string
}

// Notify implements Notifier.
func (d Desktop) Notify(title, message string) error {
	return beeep.Notify(title, message, d.AppIcon)
}

// Logged wraps a Notifier so every notice is also logged and delivery
// failures are swallowed after a warning. A nil inner Notifier only logs.
type Logged struct {
	Inner  Notifier
	Logger zerolog.Logger
}

// Notify implements Notifier. It never returns an error.
func (l Logged) Notify(title, message string) error {
	l.Logger.Info().Str("component", "notify").Str("title", title).Msg(message)
	if l.Inner == nil {
		return nil
	}
	if err := l.Inner.Notify(title, message); err != nil {
		l.Logger.Warn().Str("component", "notify").Err(err).Msg("failed to show notification")
	}
	return nil
}

// New returns the notifier tonearm uses: desktop notices when enabled,
// logging only otherwise.
func New(enabled bool, logger zerolog.Logger) Notifier {
	l := Logged{Logger: logger}
	if enabled {
		l.Inner = Desktop{}
	}
	return l
}
