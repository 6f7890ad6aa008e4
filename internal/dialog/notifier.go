package dialog

import (
	"github.com/rs/zerolog"
)

// Notifier surfaces outcomes to the user (a toast in the UI).
type Notifier interface {
	Success(msg string)
	Error(msg string, err error)
}

// LogNotifier writes notifications to a zerolog logger.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (n LogNotifier) Success(msg string) {
	n.Logger.Info().Msg(msg)
}

func (n LogNotifier) Error(msg string, err error) {
	n.Logger.Error().Err(err).Msg(msg)
}
