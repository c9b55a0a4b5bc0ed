package notify

import (
	"context"

	"github.com/iov-one/vault/app"
	"github.com/tendermint/tendermint/libs/log"
)

// Logger writes every event as a single info log entry.
type Logger struct {
	logger log.Logger
}

var _ app.Notifier = (*Logger)(nil)

func NewLogger(logger log.Logger) *Logger {
	return &Logger{logger: logger.With("module", "notify")}
}

func (l *Logger) Notify(ctx context.Context, e app.Event) error {
	keyvals := make([]interface{}, 0, 4+2*len(e.Tags))
	keyvals = append(keyvals, "height", e.Height, "path", e.Path)
	for _, t := range e.Tags {
		keyvals = append(keyvals, string(t.Key), string(t.Value))
	}
	l.logger.Info("event", keyvals...)
	return nil
}
