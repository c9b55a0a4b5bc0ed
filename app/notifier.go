package app

import (
	"context"
	"time"

	"github.com/tendermint/tendermint/libs/common"
)

// Event describes a committed transaction.
type Event struct {
	Height int64           `json:"height"`
	Time   time.Time       `json:"time"`
	Path   string          `json:"path"`
	Tags   []common.KVPair `json:"tags"`
}

// TagValue returns the value of the first tag with given key, or an empty
// string.
func (e Event) TagValue(key string) string {
	for _, t := range e.Tags {
		if string(t.Key) == key {
			return string(t.Value)
		}
	}
	return ""
}

// Notifier publishes committed events. A notification is sent only after
// the change was committed, so a failure cannot revert it.
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// Notifiers fans an event out to all its members in order. All members are
// notified even if some fail. The first error is returned.
type Notifiers []Notifier

var _ Notifier = Notifiers(nil)

func (ns Notifiers) Notify(ctx context.Context, e Event) error {
	var first error
	for _, n := range ns {
		if err := n.Notify(ctx, e); err != nil && first == nil {
			first = err
		}
	}
	return first
}
