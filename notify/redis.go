package notify

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
	"github.com/iov-one/vault/app"
	"github.com/iov-one/vault/errors"
	"github.com/redis/go-redis/v9"
)

// DefaultStream is the name of the stream events are appended to.
const DefaultStream = "vault:events"

// StreamAdder is the part of the redis client used by RedisStream.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

var _ StreamAdder = (*redis.Client)(nil)

// RedisStream appends every event to a redis stream. Each entry carries a
// unique id so that consumers can drop duplicates.
type RedisStream struct {
	client StreamAdder
	stream string
	maxLen int64
}

var _ app.Notifier = (*RedisStream)(nil)

// NewRedisStream returns a notifier writing to given stream. A positive
// maxLen caps the stream length approximately.
func NewRedisStream(client StreamAdder, stream string, maxLen int64) *RedisStream {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisStream{client: client, stream: stream, maxLen: maxLen}
}

// Tag is a single event tag as written to the stream. Tags keep the order
// of the event and a key may repeat, for example when an execution carries
// the tags of the executed action after its own.
type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (r *RedisStream) Notify(ctx context.Context, e app.Event) error {
	tags := make([]Tag, len(e.Tags))
	for i, t := range e.Tags {
		tags[i] = Tag{Key: string(t.Key), Value: string(t.Value)}
	}
	rawTags, err := json.Marshal(tags)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	args := &redis.XAddArgs{
		Stream: r.stream,
		Values: map[string]interface{}{
			"id":     uuid.NewString(),
			"height": strconv.FormatInt(e.Height, 10),
			"time":   e.Time.UTC().Unix(),
			"path":   e.Path,
			"tags":   string(rawTags),
		},
	}
	if r.maxLen > 0 {
		args.MaxLen = r.maxLen
		args.Approx = true
	}
	if err := r.client.XAdd(ctx, args).Err(); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "redis XADD %s: %s", r.stream, err)
	}
	return nil
}
