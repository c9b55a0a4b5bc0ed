package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/iov-one/vault/app"
	"github.com/iov-one/vault/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

func testEvent() app.Event {
	return app.Event{
		Height: 7,
		Time:   time.Date(2026, time.March, 1, 13, 0, 0, 0, time.UTC),
		Path:   "multisig/approve",
		Tags: []common.KVPair{
			{Key: []byte("action"), Value: []byte("approve")},
			{Key: []byte("txid"), Value: []byte("3")},
		},
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogger(log.NewTMLogger(&buf))

	require.NoError(t, n.Notify(context.Background(), testEvent()))

	out := buf.String()
	assert.Contains(t, out, "event")
	assert.Contains(t, out, "height=7")
	assert.Contains(t, out, "path=multisig/approve")
	assert.Contains(t, out, "action=approve")
	assert.Contains(t, out, "txid=3")
}

type recordingStream struct {
	args []*redis.XAddArgs
	err  error
}

func (r *recordingStream) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	r.args = append(r.args, a)
	return redis.NewStringResult(fmt.Sprintf("%d-0", len(r.args)), r.err)
}

func TestRedisStream(t *testing.T) {
	rec := &recordingStream{}
	n := NewRedisStream(rec, "", 1000)

	require.NoError(t, n.Notify(context.Background(), testEvent()))
	require.NoError(t, n.Notify(context.Background(), testEvent()))
	require.Len(t, rec.args, 2)

	got := rec.args[0]
	assert.Equal(t, DefaultStream, got.Stream)
	assert.Equal(t, int64(1000), got.MaxLen)
	assert.True(t, got.Approx)

	values := got.Values.(map[string]interface{})
	assert.Equal(t, "7", values["height"])
	assert.Equal(t, "multisig/approve", values["path"])
	assert.Equal(t, testEvent().Time.Unix(), values["time"])

	var tags []Tag
	require.NoError(t, json.Unmarshal([]byte(values["tags"].(string)), &tags))
	assert.Equal(t, []Tag{{Key: "action", Value: "approve"}, {Key: "txid", Value: "3"}}, tags)

	_, err := uuid.Parse(values["id"].(string))
	assert.NoError(t, err)
	assert.NotEqual(t, values["id"], rec.args[1].Values.(map[string]interface{})["id"])
}

func TestRedisStreamFailure(t *testing.T) {
	rec := &recordingStream{err: fmt.Errorf("connection refused")}
	n := NewRedisStream(rec, "custom", 0)

	err := n.Notify(context.Background(), testEvent())
	assert.True(t, errors.ErrDatabase.Is(err))
	assert.Equal(t, "custom", rec.args[0].Stream)
	assert.Equal(t, int64(0), rec.args[0].MaxLen)
}

func TestRedisStreamKeepsRepeatedTags(t *testing.T) {
	rec := &recordingStream{}
	n := NewRedisStream(rec, "", 0)

	e := testEvent()
	e.Path = "multisig/execute"
	e.Tags = []common.KVPair{
		{Key: []byte("action"), Value: []byte("execute")},
		{Key: []byte("owner"), Value: []byte("A")},
		{Key: []byte("action"), Value: []byte("add_owner")},
		{Key: []byte("owner"), Value: []byte("C")},
	}
	require.NoError(t, n.Notify(context.Background(), e))

	var tags []Tag
	raw := rec.args[0].Values.(map[string]interface{})["tags"].(string)
	require.NoError(t, json.Unmarshal([]byte(raw), &tags))
	assert.Equal(t, []Tag{
		{Key: "action", Value: "execute"},
		{Key: "owner", Value: "A"},
		{Key: "action", Value: "add_owner"},
		{Key: "owner", Value: "C"},
	}, tags)
}
