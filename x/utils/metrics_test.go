package utils

import (
	"context"
	"testing"

	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	ctx := context.Background()
	db := store.MemStore()
	tx := &vaulttest.Tx{Msg: &vaulttest.Msg{RoutePath: "test/count"}}

	ok := &vaulttest.Handler{}
	failing := &vaulttest.Handler{CheckErr: errors.ErrHuman, DeliverErr: errors.ErrHuman}

	for i := 0; i < 3; i++ {
		_, err := m.Deliver(ctx, db, tx, ok)
		assert.NoError(t, err)
	}
	_, err := m.Deliver(ctx, db, tx, failing)
	assert.Error(t, err)
	_, err = m.Check(ctx, db, tx, failing)
	assert.Error(t, err)

	human := "7" // ErrHuman
	assert.Equal(t, 3.0, testutil.ToFloat64(m.calls.WithLabelValues("deliver", "test/count", "0")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("deliver", "test/count", human)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("check", "test/count", human)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}
