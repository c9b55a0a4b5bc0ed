package utils

import (
	"time"

	"github.com/iov-one/vault"
)

// Logging logs every call together with the message path and the time it
// took. Failures are logged as errors, successful checks as debug and
// successful deliveries as info.
type Logging struct{}

var _ vault.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx, next vault.Checker) (*vault.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	var msg string
	if err == nil {
		msg = res.Log
	}
	logCall(ctx, tx, start, msg, err, true)
	return res, err
}

func (Logging) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx, next vault.Deliverer) (*vault.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	var msg string
	if err == nil {
		msg = res.Log
	}
	logCall(ctx, tx, start, msg, err, false)
	return res, err
}

func logCall(ctx vault.Context, tx vault.Tx, start time.Time, msg string, err error, check bool) {
	logger := vault.GetLogger(ctx).With(
		"path", vault.GetPath(tx),
		"duration", time.Since(start)/time.Microsecond,
	)
	switch {
	case err != nil:
		// Message can be empty but the entry still carries the path
		// and the duration.
		logger.Error(msg, "err", err)
	case check:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
