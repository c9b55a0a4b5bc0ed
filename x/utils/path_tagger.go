package utils

import (
	"github.com/iov-one/vault"
	"github.com/tendermint/tendermint/libs/common"
)

// PathKey is the tag key under which PathTagger records the message path.
const PathKey = "path"

// PathTagger adds the path of the processed message to the tags of a
// successful delivery, so that subscribers can filter events by message
// type without decoding the transaction.
type PathTagger struct{}

var _ vault.Decorator = PathTagger{}

func NewPathTagger() PathTagger {
	return PathTagger{}
}

func (PathTagger) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx, next vault.Checker) (*vault.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (PathTagger) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx, next vault.Deliverer) (*vault.DeliverResult, error) {
	// Fail early if the message cannot be read.
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, common.KVPair{
		Key:   []byte(PathKey),
		Value: []byte(msg.Path()),
	})
	return res, nil
}
