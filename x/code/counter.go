package code

import (
	"encoding/binary"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

// CounterCode is the code value of the Counter contract.
const CounterCode = "counter/v1"

// Counter is a minimal contract that counts the calls of its "increment"
// method. Any other method fails.
type Counter struct{}

var _ Implementation = Counter{}

func counterSequence(contract vault.Address) orm.Sequence {
	return orm.NewSequence("counter", contract.String())
}

func (c Counter) Invoke(ctx vault.Context, db vault.KVStore, call Call) (*vault.DeliverResult, error) {
	if call.Method != "increment" {
		return nil, errors.Wrapf(errors.ErrInput, "unknown method %q", call.Method)
	}
	seq := counterSequence(call.Contract)
	n, err := seq.NextInt(db)
	if err != nil {
		return nil, err
	}
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, n)
	return &vault.DeliverResult{Data: data}, nil
}

// Count returns how many times the counter deployed at given address was
// incremented.
func (c Counter) Count(db vault.ReadOnlyKVStore, contract vault.Address) (uint64, error) {
	seq := counterSequence(contract)
	return seq.Latest(db)
}
