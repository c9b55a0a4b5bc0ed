package vault

import (
	"github.com/iov-one/vault/errors"
	amino "github.com/tendermint/go-amino"
)

// cdc serializes all models, messages and transactions. Messages are
// registered as concrete implementations of the Msg interface, so that a
// message stored in an interface field (a transaction envelope, a governance
// payload) decodes back into its original type.
var cdc = amino.NewCodec()

func init() {
	cdc.RegisterInterface((*Msg)(nil), nil)
}

// RegisterMsg must be called once for every message type, usually from the
// package init function. The name must be unique. Registering the same name
// twice panics.
func RegisterMsg(msg Msg, name string) {
	cdc.RegisterConcrete(msg, name, nil)
}

// Marshal serializes given object using the shared codec.
func Marshal(o interface{}) ([]byte, error) {
	raw, err := cdc.MarshalBinaryBare(o)
	if err != nil {
		return nil, errors.Wrap(errors.ErrType, err.Error())
	}
	return raw, nil
}

// Unmarshal deserializes raw data into given pointer using the shared codec.
func Unmarshal(raw []byte, ptr interface{}) error {
	if err := cdc.UnmarshalBinaryBare(raw, ptr); err != nil {
		return errors.Wrap(errors.ErrType, err.Error())
	}
	return nil
}

// DecodeMsg returns the message serialized by the Marshal method of any
// registered message type.
func DecodeMsg(raw []byte) (Msg, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "message")
	}
	var msg Msg
	if err := Unmarshal(raw, &msg); err != nil {
		return nil, errors.Wrap(err, "cannot decode message")
	}
	return msg, nil
}

// MarshalJSON serializes given object into the amino JSON representation that
// includes the type name of interface values.
func MarshalJSON(o interface{}) ([]byte, error) {
	raw, err := cdc.MarshalJSON(o)
	if err != nil {
		return nil, errors.Wrap(errors.ErrType, err.Error())
	}
	return raw, nil
}

// UnmarshalJSON is the reverse of MarshalJSON.
func UnmarshalJSON(raw []byte, ptr interface{}) error {
	if err := cdc.UnmarshalJSON(raw, ptr); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}
