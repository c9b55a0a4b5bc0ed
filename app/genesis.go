package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// Genesis is the initial state of the ledger.
type Genesis struct {
	ChainID string `json:"chain_id"`
	// GenesisTime is used as the block time of the initialization.
	GenesisTime vault.UnixTime `json:"genesis_time"`
	// AppState is passed to every extension initializer.
	AppState vault.Options `json:"app_state"`
}

func (g *Genesis) Validate() error {
	var errs error
	if !vault.IsValidChainID(g.ChainID) {
		errs = errors.AppendField(errs, "ChainID", errors.Wrapf(errors.ErrInput, "invalid chain id: %q", g.ChainID))
	}
	errs = errors.AppendField(errs, "GenesisTime", g.GenesisTime.Validate())
	return errs
}

// LoadGenesis reads the genesis from a JSON file.
func LoadGenesis(path string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "read genesis file: %s", err)
	}
	return ParseGenesis(raw)
}

// ParseGenesis decodes and validates a JSON serialized genesis.
func ParseGenesis(raw []byte) (*Genesis, error) {
	var g Genesis
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "decode genesis: %s", err)
	}
	if err := g.Validate(); err != nil {
		return nil, errors.Wrap(err, "genesis")
	}
	return &g, nil
}
