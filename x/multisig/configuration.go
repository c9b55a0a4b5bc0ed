package multisig

import (
	"time"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/gconf"
	"github.com/iov-one/vault/x"
)

const confPkg = "multisig"

// Configuration holds the defaults applied when a wallet is created and the
// limits enforced on submitted transactions.
type Configuration struct {
	// Owner is allowed to change the configuration. Default configuration
	// is owned by the wallet itself.
	Owner vault.Address `json:"owner"`
	// ExecutionDelay and UpgradeDelay are used when the genesis does not
	// declare the wallet delays.
	ExecutionDelay vault.UnixDuration `json:"execution_delay"`
	UpgradeDelay   vault.UnixDuration `json:"upgrade_delay"`
	// MaxPayloadSize limits the payload of a submitted transaction.
	MaxPayloadSize uint32 `json:"max_payload_size"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

// DefaultConfiguration is used when no configuration was stored.
func DefaultConfiguration() Configuration {
	return Configuration{
		Owner:          SelfAddress(),
		ExecutionDelay: vault.AsUnixDuration(time.Hour),
		UpgradeDelay:   vault.AsUnixDuration(24 * time.Hour),
		MaxPayloadSize: 64 * 1024,
	}
}

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	if c.MaxPayloadSize == 0 {
		errs = errors.AppendField(errs, "MaxPayloadSize", errors.ErrEmpty)
	}
	return errs
}

func (c *Configuration) Marshal() ([]byte, error) {
	return vault.Marshal(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return vault.Unmarshal(raw, c)
}

func (c *Configuration) GetOwner() vault.Address {
	return c.Owner
}

// loadConf returns the stored configuration or the default one.
func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, confPkg, &conf); {
	case err == nil:
		return &conf, nil
	case errors.ErrNotFound.Is(err):
		def := DefaultConfiguration()
		return &def, nil
	default:
		return nil, errors.Wrap(err, "load configuration")
	}
}

// NewConfigHandler returns a handler of UpdateConfigurationMsg. As the
// default configuration is owned by the wallet, changes are made through
// governance transactions.
func NewConfigHandler(auth x.Authenticator) gconf.UpdateConfigurationHandler {
	return gconf.NewUpdateConfigurationHandler(confPkg, &Configuration{}, auth, initConfAdmin)
}

func initConfAdmin(vault.ReadOnlyKVStore) (vault.Address, error) {
	return SelfAddress(), nil
}
