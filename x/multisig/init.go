package multisig

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/gconf"
	"github.com/iov-one/vault/x/code"
)

const optKey = "multisig"

// WalletCode is the code deployed at the wallet address on creation.
const WalletCode = "multisig/v1"

// GenesisWallet declares the wallet created from genesis. Delays that are
// not declared are taken from the configuration.
type GenesisWallet struct {
	Owners         []vault.Address     `json:"owners"`
	Required       uint32              `json:"required"`
	ExecutionDelay *vault.UnixDuration `json:"execution_delay,omitempty"`
	UpgradeDelay   *vault.UnixDuration `json:"upgrade_delay,omitempty"`
}

// Initializer creates the wallet and its configuration from genesis.
type Initializer struct{}

var _ vault.Initializer = Initializer{}

// FromGenesis stores the configuration, falling back to the default one,
// and creates the wallet if declared. A wallet can be created only once.
func (Initializer) FromGenesis(ctx vault.Context, opts vault.Options, db vault.KVStore) error {
	conf := DefaultConfiguration()
	switch err := gconf.InitConfig(db, opts, confPkg, &conf); {
	case err == nil:
	case errors.ErrNotFound.Is(err):
		if err := gconf.Save(db, confPkg, &conf); err != nil {
			return errors.Wrap(err, "save default configuration")
		}
	default:
		return errors.Wrap(err, "init configuration")
	}

	if _, ok := opts[optKey]; !ok {
		return nil
	}
	var gw GenesisWallet
	if err := opts.ReadOptions(optKey, &gw); err != nil {
		return err
	}
	return Deploy(ctx, db, NewStore(), code.NewStore(), gw)
}

// Deploy creates the wallet. It fails with ErrAlreadyDeployed if a wallet
// or any code already exists at the wallet address.
func Deploy(ctx vault.Context, db vault.KVStore, store *Store, codes CodeStore, gw GenesisWallet) error {
	if ok, err := store.IsDeployed(db); err != nil {
		return err
	} else if ok {
		return ErrAlreadyDeployed
	}
	conf, err := loadConf(db)
	if err != nil {
		return err
	}
	w := Wallet{
		Required:       gw.Required,
		ExecutionDelay: conf.ExecutionDelay,
		UpgradeDelay:   conf.UpgradeDelay,
	}
	if gw.ExecutionDelay != nil {
		w.ExecutionDelay = *gw.ExecutionDelay
	}
	if gw.UpgradeDelay != nil {
		w.UpgradeDelay = *gw.UpgradeDelay
	}

	var now vault.UnixTime
	if t, err := vault.BlockTime(ctx); err == nil {
		now = vault.AsUnixTime(t)
	}
	for i, o := range gw.Owners {
		if err := store.AddOwner(db, &w, o, now); err != nil {
			return errors.Wrapf(err, "owner %d", i)
		}
	}
	if err := store.SaveWallet(db, &w); err != nil {
		return errors.Wrap(err, "wallet")
	}
	if err := codes.Deploy(db, SelfAddress(), []byte(WalletCode)); err != nil {
		if code.ErrAlreadyExists.Is(err) {
			return errors.Wrap(ErrAlreadyDeployed, "wallet code")
		}
		return err
	}
	return nil
}
