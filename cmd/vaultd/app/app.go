/*
Package app links together all the components of the vault daemon: the
multisig wallet, the bank and contract extensions, signature checks and the
ledger that persists everything.
*/
package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/app"
	"github.com/iov-one/vault/store/iavl"
	"github.com/iov-one/vault/x"
	"github.com/iov-one/vault/x/cash"
	"github.com/iov-one/vault/x/code"
	"github.com/iov-one/vault/x/multisig"
	"github.com/iov-one/vault/x/sigs"
	"github.com/iov-one/vault/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

// Authenticator returns the authentication used by all extensions, just
// using public key signatures.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators handling logging, metrics, recovery
// and signature verification. Metrics are optional.
func Chain(metrics *utils.Metrics) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		metrics,
		utils.NewRecovery(),
		utils.NewPathTagger(),
		// on check, a failing tx must not change the state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
	)
}

// Router returns a router dispatching all messages known to the daemon.
func Router(authFn x.Authenticator) *app.Router {
	bank := cash.NewController(cash.NewBucket())
	codes := code.NewStore()
	invoker := code.NewInvoker(codes, bank)
	invoker.Register(code.CounterCode, code.Counter{})

	r := app.NewRouter()
	cash.RegisterRoutes(r, authFn, bank)
	code.RegisterRoutes(r, authFn, invoker)
	multisig.RegisterRoutes(r, authFn, bank, invoker, codes)
	sigs.RegisterRoutes(r, authFn)
	return r
}

// Stack wires up the router with the decorator chain.
func Stack(metrics *utils.Metrics) vault.Handler {
	authFn := Authenticator()
	return Chain(metrics).WithHandler(Router(authFn))
}

// Initializers returns the genesis initializers of all extensions.
func Initializers() vault.Initializer {
	return vault.ChainInitializers(
		cash.Initializer{},
		code.Initializer{},
		multisig.Initializer{},
	)
}

// NewLedger creates a ledger over the database at given path, processing
// transactions with the full stack.
func NewLedger(dbPath string, metrics *utils.Metrics, logger log.Logger) (*app.Ledger, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return nil, err
	}
	return app.NewLedger(kv, Stack(metrics), logger)
}

// CommitKVStore returns an initialized KVStore that persists the data to
// the named path. An empty path returns a memory store.
func CommitKVStore(dbPath string) (vault.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("invalid database name: %s", path)
	}
	// Some callers add a ".db" extension, which is removed.
	path = strings.TrimSuffix(path, filepath.Ext(path))

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name), nil
}
