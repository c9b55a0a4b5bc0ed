package commands

import (
	"bytes"
	"context"
	"io/ioutil"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/app"
	"github.com/iov-one/vault/cmd/vaultd/api"
	vaultd "github.com/iov-one/vault/cmd/vaultd/app"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/vaulttest"
	"github.com/iov-one/vault/x/multisig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(ioutil.Discard)
	err := root.Execute()
	return out.String(), err
}

func TestLoadConfig(t *testing.T) {
	home := t.TempDir()
	conf := []byte("http: 0.0.0.0:9000\nlog_level: debug\ndb: /var/lib/vault.db\nredis:\n  addr: localhost:6379\n")
	require.NoError(t, ioutil.WriteFile(filepath.Join(home, "config.yaml"), conf, 0600))
	t.Setenv("VAULTD_REDIS_STREAM", "wallet:events")

	v := viper.New()
	v.Set("home", home)
	c, err := loadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", c.HTTP)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "/var/lib/vault.db", c.DB)
	assert.Equal(t, filepath.Join(home, "genesis.json"), c.Genesis)
	assert.Equal(t, filepath.Join(home, "key.priv"), c.Key)
	assert.Equal(t, "localhost:6379", c.Redis.Addr)
	assert.Equal(t, "wallet:events", c.Redis.Stream)
	assert.Equal(t, int64(10000), c.Redis.MaxLen)
}

func TestInitCmd(t *testing.T) {
	a, b := vaulttest.RandomAddr(t), vaulttest.RandomAddr(t)

	cases := map[string]struct {
		args    []string
		wantErr *errors.Error
	}{
		"two owners": {
			args: []string{"--owner", a.String(), "--owner", b.String(), "--funds", "100"},
		},
		"single owner": {
			args:    []string{"--owner", a.String(), "--required", "1"},
			wantErr: errors.ErrModel,
		},
		"threshold above owner count": {
			args:    []string{"--owner", a.String(), "--owner", b.String(), "--required", "3"},
			wantErr: multisig.ErrInvalidThreshold,
		},
		"invalid owner": {
			args:    []string{"--owner", "not-an-address", "--owner", b.String()},
			wantErr: errors.ErrInput,
		},
		"invalid chain id": {
			args:    []string{"--owner", a.String(), "--owner", b.String(), "--chain-id", "x"},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			home := t.TempDir()
			args := append([]string{"--home", home, "init"}, tc.args...)
			_, err := run(t, args...)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}

			gen, err := app.LoadGenesis(filepath.Join(home, "genesis.json"))
			require.NoError(t, err)
			assert.Equal(t, "vault-local", gen.ChainID)
			assert.Contains(t, gen.AppState, "multisig")
			assert.Contains(t, gen.AppState, "cash")
			assert.FileExists(t, filepath.Join(home, "config.yaml"))

			_, err = run(t, args...)
			assert.True(t, errors.ErrDuplicate.Is(err), "%+v", err)
			_, err = run(t, append(args, "--force")...)
			assert.NoError(t, err)
		})
	}
}

func TestKeysCmd(t *testing.T) {
	home := t.TempDir()

	out, err := run(t, "--home", home, "keys", "generate")
	require.NoError(t, err)
	key, err := readKey(filepath.Join(home, "key.priv"))
	require.NoError(t, err)
	addr := key.PublicKey().Address()
	assert.Equal(t, addr, vaulttest.ParseAddress(t, strings.TrimSpace(out)))

	_, err = run(t, "--home", home, "keys", "generate")
	assert.True(t, errors.ErrDuplicate.Is(err), "%+v", err)

	out, err = run(t, "--home", home, "keys", "address")
	require.NoError(t, err)
	assert.Contains(t, out, addr.String())
	assert.Contains(t, out, addr.Bech32())
}

func TestClientCommands(t *testing.T) {
	home := t.TempDir()
	_, err := run(t, "--home", home, "keys", "generate")
	require.NoError(t, err)
	key, err := readKey(filepath.Join(home, "key.priv"))
	require.NoError(t, err)

	other := vaulttest.RandomAddr(t)
	gw := multisig.GenesisWallet{
		Owners:   []vault.Address{key.PublicKey().Address(), other},
		Required: 1,
	}
	gen, err := buildGenesis("vault-cli-test", time.Now(), gw, 1000)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	ledger, err := vaultd.NewLedger("", nil, log.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, ledger.InitChain(context.Background(), gen, vaultd.Initializers()))
	srv := httptest.NewServer(api.NewServer(ledger, reg, log.NewNopLogger()))
	defer srv.Close()

	client := func(args ...string) string {
		t.Helper()
		out, err := run(t, append([]string{"--home", home, "--node", srv.URL}, args...)...)
		require.NoError(t, err)
		return out
	}

	out := client("tx", "submit", "--destination", other.String(), "--value", "250")
	assert.Contains(t, out, "txid\t0")

	out = client("tx", "approve", "0")
	assert.Contains(t, out, "action\tapprove")

	out = client("query", "transaction", "0")
	assert.Contains(t, out, `"value": 250`)
	assert.Contains(t, out, key.PublicKey().Address().String())

	out = client("tx", "govern", "change-requirement", "2")
	assert.Contains(t, out, "txid\t1")

	out = client("query", "nonce", key.PublicKey().Address().String())
	assert.Contains(t, out, `"nonce": 3`)

	_, err = run(t, "--home", home, "--node", srv.URL, "tx", "approve", "7")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "code 1034")
}
