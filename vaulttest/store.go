package vaulttest

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/store/iavl"
)

// CommitKVStore returns a store instance that is using a filesystem backend
// engine to store the data.
// This implementation should be used instead of MemStore when you want the
// exact same storage implementation as the production instance is using.
func CommitKVStore(t testing.TB) (db vault.CommitKVStore, cleanup func()) {
	dbpath, err := ioutil.TempDir("", "vaulttest")
	if err != nil {
		t.Fatalf("cannot create a temporary directory: %s", err)
	}

	commit := iavl.NewCommitStore(dbpath, "db")
	return commit, func() {
		commit.Close()
		os.RemoveAll(dbpath)
	}
}
