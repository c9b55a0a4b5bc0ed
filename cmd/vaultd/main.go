package main

import (
	"os"

	"github.com/iov-one/vault/cmd/vaultd/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
