package main

import (
	"crypto/rand"
	"os"

	"github.com/alecthomas/kong"
	"github.com/mr-tron/base58"
)

type secretCmd struct {
	Output string `arg:"" type:"path" help:"The output path for the base58-encoded secret."`
}

func (cmd *secretCmd) Run(_ *kong.Context) error {
	// Generate a new 256-bit secret.
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return err
	}

	// Write it out base58-encoded.
	return os.WriteFile(cmd.Output, []byte(base58.Encode(secret)+"\n"), 0600)
}
