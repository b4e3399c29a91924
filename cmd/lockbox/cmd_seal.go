package main

import (
	"crypto/rand"
	"io"

	"github.com/alecthomas/kong"
	"github.com/codahale/lockbox"
)

type sealCmd struct {
	Plaintext  string `arg:"" type:"existingfile" help:"The path to the plaintext file."`
	Ciphertext string `arg:"" type:"path" help:"The path to the ciphertext file."`

	SecretFile string `type:"existingfile" help:"The path to a base58-encoded secret."`
	Armor      bool   `help:"Encode the ciphertext as base64."`
}

func (cmd *sealCmd) Run(_ *kong.Context) error {
	secret, err := readSecret(cmd.SecretFile)
	if err != nil {
		return err
	}

	// Open the plaintext input.
	src, err := openInput(cmd.Plaintext, false)
	if err != nil {
		return err
	}

	defer func() { _ = src.Close() }()

	plaintext, err := io.ReadAll(src)
	if err != nil {
		return err
	}

	// Seal the plaintext.
	message, err := lockbox.Encrypt(rand.Reader, secret, plaintext)
	if err != nil {
		return err
	}

	// Open the ciphertext output.
	dst, err := openOutput(cmd.Ciphertext, cmd.Armor)
	if err != nil {
		return err
	}

	if _, err := dst.Write(message); err != nil {
		_ = dst.Close()

		return err
	}

	return dst.Close()
}
