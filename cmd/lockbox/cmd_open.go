package main

import (
	"github.com/alecthomas/kong"
	"github.com/codahale/lockbox"
)

type openCmd struct {
	Ciphertext string `arg:"" type:"existingfile" help:"The path to the ciphertext file."`
	Plaintext  string `arg:"" type:"path" help:"The path to the plaintext file."`

	SecretFile string `type:"existingfile" help:"The path to a base58-encoded secret."`
	Armor      bool   `help:"Decode the ciphertext as base64."`
}

func (cmd *openCmd) Run(_ *kong.Context) error {
	secret, err := readSecret(cmd.SecretFile)
	if err != nil {
		return err
	}

	// Open the ciphertext input.
	src, err := openInput(cmd.Ciphertext, cmd.Armor)
	if err != nil {
		return err
	}

	defer func() { _ = src.Close() }()

	// Open the whole message. Nothing is written out unless every chunk verifies.
	plaintext, err := lockbox.Decrypt(src, secret)
	if err != nil {
		return err
	}

	// Write out the verified plaintext.
	dst, err := openOutput(cmd.Plaintext, false)
	if err != nil {
		return err
	}

	if _, err := dst.Write(plaintext); err != nil {
		_ = dst.Close()

		return err
	}

	return dst.Close()
}
