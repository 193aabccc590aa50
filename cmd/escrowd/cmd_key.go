package main

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/iov-one/escrowd/crypto"
	"golang.org/x/crypto/ed25519"
)

func defaultKeyPath() string {
	return env("ESCROWD_PRIV_KEY", os.Getenv("HOME")+"/.escrowd.priv.key")
}

const keyFlDesc = "Path to the private key file that transaction should be signed with. You can use ESCROWD_PRIV_KEY environment variable to set it."

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new private key.

When successful a new file with binary content containing private key is
created. This command fails if the private key file already exists.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(), keyFlDesc)
	)
	fl.Parse(args)

	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return fmt.Errorf("cannot generate ed25519 key: %s", err)
	}

	// An existing key is never overwritten.
	fd, err := os.OpenFile(*keyPathFl, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if os.IsExist(err) {
		return fmt.Errorf("private key file %q already exists, delete this file and try again", *keyPathFl)
	}
	if err != nil {
		return fmt.Errorf("cannot create private key file: %s", err)
	}
	defer fd.Close()

	if _, err := fd.Write(priv); err != nil {
		return fmt.Errorf("cannot write private key: %s", err)
	}
	if err := fd.Close(); err != nil {
		return fmt.Errorf("cannot close private key file: %s", err)
	}
	return nil
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the address associated with your private key. Hex encoding is used
unless a bech32 human readable prefix is given.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(), keyFlDesc)
		bechFl    = fl.String("bech32", "", "Human readable part of the bech32 encoded address. Hex encoding is used if empty.")
	)
	fl.Parse(args)

	key, err := readKey(*keyPathFl)
	if err != nil {
		return err
	}
	addr := key.PublicKey().Address()
	if *bechFl == "" {
		_, err = fmt.Fprintln(output, addr)
		return err
	}
	b, err := addr.Bech32(*bechFl)
	if err != nil {
		return fmt.Errorf("cannot serialize to bech32: %s", err)
	}
	_, err = fmt.Fprintln(output, b)
	return err
}

func readKey(path string) (*crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read private key file: %s", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid private key length: %d", len(raw))
	}
	return &crypto.PrivateKey{Ed25519: raw}, nil
}
