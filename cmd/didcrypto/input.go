package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ruteri/did-crypto-service/keyfile"
	"github.com/urfave/cli/v2"
)

var errNoStorage = errors.New("no storage configured, pass --storage")

// inputArg returns the first positional argument, or stdin without its
// trailing newline when there is none.
func inputArg(cCtx *cli.Context) (string, error) {
	if cCtx.Args().Present() {
		return cCtx.Args().First(), nil
	}

	data, err := io.ReadAll(cCtx.App.Reader)
	if err != nil {
		return "", fmt.Errorf("could not read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// inputLines returns positional arguments, or non-empty stdin lines.
func inputLines(cCtx *cli.Context) ([]string, error) {
	if cCtx.Args().Present() {
		return cCtx.Args().Slice(), nil
	}

	var lines []string
	scanner := bufio.NewScanner(cCtx.App.Reader)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

// loadKeyFile reads --key and unseals it with --passphrase when needed.
func loadKeyFile(cCtx *cli.Context) (*keyfile.File, error) {
	path := cCtx.String(flagKey.Name)
	if path == "" {
		return nil, fmt.Errorf("--%s is required", flagKey.Name)
	}

	f, err := keyfile.Read(path)
	if err != nil {
		return nil, err
	}

	if f.IsSealed() {
		passphrase := cCtx.String(flagPassphrase.Name)
		if passphrase == "" {
			return nil, fmt.Errorf("%s is sealed, pass --%s", path, flagPassphrase.Name)
		}
		if err := f.Unseal([]byte(passphrase)); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// publicKeyArg returns --public-key, or the public key of --key.
func publicKeyArg(cCtx *cli.Context) (string, error) {
	if pub := cCtx.String(flagPublicKey.Name); pub != "" {
		return pub, nil
	}

	path := cCtx.String(flagKey.Name)
	if path == "" {
		return "", fmt.Errorf("one of --%s or --%s is required", flagPublicKey.Name, flagKey.Name)
	}

	// The public key is readable without unsealing
	f, err := keyfile.Read(path)
	if err != nil {
		return "", err
	}
	return f.PublicKey, nil
}

// writeKeyFile seals f when a passphrase is configured and writes it.
func writeKeyFile(cCtx *cli.Context, path string, f *keyfile.File) error {
	if _, err := os.Stat(path); err == nil && !cCtx.Bool(flagForce.Name) {
		return fmt.Errorf("%s exists, pass --%s to overwrite", path, flagForce.Name)
	}

	if passphrase := cCtx.String(flagPassphrase.Name); passphrase != "" {
		if err := f.Seal(cryptoRandom, []byte(passphrase)); err != nil {
			return err
		}
	}
	return keyfile.Write(path, f)
}
