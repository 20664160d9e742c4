package main

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/ruteri/did-crypto-service/api"
	"github.com/ruteri/did-crypto-service/api/cryptohandler"
	"github.com/ruteri/did-crypto-service/cmd/flags"
	"github.com/ruteri/did-crypto-service/credential"
	"github.com/ruteri/did-crypto-service/cryptoutils"
	"github.com/ruteri/did-crypto-service/envelope"
	"github.com/ruteri/did-crypto-service/interfaces"
	"github.com/ruteri/did-crypto-service/keyfile"
	"github.com/urfave/cli/v2"
)

var cryptoRandom = rand.Reader

var flagServer *cli.StringFlag = &cli.StringFlag{
	Name:    "server",
	Usage:   "perform key generation and cipher operations on a didcrypto sidecar at this URL instead of locally",
	EnvVars: []string{"DIDCRYPTO_SERVER"},
}
var flagKey *cli.StringFlag = &cli.StringFlag{
	Name:    "key",
	Aliases: []string{"k"},
	Usage:   "path to a key file",
}
var flagPublicKey *cli.StringFlag = &cli.StringFlag{
	Name:  "public-key",
	Usage: "base-64 public key, instead of reading it from --key",
}
var flagPassphrase *cli.StringFlag = &cli.StringFlag{
	Name:    "passphrase",
	Usage:   "passphrase sealing the private key in key files",
	EnvVars: []string{"DIDCRYPTO_PASSPHRASE"},
}
var flagKind *cli.StringFlag = &cli.StringFlag{
	Name:  "kind",
	Value: string(keyfile.KindEncryption),
	Usage: "key kind: 'encryption' or 'signing'",
}
var flagOut *cli.StringFlag = &cli.StringFlag{
	Name:     "out",
	Aliases:  []string{"o"},
	Required: true,
	Usage:    "path to write the key file to",
}
var flagForce *cli.BoolFlag = &cli.BoolFlag{
	Name:  "force",
	Usage: "overwrite an existing key file",
}
var flagSignature *cli.StringFlag = &cli.StringFlag{
	Name:     "signature",
	Required: true,
	Usage:    "base-64 signature to verify",
}
var flagRecipient *cli.StringFlag = &cli.StringFlag{
	Name:     "recipient",
	Required: true,
	Usage:    "recipient's base-64 encryption public key",
}
var flagSigner *cli.StringFlag = &cli.StringFlag{
	Name:  "signer",
	Usage: "expected signer's base-64 signing public key",
}
var flagContentID *cli.StringFlag = &cli.StringFlag{
	Name:  "content-id",
	Usage: "hex content ID of a published item",
}
var flagShares *cli.IntFlag = &cli.IntFlag{
	Name:  "shares",
	Value: 5,
	Usage: "number of shares to produce",
}
var flagThreshold *cli.IntFlag = &cli.IntFlag{
	Name:  "threshold",
	Value: 3,
	Usage: "number of shares required to recover the key",
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	app := &cli.App{
		Name:  "didcrypto",
		Usage: "Generate keys, encrypt, decrypt, sign and verify for decentralized identities",
		Flags: append([]cli.Flag{
			flagServer,
			flags.StorageFlag,
			flags.LogServiceFlagFn("didcrypto"),
		}, flags.LogFlags...),
		Commands: []*cli.Command{
			{
				Name:  "keygen",
				Usage: "generate a key pair and write it to a key file",
				Flags: []cli.Flag{flagKind, flagOut, flagPassphrase, flagForce},
				Action: func(cCtx *cli.Context) error {
					backend := newBackend(cCtx)

					var f *keyfile.File
					switch keyfile.Kind(cCtx.String(flagKind.Name)) {
					case keyfile.KindEncryption:
						kp, err := backend.GenerateEncryptionKeyPair(cCtx.Context)
						if err != nil {
							return err
						}
						f = keyfile.FromEncryptionKeyPair(kp)
					case keyfile.KindSigning:
						kp, err := backend.GenerateSigningKeyPair(cCtx.Context)
						if err != nil {
							return err
						}
						f = keyfile.FromSigningKeyPair(kp)
					default:
						return fmt.Errorf("invalid --kind %q", cCtx.String(flagKind.Name))
					}

					if err := writeKeyFile(cCtx, cCtx.String(flagOut.Name), f); err != nil {
						return err
					}

					fmt.Fprintln(cCtx.App.Writer, f.PublicKey)
					return nil
				},
			},
			{
				Name:  "pubkey",
				Usage: "print the public key of a key file",
				Flags: []cli.Flag{flagKey},
				Action: func(cCtx *cli.Context) error {
					pub, err := publicKeyArg(cCtx)
					if err != nil {
						return err
					}
					fmt.Fprintln(cCtx.App.Writer, pub)
					return nil
				},
			},
			{
				Name:      "encrypt",
				Usage:     "encrypt a message for a recipient",
				ArgsUsage: "[message]",
				Flags:     []cli.Flag{flagKey, flagPublicKey},
				Action: func(cCtx *cli.Context) error {
					pub, err := publicKeyArg(cCtx)
					if err != nil {
						return err
					}
					message, err := inputArg(cCtx)
					if err != nil {
						return err
					}

					ciphertext, err := newBackend(cCtx).Encrypt(cCtx.Context, message, cryptoutils.EncryptionPublicKey(pub))
					if err != nil {
						return err
					}
					fmt.Fprintln(cCtx.App.Writer, ciphertext)
					return nil
				},
			},
			{
				Name:      "decrypt",
				Usage:     "decrypt a ciphertext with an encryption key file",
				ArgsUsage: "[ciphertext]",
				Flags:     []cli.Flag{flagKey, flagPassphrase},
				Action: func(cCtx *cli.Context) error {
					kp, err := encryptionKeyPair(cCtx)
					if err != nil {
						return err
					}
					ciphertext, err := inputArg(cCtx)
					if err != nil {
						return err
					}

					message, err := newBackend(cCtx).Decrypt(cCtx.Context, cryptoutils.Ciphertext(ciphertext), kp.PrivateKey)
					if err != nil {
						return err
					}
					fmt.Fprintln(cCtx.App.Writer, message)
					return nil
				},
			},
			{
				Name:      "sign",
				Usage:     "sign a message with a signing key file",
				ArgsUsage: "[message]",
				Flags:     []cli.Flag{flagKey, flagPassphrase},
				Action: func(cCtx *cli.Context) error {
					kp, err := signingKeyPair(cCtx)
					if err != nil {
						return err
					}
					message, err := inputArg(cCtx)
					if err != nil {
						return err
					}

					signature, err := newBackend(cCtx).Sign(cCtx.Context, message, kp.PrivateKey)
					if err != nil {
						return err
					}
					fmt.Fprintln(cCtx.App.Writer, signature)
					return nil
				},
			},
			{
				Name:      "verify",
				Usage:     "verify a signature; exits with status 1 if it does not verify",
				ArgsUsage: "[message]",
				Flags:     []cli.Flag{flagKey, flagPublicKey, flagSignature},
				Action: func(cCtx *cli.Context) error {
					pub, err := publicKeyArg(cCtx)
					if err != nil {
						return err
					}
					message, err := inputArg(cCtx)
					if err != nil {
						return err
					}

					valid, err := newBackend(cCtx).Verify(cCtx.Context, message, cryptoutils.Signature(cCtx.String(flagSignature.Name)), cryptoutils.SigningPublicKey(pub))
					if err != nil {
						return err
					}
					if !valid {
						return cli.Exit("invalid", 1)
					}
					fmt.Fprintln(cCtx.App.Writer, "valid")
					return nil
				},
			},
			{
				Name:      "seal",
				Usage:     "encrypt and sign a message; publishes the envelope when --storage is set",
				ArgsUsage: "[message]",
				Flags:     []cli.Flag{flagKey, flagPassphrase, flagRecipient},
				Action: func(cCtx *cli.Context) error {
					signer, err := signingKeyPair(cCtx)
					if err != nil {
						return err
					}
					recipient, err := cryptoutils.ParseEncryptionPublicKey(cCtx.String(flagRecipient.Name))
					if err != nil {
						return fmt.Errorf("invalid --recipient: %w", err)
					}
					message, err := inputArg(cCtx)
					if err != nil {
						return err
					}

					sealed, err := envelope.Seal(cryptoutils.DefaultProvider, message, recipient, signer)
					if err != nil {
						return err
					}

					publisher, err := newPublisher(cCtx)
					if err != nil {
						return err
					}
					if publisher == nil {
						return printJSON(cCtx, sealed)
					}

					receipt, err := publisher.Publish(cCtx.Context, sealed)
					if err != nil {
						return err
					}
					return printJSON(cCtx, receiptResponse(receipt))
				},
			},
			{
				Name:      "open",
				Usage:     "decrypt an envelope and check its signature; exits with status 2 if it does not verify",
				ArgsUsage: "[envelope JSON]",
				Flags:     []cli.Flag{flagKey, flagPassphrase, flagSigner, flagContentID},
				Action: func(cCtx *cli.Context) error {
					holder, err := encryptionKeyPair(cCtx)
					if err != nil {
						return err
					}

					sealed, err := readEnvelope(cCtx)
					if err != nil {
						return err
					}

					var opened *envelope.Opened
					if signer := cCtx.String(flagSigner.Name); signer != "" {
						opened, err = envelope.OpenFrom(cryptoutils.DefaultProvider, sealed, holder.PrivateKey, cryptoutils.SigningPublicKey(signer))
					} else {
						opened, err = envelope.Open(cryptoutils.DefaultProvider, sealed, holder.PrivateKey)
					}
					if err != nil {
						return err
					}

					fmt.Fprintln(cCtx.App.Writer, opened.Message)
					if !opened.Verified {
						return cli.Exit("signature does not verify", 2)
					}
					return nil
				},
			},
			{
				Name:  "publish-key",
				Usage: "publish a public key to storage",
				Flags: []cli.Flag{flagKey, flagPublicKey},
				Action: func(cCtx *cli.Context) error {
					pub, err := publicKeyArg(cCtx)
					if err != nil {
						return err
					}

					publisher, err := requirePublisher(cCtx)
					if err != nil {
						return err
					}

					receipt, err := publisher.PublishPublicKey(cCtx.Context, pub)
					if err != nil {
						return err
					}
					return printJSON(cCtx, receiptResponse(receipt))
				},
			},
			{
				Name:  "fetch-key",
				Usage: "fetch a published public key",
				Flags: []cli.Flag{flagContentID},
				Action: func(cCtx *cli.Context) error {
					id, err := interfaces.NewContentIDFromHex(cCtx.String(flagContentID.Name))
					if err != nil {
						return fmt.Errorf("invalid --content-id: %w", err)
					}

					publisher, err := requirePublisher(cCtx)
					if err != nil {
						return err
					}

					pub, err := publisher.FetchPublicKey(cCtx.Context, id)
					if err != nil {
						return err
					}
					fmt.Fprintln(cCtx.App.Writer, pub)
					return nil
				},
			},
			{
				Name:  "split-key",
				Usage: "split the private key of a key file into Shamir shares, one per line",
				Flags: []cli.Flag{flagKey, flagPassphrase, flagShares, flagThreshold},
				Action: func(cCtx *cli.Context) error {
					f, err := loadKeyFile(cCtx)
					if err != nil {
						return err
					}

					shares, err := keyfile.SplitPrivateKey(f.PrivateKey, cCtx.Int(flagShares.Name), cCtx.Int(flagThreshold.Name))
					if err != nil {
						return err
					}
					for _, share := range shares {
						fmt.Fprintln(cCtx.App.Writer, share)
					}
					return nil
				},
			},
			{
				Name:      "combine-key",
				Usage:     "recover a key file from Shamir shares",
				ArgsUsage: "[share...]",
				Flags:     []cli.Flag{flagKind, flagOut, flagPassphrase, flagForce},
				Action: func(cCtx *cli.Context) error {
					shares, err := inputLines(cCtx)
					if err != nil {
						return err
					}

					privateKey, err := keyfile.CombineShares(shares)
					if err != nil {
						return err
					}

					var f *keyfile.File
					switch keyfile.Kind(cCtx.String(flagKind.Name)) {
					case keyfile.KindEncryption:
						priv := cryptoutils.EncryptionPrivateKey(privateKey)
						pub, err := priv.PublicKey()
						if err != nil {
							return err
						}
						f = keyfile.FromEncryptionKeyPair(cryptoutils.EncryptionKeyPair{PublicKey: pub, PrivateKey: priv})
					case keyfile.KindSigning:
						priv := cryptoutils.SigningPrivateKey(privateKey)
						pub, err := priv.PublicKey()
						if err != nil {
							return err
						}
						f = keyfile.FromSigningKeyPair(cryptoutils.SigningKeyPair{PublicKey: pub, PrivateKey: priv})
					default:
						return fmt.Errorf("invalid --kind %q", cCtx.String(flagKind.Name))
					}

					if err := writeKeyFile(cCtx, cCtx.String(flagOut.Name), f); err != nil {
						return err
					}
					fmt.Fprintln(cCtx.App.Writer, f.PublicKey)
					return nil
				},
			},
		},
	}
	app.Commands = append(app.Commands, registryCommands...)
	return app
}

func newBackend(cCtx *cli.Context) cryptoBackend {
	if server := cCtx.String(flagServer.Name); server != "" {
		return cryptohandler.NewClient(server, nil)
	}
	return localBackend{p: cryptoutils.DefaultProvider}
}

func newPublisher(cCtx *cli.Context) (*credential.Publisher, error) {
	return flags.ConfigurePublisher(cCtx, flags.SetupLogger(cCtx))
}

func requirePublisher(cCtx *cli.Context) (*credential.Publisher, error) {
	publisher, err := newPublisher(cCtx)
	if err != nil {
		return nil, err
	}
	if publisher == nil {
		return nil, errNoStorage
	}
	return publisher, nil
}

func encryptionKeyPair(cCtx *cli.Context) (cryptoutils.EncryptionKeyPair, error) {
	f, err := loadKeyFile(cCtx)
	if err != nil {
		return cryptoutils.EncryptionKeyPair{}, err
	}
	return f.EncryptionKeyPair()
}

func signingKeyPair(cCtx *cli.Context) (cryptoutils.SigningKeyPair, error) {
	f, err := loadKeyFile(cCtx)
	if err != nil {
		return cryptoutils.SigningKeyPair{}, err
	}
	return f.SigningKeyPair()
}

// readEnvelope loads the envelope named by --content-id from storage, or
// parses it from the argument or stdin.
func readEnvelope(cCtx *cli.Context) (*envelope.Sealed, error) {
	if cid := cCtx.String(flagContentID.Name); cid != "" {
		id, err := interfaces.NewContentIDFromHex(cid)
		if err != nil {
			return nil, fmt.Errorf("invalid --content-id: %w", err)
		}

		publisher, err := requirePublisher(cCtx)
		if err != nil {
			return nil, err
		}
		return publisher.Fetch(cCtx.Context, id)
	}

	data, err := inputArg(cCtx)
	if err != nil {
		return nil, err
	}
	return envelope.Unmarshal([]byte(data))
}

func receiptResponse(receipt *credential.Receipt) api.ReceiptResponse {
	return api.ReceiptResponse{
		ContentID:    receipt.ContentID.String(),
		RegistryHash: receipt.RegistryHash.Hex(),
	}
}

func printJSON(cCtx *cli.Context, v any) error {
	enc := json.NewEncoder(cCtx.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var _ cryptoBackend = (*cryptohandler.Client)(nil)
