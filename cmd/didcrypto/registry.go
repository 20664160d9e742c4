package main

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ruteri/did-crypto-service/cmd/flags"
	"github.com/ruteri/did-crypto-service/credential"
	"github.com/ruteri/did-crypto-service/registry"
	"github.com/urfave/cli/v2"
)

var flagIssuerKey *cli.StringFlag = &cli.StringFlag{
	Name:    "issuer-key",
	Usage:   "hex secp256k1 private key of the account registering credentials",
	EnvVars: []string{"DIDCRYPTO_ISSUER_KEY"},
}

var registryCommands = []*cli.Command{
	{
		Name:  "register",
		Usage: "record a published credential's hash in the CredentialManager contract",
		Flags: []cli.Flag{flags.RpcAddrFlag, flags.CredentialContractFlag, flagIssuerKey, flagContentID},
		Action: func(cCtx *cli.Context) error {
			logger := flags.SetupLogger(cCtx)
			cid := cCtx.String(flagContentID.Name)
			if cid == "" {
				return fmt.Errorf("--%s is required", flagContentID.Name)
			}

			reg, err := dialRegistry(cCtx, true)
			if err != nil {
				return err
			}

			hash := credential.RegistryHash(cid)
			tx, err := reg.RegisterCredential(cCtx.Context, hash)
			if err != nil {
				return fmt.Errorf("could not register credential: %w", err)
			}
			logger.Info("Submitted credential registration", "tx", tx.Hash().Hex(), "hash", hash.Hex())

			if _, err := reg.WaitMined(cCtx.Context, tx); err != nil {
				return err
			}

			fmt.Fprintln(cCtx.App.Writer, tx.Hash().Hex())
			return nil
		},
	},
	{
		Name:  "status",
		Usage: "check whether a credential's hash is registered; exits with status 1 if not",
		Flags: []cli.Flag{flags.RpcAddrFlag, flags.CredentialContractFlag, flagContentID},
		Action: func(cCtx *cli.Context) error {
			cid := cCtx.String(flagContentID.Name)
			if cid == "" {
				return fmt.Errorf("--%s is required", flagContentID.Name)
			}

			reg, err := dialRegistry(cCtx, false)
			if err != nil {
				return err
			}

			registered, err := reg.VerifyCredential(cCtx.Context, credential.RegistryHash(cid))
			if err != nil {
				return err
			}
			if !registered {
				return cli.Exit("not registered", 1)
			}
			fmt.Fprintln(cCtx.App.Writer, "registered")
			return nil
		},
	},
}

func dialRegistry(cCtx *cli.Context, withSigner bool) (*registry.CredentialRegistryClient, error) {
	contract := cCtx.String(flags.CredentialContractFlag.Name)
	if !common.IsHexAddress(contract) {
		return nil, fmt.Errorf("invalid --%s %q", flags.CredentialContractFlag.Name, contract)
	}

	client, err := ethclient.DialContext(cCtx.Context, cCtx.String(flags.RpcAddrFlag.Name))
	if err != nil {
		return nil, fmt.Errorf("could not dial RPC: %w", err)
	}

	reg, err := registry.NewCredentialRegistryClient(client, client, common.HexToAddress(contract))
	if err != nil {
		return nil, err
	}

	if withSigner {
		privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cCtx.String(flagIssuerKey.Name), "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid --%s: %w", flagIssuerKey.Name, err)
		}

		chainID, err := client.ChainID(cCtx.Context)
		if err != nil {
			return nil, fmt.Errorf("could not get chain ID: %w", err)
		}

		auth, err := bind.NewKeyedTransactorWithChainID(privateKey, chainID)
		if err != nil {
			return nil, err
		}
		reg.SetTransactOpts(auth)
	}
	return reg, nil
}
