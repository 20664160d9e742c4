package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// CredentialManagerABI is the part of the CredentialManager contract ABI
// the client uses.
const CredentialManagerABI = `[
	{"type":"function","name":"registerCredential","stateMutability":"nonpayable",
	 "inputs":[{"name":"credentialHash","type":"bytes32","internalType":"bytes32"}],"outputs":[]},
	{"type":"function","name":"verifyCredential","stateMutability":"view",
	 "inputs":[{"name":"credentialHash","type":"bytes32","internalType":"bytes32"}],
	 "outputs":[{"name":"","type":"bool","internalType":"bool"}]}
]`

// ErrNoTransactOpts is returned when a transaction is attempted without first setting transaction options.
var ErrNoTransactOpts = errors.New("no authorized transactor available")

// ErrTransactionFailed is returned by WaitMined for reverted transactions.
var ErrTransactionFailed = errors.New("transaction failed")

// ParsedABI returns the parsed CredentialManagerABI.
func ParsedABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(CredentialManagerABI))
}

// CredentialRegistryClient talks to a CredentialManager contract.
type CredentialRegistryClient struct {
	contract *bind.BoundContract
	backend  bind.DeployBackend
	address  common.Address
	auth     *bind.TransactOpts
}

// NewCredentialRegistryClient creates a client for the contract at address.
// client is used for calls and transactions, backend for waiting on
// receipts.
func NewCredentialRegistryClient(client bind.ContractBackend, backend bind.DeployBackend, address common.Address) (*CredentialRegistryClient, error) {
	parsed, err := ParsedABI()
	if err != nil {
		return nil, err
	}

	return &CredentialRegistryClient{
		contract: bind.NewBoundContract(address, parsed, client, client, client),
		backend:  backend,
		address:  address,
	}, nil
}

// SetTransactOpts sets the signer used by RegisterCredential.
func (c *CredentialRegistryClient) SetTransactOpts(auth *bind.TransactOpts) {
	c.auth = auth
}

// Address returns the contract address.
func (c *CredentialRegistryClient) Address() common.Address {
	return c.address
}

// RegisterCredential records credentialHash on chain. The returned
// transaction is not yet mined.
func (c *CredentialRegistryClient) RegisterCredential(ctx context.Context, credentialHash common.Hash) (*types.Transaction, error) {
	if c.auth == nil {
		return nil, ErrNoTransactOpts
	}

	opts := *c.auth
	opts.Context = ctx
	return c.contract.Transact(&opts, "registerCredential", [32]byte(credentialHash))
}

// VerifyCredential reports whether credentialHash has been registered.
func (c *CredentialRegistryClient) VerifyCredential(ctx context.Context, credentialHash common.Hash) (bool, error) {
	var out []interface{}
	err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "verifyCredential", [32]byte(credentialHash))
	if err != nil {
		return false, err
	}
	if len(out) != 1 {
		return false, fmt.Errorf("unexpected verifyCredential output length %d", len(out))
	}

	registered, ok := out[0].(bool)
	if !ok {
		return false, fmt.Errorf("unexpected verifyCredential output type %T", out[0])
	}
	return registered, nil
}

// WaitMined blocks until tx is mined and fails if it reverted.
func (c *CredentialRegistryClient) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s", ErrTransactionFailed, tx.Hash().Hex())
	}
	return receipt, nil
}
