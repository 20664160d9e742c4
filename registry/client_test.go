package registry

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// credentialManagerBytecode assembles a minimal CredentialManager: a
// bytes32 => bool mapping kept directly in storage slots.
func credentialManagerBytecode() []byte {
	selector := func(sig string) []byte { return crypto.Keccak256([]byte(sig))[:4] }

	runtime := []byte{
		0x60, 0x00, 0x35, 0x60, 0xe0, 0x1c, // selector = calldata[0:4]
		0x80, 0x63, // DUP1 PUSH4
	}
	runtime = append(runtime, selector("registerCredential(bytes32)")...)
	runtime = append(runtime, 0x14, 0x60, 0x1d, 0x57, 0x63) // EQ PUSH1 register JUMPI PUSH4
	runtime = append(runtime, selector("verifyCredential(bytes32)")...)
	runtime = append(runtime,
		0x14, 0x60, 0x25, 0x57, // EQ PUSH1 verify JUMPI
		0x60, 0x00, 0x80, 0xfd, // REVERT(0, 0)
		// register: sstore(calldata[4:36], 1)
		0x5b, 0x60, 0x01, 0x60, 0x04, 0x35, 0x55, 0x00,
		// verify: return sload(calldata[4:36])
		0x5b, 0x60, 0x04, 0x35, 0x54, 0x60, 0x00, 0x52, 0x60, 0x20, 0x60, 0x00, 0xf3,
	)

	// init code copies the runtime to memory and returns it
	init := []byte{0x60, byte(len(runtime)), 0x80, 0x60, 0x0b, 0x60, 0x00, 0x39, 0x60, 0x00, 0xf3}
	return append(init, runtime...)
}

// setupTestChain creates a simulated chain with a funded account and a
// deployed CredentialManager.
func setupTestChain(t *testing.T) (*simulated.Backend, *bind.TransactOpts, common.Address) {
	t.Helper()

	privateKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	auth, err := bind.NewKeyedTransactorWithChainID(privateKey, big.NewInt(1337))
	require.NoError(t, err)

	balance := new(big.Int)
	balance.SetString("10000000000000000000", 10) // 10 ETH

	backend := simulated.NewBackend(types.GenesisAlloc{
		auth.From: {Balance: balance},
	}, simulated.WithBlockGasLimit(8000000))
	t.Cleanup(func() { backend.Close() })

	parsed, err := ParsedABI()
	require.NoError(t, err)

	address, tx, _, err := bind.DeployContract(auth, parsed, credentialManagerBytecode(), backend.Client())
	require.NoError(t, err)
	backend.Commit()

	receipt, err := backend.Client().TransactionReceipt(context.Background(), tx.Hash())
	require.NoError(t, err)
	require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status, "contract deployment failed")

	return backend, auth, address
}

func TestCredentialRegistry_RegisterVerify(t *testing.T) {
	backend, auth, address := setupTestChain(t)
	ctx := context.Background()

	reg, err := NewCredentialRegistryClient(backend.Client(), backend.Client(), address)
	require.NoError(t, err)
	require.Equal(t, address, reg.Address())
	reg.SetTransactOpts(auth)

	credentialHash := crypto.Keccak256Hash([]byte("QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"))

	registered, err := reg.VerifyCredential(ctx, credentialHash)
	require.NoError(t, err)
	assert.False(t, registered)

	tx, err := reg.RegisterCredential(ctx, credentialHash)
	require.NoError(t, err)
	backend.Commit()

	waitCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	receipt, err := reg.WaitMined(waitCtx, tx)
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)

	registered, err = reg.VerifyCredential(ctx, credentialHash)
	require.NoError(t, err)
	assert.True(t, registered)

	other := crypto.Keccak256Hash([]byte("another credential"))
	registered, err = reg.VerifyCredential(ctx, other)
	require.NoError(t, err)
	assert.False(t, registered)
}

func TestCredentialRegistry_RequiresTransactOpts(t *testing.T) {
	backend, _, address := setupTestChain(t)

	reg, err := NewCredentialRegistryClient(backend.Client(), backend.Client(), address)
	require.NoError(t, err)

	_, err = reg.RegisterCredential(context.Background(), common.Hash{0x01})
	require.ErrorIs(t, err, ErrNoTransactOpts)
}
