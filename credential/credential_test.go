package credential

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ruteri/did-crypto-service/cryptoutils"
	"github.com/ruteri/did-crypto-service/envelope"
	"github.com/ruteri/did-crypto-service/interfaces"
	"github.com/ruteri/did-crypto-service/storage"
	"github.com/stretchr/testify/require"
)

func newTestPublisher(t *testing.T) *Publisher {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	backend, err := storage.NewFileBackend(t.TempDir(), logger)
	require.NoError(t, err)
	return NewPublisher(backend, logger)
}

func TestRegistryHash(t *testing.T) {
	// Keccak-256 of the empty string
	require.Equal(t,
		"0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		RegistryHash("").Hex())

	cid := "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"
	require.Equal(t, crypto.Keccak256Hash([]byte(cid)), RegistryHash(cid))
}

func TestPublishFetchEnvelope(t *testing.T) {
	publisher := newTestPublisher(t)
	p := cryptoutils.DefaultProvider

	alice, err := p.GenerateSigningKeyPair()
	require.NoError(t, err)
	bob, err := p.GenerateEncryptionKeyPair()
	require.NoError(t, err)

	sealed, err := envelope.Seal(p, "Alice's credential: Decentralized verification!", bob.PublicKey, alice)
	require.NoError(t, err)

	receipt, err := publisher.Publish(context.Background(), sealed)
	require.NoError(t, err)
	require.Equal(t, RegistryHash(receipt.ContentID.String()), receipt.RegistryHash)

	fetched, err := publisher.Fetch(context.Background(), receipt.ContentID)
	require.NoError(t, err)
	require.Equal(t, sealed, fetched)

	opened, err := envelope.Open(p, fetched, bob.PrivateKey)
	require.NoError(t, err)
	require.True(t, opened.Verified)
	require.Equal(t, "Alice's credential: Decentralized verification!", opened.Message)

	// Publishing is idempotent
	again, err := publisher.Publish(context.Background(), sealed)
	require.NoError(t, err)
	require.Equal(t, receipt, again)

	_, err = publisher.Fetch(context.Background(), interfaces.ComputeID([]byte("missing")))
	require.ErrorIs(t, err, interfaces.ErrContentNotFound)
}

func TestPublishFetchPublicKey(t *testing.T) {
	publisher := newTestPublisher(t)

	kp, err := cryptoutils.GenerateEncryptionKeyPair()
	require.NoError(t, err)

	receipt, err := publisher.PublishPublicKey(context.Background(), string(kp.PublicKey))
	require.NoError(t, err)

	publicKey, err := publisher.FetchPublicKey(context.Background(), receipt.ContentID)
	require.NoError(t, err)
	require.Equal(t, string(kp.PublicKey), publicKey)

	_, err = publisher.PublishPublicKey(context.Background(), "not a key!")
	require.ErrorIs(t, err, cryptoutils.ErrMalformedEncoding)
}
