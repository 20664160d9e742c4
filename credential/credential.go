// Package credential publishes sealed envelopes and public keys to
// content-addressed storage and derives the hash under which a published
// credential is registered on chain.
//
// Registry transactions are left to the caller; this package only produces
// the 32-byte value they carry.
package credential

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ruteri/did-crypto-service/cryptoutils"
	"github.com/ruteri/did-crypto-service/envelope"
	"github.com/ruteri/did-crypto-service/interfaces"
)

// Receipt identifies a published item.
type Receipt struct {
	// ContentID addresses the stored bytes in every storage backend.
	ContentID interfaces.ContentID
	// RegistryHash is Keccak-256 over the hex content ID, the value
	// registered in the credential registry contract.
	RegistryHash common.Hash
}

// RegistryHash returns the Keccak-256 hash of the UTF-8 content identifier.
func RegistryHash(contentID string) common.Hash {
	return crypto.Keccak256Hash([]byte(contentID))
}

// Publisher stores envelopes and public keys in a storage backend.
type Publisher struct {
	storage interfaces.StorageBackend
	log     *slog.Logger
}

// NewPublisher creates a Publisher over the given backend.
func NewPublisher(storage interfaces.StorageBackend, log *slog.Logger) *Publisher {
	return &Publisher{
		storage: storage,
		log:     log,
	}
}

// Publish stores the envelope as JSON and returns its receipt.
func (p *Publisher) Publish(ctx context.Context, sealed *envelope.Sealed) (*Receipt, error) {
	data, err := sealed.Marshal()
	if err != nil {
		return nil, fmt.Errorf("could not marshal envelope: %w", err)
	}

	return p.store(ctx, data, interfaces.EnvelopeType)
}

// Fetch loads and validates the envelope stored under id.
func (p *Publisher) Fetch(ctx context.Context, id interfaces.ContentID) (*envelope.Sealed, error) {
	data, err := p.storage.Fetch(ctx, id, interfaces.EnvelopeType)
	if err != nil {
		return nil, err
	}

	return envelope.Unmarshal(data)
}

// PublishPublicKey stores an encoded public key so that others can find it
// by content ID.
func (p *Publisher) PublishPublicKey(ctx context.Context, publicKey string) (*Receipt, error) {
	if _, err := cryptoutils.ParseEncryptionPublicKey(publicKey); err != nil {
		return nil, err
	}

	return p.store(ctx, []byte(publicKey), interfaces.PublicKeyType)
}

// FetchPublicKey loads the encoded public key stored under id.
func (p *Publisher) FetchPublicKey(ctx context.Context, id interfaces.ContentID) (string, error) {
	data, err := p.storage.Fetch(ctx, id, interfaces.PublicKeyType)
	if err != nil {
		return "", err
	}

	publicKey := string(data)
	if _, err := cryptoutils.ParseEncryptionPublicKey(publicKey); err != nil {
		return "", fmt.Errorf("stored public key is invalid: %w", err)
	}
	return publicKey, nil
}

func (p *Publisher) store(ctx context.Context, data []byte, contentType interfaces.ContentType) (*Receipt, error) {
	id, err := p.storage.Store(ctx, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("could not store %s: %w", contentType, err)
	}

	receipt := &Receipt{
		ContentID:    id,
		RegistryHash: RegistryHash(id.String()),
	}

	p.log.Info("Published content",
		slog.String("contentType", contentType.String()),
		slog.String("contentID", id.String()),
		slog.String("registryHash", receipt.RegistryHash.Hex()),
		slog.String("backend", p.storage.Name()))

	return receipt, nil
}
