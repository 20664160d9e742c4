package main

import (
	"context"

	"github.com/ruteri/did-crypto-service/cryptoutils"
)

// cryptoBackend is satisfied by a local Provider (through localBackend) and
// by the sidecar client.
type cryptoBackend interface {
	GenerateEncryptionKeyPair(ctx context.Context) (cryptoutils.EncryptionKeyPair, error)
	GenerateSigningKeyPair(ctx context.Context) (cryptoutils.SigningKeyPair, error)
	Encrypt(ctx context.Context, plaintext string, recipient cryptoutils.EncryptionPublicKey) (cryptoutils.Ciphertext, error)
	Decrypt(ctx context.Context, ciphertext cryptoutils.Ciphertext, holder cryptoutils.EncryptionPrivateKey) (string, error)
	Sign(ctx context.Context, message string, signer cryptoutils.SigningPrivateKey) (cryptoutils.Signature, error)
	Verify(ctx context.Context, message string, signature cryptoutils.Signature, signer cryptoutils.SigningPublicKey) (bool, error)
}

type localBackend struct {
	p *cryptoutils.Provider
}

func (b localBackend) GenerateEncryptionKeyPair(context.Context) (cryptoutils.EncryptionKeyPair, error) {
	return b.p.GenerateEncryptionKeyPair()
}

func (b localBackend) GenerateSigningKeyPair(context.Context) (cryptoutils.SigningKeyPair, error) {
	return b.p.GenerateSigningKeyPair()
}

func (b localBackend) Encrypt(_ context.Context, plaintext string, recipient cryptoutils.EncryptionPublicKey) (cryptoutils.Ciphertext, error) {
	return b.p.Encrypt(plaintext, recipient)
}

func (b localBackend) Decrypt(_ context.Context, ciphertext cryptoutils.Ciphertext, holder cryptoutils.EncryptionPrivateKey) (string, error) {
	return b.p.Decrypt(ciphertext, holder)
}

func (b localBackend) Sign(_ context.Context, message string, signer cryptoutils.SigningPrivateKey) (cryptoutils.Signature, error) {
	return b.p.Sign(message, signer)
}

func (b localBackend) Verify(_ context.Context, message string, signature cryptoutils.Signature, signer cryptoutils.SigningPublicKey) (bool, error) {
	return b.p.Verify(message, signature, signer)
}
