package cryptoutils

import (
	"crypto/rsa"
	"crypto/x509"
	"fmt"
)

// GenerateEncryptionKeyPair produces a fresh RSA key pair for Encrypt and
// Decrypt. The public key is exported as SPKI and the private key as PKCS#8,
// both base-64 encoded.
func (p *Provider) GenerateEncryptionKeyPair() (EncryptionKeyPair, error) {
	pub, priv, err := p.generateKeyPair()
	if err != nil {
		return EncryptionKeyPair{}, err
	}
	return EncryptionKeyPair{
		PublicKey:  EncryptionPublicKey(pub),
		PrivateKey: EncryptionPrivateKey(priv),
	}, nil
}

// GenerateSigningKeyPair produces a fresh RSA key pair for Sign and Verify.
// The encodings match GenerateEncryptionKeyPair; only the Go types differ.
func (p *Provider) GenerateSigningKeyPair() (SigningKeyPair, error) {
	pub, priv, err := p.generateKeyPair()
	if err != nil {
		return SigningKeyPair{}, err
	}
	return SigningKeyPair{
		PublicKey:  SigningPublicKey(pub),
		PrivateKey: SigningPrivateKey(priv),
	}, nil
}

func (p *Provider) generateKeyPair() (string, string, error) {
	privateKey, err := rsa.GenerateKey(p.random, KeyBits)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrKeyGenerationFailure, err)
	}
	if privateKey.E != PublicExponent {
		return "", "", fmt.Errorf("%w: unexpected public exponent %d", ErrKeyGenerationFailure, privateKey.E)
	}

	publicKeyBytes, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrKeyGenerationFailure, err)
	}

	privateKeyBytes, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrKeyGenerationFailure, err)
	}

	return Encode(publicKeyBytes), Encode(privateKeyBytes), nil
}

// GenerateEncryptionKeyPair calls DefaultProvider.GenerateEncryptionKeyPair.
func GenerateEncryptionKeyPair() (EncryptionKeyPair, error) {
	return DefaultProvider.GenerateEncryptionKeyPair()
}

// GenerateSigningKeyPair calls DefaultProvider.GenerateSigningKeyPair.
func GenerateSigningKeyPair() (SigningKeyPair, error) {
	return DefaultProvider.GenerateSigningKeyPair()
}
