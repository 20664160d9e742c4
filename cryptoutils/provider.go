package cryptoutils

import (
	"crypto/rand"
	"io"
)

const (
	// KeyBits is the RSA modulus size of every generated key.
	KeyBits = 2048

	// PublicExponent is the RSA public exponent of every generated key.
	PublicExponent = 65537
)

// Provider is a handle to the cryptography engine. It carries the
// randomness source used for key generation and OAEP padding and is safe
// for concurrent use.
type Provider struct {
	random io.Reader
}

// NewProvider returns a Provider drawing randomness from random. A nil
// reader selects crypto/rand.
func NewProvider(random io.Reader) *Provider {
	if random == nil {
		random = rand.Reader
	}
	return &Provider{random: random}
}

// DefaultProvider draws randomness from crypto/rand. The package-level
// functions delegate to it.
var DefaultProvider = NewProvider(rand.Reader)
