package cryptoutils

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// Alice encrypts a message for Bob and signs it; Bob decrypts and verifies.
func TestSecureMessageExchange(t *testing.T) {
	aliceSigning := newSigningKeyPair(t)
	bob := newEncryptionKeyPair(t)
	mallory := newSigningKeyPair(t)

	message := "Hi Bob, this is Alice!"
	ciphertext, err := Encrypt(message, bob.PublicKey)
	require.NoError(t, err)
	signature, err := Sign(message, aliceSigning.PrivateKey)
	require.NoError(t, err)

	decrypted, err := Decrypt(ciphertext, bob.PrivateKey)
	require.NoError(t, err)
	require.Equal(t, message, decrypted)

	valid, err := Verify(decrypted, signature, aliceSigning.PublicKey)
	require.NoError(t, err)
	require.True(t, valid)

	valid, err = Verify(decrypted, signature, mallory.PublicKey)
	require.NoError(t, err)
	require.False(t, valid)
}

func TestConcurrentUseOfSharedKeys(t *testing.T) {
	enc := newEncryptionKeyPair(t)
	sig := newSigningKeyPair(t)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			message := fmt.Sprintf("message %d", i)

			ciphertext, err := Encrypt(message, enc.PublicKey)
			if err != nil {
				errs <- err
				return
			}
			decrypted, err := Decrypt(ciphertext, enc.PrivateKey)
			if err != nil {
				errs <- err
				return
			}
			if decrypted != message {
				errs <- fmt.Errorf("got %q, want %q", decrypted, message)
				return
			}

			signature, err := Sign(message, sig.PrivateKey)
			if err != nil {
				errs <- err
				return
			}
			valid, err := Verify(message, signature, sig.PublicKey)
			if err != nil {
				errs <- err
				return
			}
			if !valid {
				errs <- fmt.Errorf("signature for %q did not verify", message)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
}
