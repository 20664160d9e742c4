package interfaces

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContentID(t *testing.T) {
	id := ComputeID([]byte("hello"))
	require.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", id.String())

	fromHex, err := NewContentIDFromHex("0x" + id.String())
	require.NoError(t, err)
	require.True(t, id.Equal(fromHex))

	fromBytes, err := NewContentIDFromBytes(id.Bytes())
	require.NoError(t, err)
	require.Equal(t, id, fromBytes)

	_, err = NewContentIDFromHex("abcd")
	require.Error(t, err)

	_, err = NewContentIDFromHex(string(make([]byte, 64)))
	require.Error(t, err)

	_, err = NewContentIDFromBytes([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestContentTypeString(t *testing.T) {
	require.Equal(t, "envelope", EnvelopeType.String())
	require.Equal(t, "pubkey", PublicKeyType.String())
	require.Equal(t, "unknown", ContentType(42).String())
}

func TestNewStorageBackendLocation(t *testing.T) {
	location, err := NewStorageBackendLocation("s3://key:secret@bucket/prefix?region=eu-west-1&public=yes")
	require.NoError(t, err)
	require.True(t, location.IsS3())
	require.Equal(t, "bucket", location.Host)
	require.Equal(t, "/prefix", location.Path)
	require.Equal(t, "key:secret", location.Auth)
	require.Equal(t, "eu-west-1", location.GetParam("region"))
	require.True(t, location.GetParamBool("public"))
	require.Equal(t, "s3://key:secret@bucket/prefix?region=eu-west-1&public=yes", location.String())

	for _, uri := range []string{"file:///tmp/x", "ipfs://localhost:5001", "vault://vault:8200/secret"} {
		_, err := NewStorageBackendLocation(uri)
		require.NoError(t, err, uri)
	}

	_, err = NewStorageBackendLocation("onchain://0x1234")
	require.ErrorIs(t, err, ErrInvalidLocationURI)

	_, err = NewStorageBackendLocation("://bad")
	require.Error(t, err)
}
