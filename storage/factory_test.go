package storage

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/ruteri/did-crypto-service/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLocation(t *testing.T, uri string) interfaces.StorageBackendLocation {
	t.Helper()
	location, err := interfaces.NewStorageBackendLocation(uri)
	require.NoError(t, err)
	return location
}

func TestStorageBackendFor(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	factory := NewStorageBackendFactory(logger)
	baseDir := t.TempDir()

	tests := []struct {
		name         string
		uri          string
		expectedName string
		expectError  bool
	}{
		{name: "file", uri: "file://" + baseDir, expectedName: "file-" + filepath.Base(baseDir)},
		{name: "ipfs", uri: "ipfs://127.0.0.1:5001/?timeout=10s", expectedName: "ipfs-127.0.0.1-5001"},
		{name: "ipfs default port", uri: "ipfs://127.0.0.1", expectedName: "ipfs-127.0.0.1-5001"},
		{name: "ipfs bad timeout", uri: "ipfs://127.0.0.1:5001/?timeout=soon", expectError: true},
		{name: "s3", uri: "s3://key:secret@envelopes/did/?region=eu-west-1", expectedName: "s3-envelopes"},
		{name: "vault", uri: "vault://127.0.0.1:8200/secret/didcrypto?tls=false&token=root", expectedName: "vault-secret-didcrypto"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, err := factory.StorageBackendFor(mustLocation(t, tt.uri))
			if tt.expectError {
				assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedName, backend.Name())
		})
	}
}

func TestStorageBackendForUnsupportedScheme(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	factory := NewStorageBackendFactory(logger)

	_, err := factory.StorageBackendFor(interfaces.StorageBackendLocation{Raw: "ftp://host", Scheme: "ftp"})
	assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)

	_, err = factory.BackendFromURIs([]string{"ftp://host"})
	assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)

	_, err = factory.BackendFromURIs(nil)
	assert.Error(t, err)
}

func TestBackendFromURIs(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	factory := NewStorageBackendFactory(logger)

	single, err := factory.BackendFromURIs([]string{"file://" + t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, single)

	multi, err := factory.BackendFromURIs([]string{"file://" + t.TempDir(), "file://" + t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &MultiStorageBackend{}, multi)

	data := []byte("public key")
	id, err := multi.Store(context.Background(), data, interfaces.PublicKeyType)
	require.NoError(t, err)

	fetched, err := multi.Fetch(context.Background(), id, interfaces.PublicKeyType)
	require.NoError(t, err)
	assert.Equal(t, data, fetched)
}

func TestCreateMultiBackendSkipsInvalid(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	factory := NewStorageBackendFactory(logger)

	_, err := factory.CreateMultiBackend([]interfaces.StorageBackendLocation{
		{Raw: "ftp://host", Scheme: "ftp"},
	})
	assert.Error(t, err)

	backend, err := factory.CreateMultiBackend([]interfaces.StorageBackendLocation{
		{Raw: "ftp://host", Scheme: "ftp"},
		mustLocation(t, "file://"+t.TempDir()),
	})
	require.NoError(t, err)
	assert.Equal(t, "multi-storage", backend.Name())
}
