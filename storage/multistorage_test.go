package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/ruteri/did-crypto-service/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockStorageBackend struct {
	mock.Mock
	name string
}

func (m *MockStorageBackend) Fetch(ctx context.Context, id interfaces.ContentID, contentType interfaces.ContentType) ([]byte, error) {
	args := m.Called(ctx, id, contentType)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockStorageBackend) Store(ctx context.Context, data []byte, contentType interfaces.ContentType) (interfaces.ContentID, error) {
	args := m.Called(ctx, data, contentType)
	return args.Get(0).(interfaces.ContentID), args.Error(1)
}

func (m *MockStorageBackend) Available(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}

func (m *MockStorageBackend) Name() string        { return m.name }
func (m *MockStorageBackend) LocationURI() string { return "mock:" }

// availableMock returns a mock whose Available answer is fixed.
func availableMock(name string, available bool) *MockStorageBackend {
	m := &MockStorageBackend{name: name}
	m.On("Available", mock.Anything).Return(available)
	return m
}

func newMulti(backends ...*MockStorageBackend) *MultiStorageBackend {
	list := make([]interfaces.StorageBackend, len(backends))
	for i, b := range backends {
		list[i] = b
	}
	return NewMultiStorageBackend(list, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func assertMocks(t *testing.T, backends ...*MockStorageBackend) {
	t.Helper()
	for _, b := range backends {
		b.AssertExpectations(t)
	}
}

var (
	sealedEnvelope = []byte(`{"ciphertext":"AAAA","signature":"BBBB","signer_public_key":"CCCC"}`)
	envelopeID     = interfaces.ComputeID(sealedEnvelope)
	errMirrorDown  = errors.New("mirror down")
)

func TestMultiStorageBackend_Available(t *testing.T) {
	assert.True(t, newMulti(availableMock("a", false), availableMock("b", true)).Available(context.Background()))
	assert.False(t, newMulti(availableMock("a", false), availableMock("b", false)).Available(context.Background()))
	assert.False(t, newMulti().Available(context.Background()))
}

func TestMultiStorageBackend_FetchFallsThrough(t *testing.T) {
	down := availableMock("down", false)
	failing := availableMock("failing", true)
	failing.On("Fetch", mock.Anything, envelopeID, interfaces.EnvelopeType).Return(nil, errMirrorDown)
	good := availableMock("good", true)
	good.On("Fetch", mock.Anything, envelopeID, interfaces.EnvelopeType).Return(sealedEnvelope, nil)
	unused := &MockStorageBackend{name: "unused"}

	data, err := newMulti(down, failing, good, unused).Fetch(context.Background(), envelopeID, interfaces.EnvelopeType)
	assert.NoError(t, err)
	assert.Equal(t, sealedEnvelope, data)
	assertMocks(t, down, failing, good, unused)
}

func TestMultiStorageBackend_FetchErrors(t *testing.T) {
	t.Run("nothing reachable", func(t *testing.T) {
		_, err := newMulti(availableMock("a", false)).Fetch(context.Background(), envelopeID, interfaces.EnvelopeType)
		assert.ErrorIs(t, err, interfaces.ErrBackendUnavailable)
	})

	t.Run("missing everywhere", func(t *testing.T) {
		a := availableMock("a", true)
		a.On("Fetch", mock.Anything, envelopeID, interfaces.PublicKeyType).Return(nil, interfaces.ErrContentNotFound)
		b := availableMock("b", false)

		_, err := newMulti(a, b).Fetch(context.Background(), envelopeID, interfaces.PublicKeyType)
		assert.ErrorIs(t, err, interfaces.ErrContentNotFound)
		assertMocks(t, a, b)
	})

	t.Run("every mirror failing", func(t *testing.T) {
		a := availableMock("a", true)
		a.On("Fetch", mock.Anything, envelopeID, interfaces.EnvelopeType).Return(nil, errMirrorDown)

		_, err := newMulti(a).Fetch(context.Background(), envelopeID, interfaces.EnvelopeType)
		assert.ErrorIs(t, err, errMirrorDown)
		assert.NotErrorIs(t, err, interfaces.ErrContentNotFound)
	})
}

func TestMultiStorageBackend_Store(t *testing.T) {
	t.Run("partial success is success", func(t *testing.T) {
		a := availableMock("a", true)
		a.On("Store", mock.Anything, sealedEnvelope, interfaces.EnvelopeType).Return(interfaces.ContentID{}, errMirrorDown)
		b := availableMock("b", true)
		b.On("Store", mock.Anything, sealedEnvelope, interfaces.EnvelopeType).Return(envelopeID, nil)
		c := availableMock("c", false)

		id, err := newMulti(a, b, c).Store(context.Background(), sealedEnvelope, interfaces.EnvelopeType)
		assert.NoError(t, err)
		assert.Equal(t, envelopeID, id)
		assertMocks(t, a, b, c)
	})

	t.Run("every mirror failing", func(t *testing.T) {
		a := availableMock("a", true)
		a.On("Store", mock.Anything, sealedEnvelope, interfaces.EnvelopeType).Return(interfaces.ContentID{}, errMirrorDown)

		id, err := newMulti(a).Store(context.Background(), sealedEnvelope, interfaces.EnvelopeType)
		assert.ErrorIs(t, err, errMirrorDown)
		assert.Equal(t, interfaces.ContentID{}, id)
	})

	t.Run("nothing reachable", func(t *testing.T) {
		_, err := newMulti(availableMock("a", false)).Store(context.Background(), sealedEnvelope, interfaces.EnvelopeType)
		assert.ErrorIs(t, err, interfaces.ErrBackendUnavailable)
	})
}

func TestMultiStorageBackend_LocationURI(t *testing.T) {
	multi := newMulti(&MockStorageBackend{name: "a"}, &MockStorageBackend{name: "b"})
	assert.Equal(t, "multi:[mock:,mock:]", multi.LocationURI())
	assert.Equal(t, "multi-storage", multi.Name())
}
