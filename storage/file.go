package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ruteri/did-crypto-service/interfaces"
)

// FileBackend keeps each document in <baseDir>/<content type>/<content id>.
// Writes go through a temporary file and a rename, so a reader never sees a
// partially written envelope.
type FileBackend struct {
	baseDir string
	log     *slog.Logger
}

func NewFileBackend(baseDir string, log *slog.Logger) (*FileBackend, error) {
	b := &FileBackend{baseDir: baseDir, log: log}
	for _, contentType := range interfaces.ContentTypes {
		if err := os.MkdirAll(b.namespaceDir(contentType), 0o755); err != nil {
			return nil, fmt.Errorf("creating %s namespace: %w", contentType, err)
		}
	}
	return b, nil
}

// Fetch reads a document back and checks that it still hashes to id.
func (b *FileBackend) Fetch(ctx context.Context, id interfaces.ContentID, contentType interfaces.ContentType) ([]byte, error) {
	data, err := os.ReadFile(b.documentPath(id, contentType))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, interfaces.ErrContentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}
	if !interfaces.ComputeID(data).Equal(id) {
		return nil, fmt.Errorf("stored %s %s does not match its content ID", contentType, id)
	}

	b.log.Debug("read document", slog.String("content_id", id.String()), slog.String("type", contentType.String()))
	return data, nil
}

// Store is a no-op when the document is already present.
func (b *FileBackend) Store(ctx context.Context, data []byte, contentType interfaces.ContentType) (interfaces.ContentID, error) {
	id := interfaces.ComputeID(data)
	target := b.documentPath(id, contentType)
	if _, err := os.Stat(target); err == nil {
		return id, nil
	}

	dir := b.namespaceDir(contentType)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return id, fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}

	tmp, err := os.CreateTemp(dir, ".incoming-*")
	if err != nil {
		return id, fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return id, fmt.Errorf("writing %s: %w", contentType, err)
	}
	if err := tmp.Close(); err != nil {
		return id, fmt.Errorf("writing %s: %w", contentType, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return id, err
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return id, fmt.Errorf("publishing %s: %w", contentType, err)
	}

	b.log.Debug("wrote document", slog.String("content_id", id.String()), slog.String("path", target))
	return id, nil
}

func (b *FileBackend) Available(ctx context.Context) bool {
	info, err := os.Stat(b.baseDir)
	if err != nil || !info.IsDir() {
		b.log.Debug("file backend unavailable", slog.String("dir", b.baseDir), "err", err)
		return false
	}
	return true
}

func (b *FileBackend) Name() string {
	return "file-" + filepath.Base(b.baseDir)
}

func (b *FileBackend) LocationURI() string {
	return "file://" + b.baseDir
}

func (b *FileBackend) namespaceDir(contentType interfaces.ContentType) string {
	return filepath.Join(b.baseDir, contentType.String())
}

func (b *FileBackend) documentPath(id interfaces.ContentID, contentType interfaces.ContentType) string {
	return filepath.Join(b.namespaceDir(contentType), id.String())
}
