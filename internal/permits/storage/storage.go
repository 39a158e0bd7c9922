// Package storage abstracts where uploaded document content lives.
package storage

import (
	"context"
	"errors"
	"io"
	"strings"
)

var (
	ErrNotFound   = errors.New("storage: object not found")
	ErrExists     = errors.New("storage: object already exists")
	ErrInvalidKey = errors.New("storage: invalid key")
)

// Storage is a flat key/value blob store.
type Storage interface {
	// Save writes r under key and returns the number of bytes written.
	// Existing keys are never overwritten.
	Save(ctx context.Context, key string, r io.Reader) (int64, error)

	// Open returns the content stored under key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes key. Deleting a missing key returns ErrNotFound.
	Delete(ctx context.Context, key string) error

	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)
}

// ValidateKey rejects keys that could address anything other than a single
// flat object.
func ValidateKey(key string) error {
	if key == "" || key == "." || key == ".." ||
		strings.ContainsAny(key, `/\`) || strings.ContainsRune(key, 0) {
		return ErrInvalidKey
	}
	return nil
}
