// Package storage provides object storage implementations for organization
// branding assets (logos, signatures, stamps) and avatars.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrObjectNotFound is returned when a storage key does not exist
var ErrObjectNotFound = errors.New("object not found")

// ObjectStorage abstracts the object store. Keys are opaque strings owned by
// the caller; the store never interprets them.
type ObjectStorage interface {
	// GenerateUploadURL returns a presigned PUT URL the client uploads to
	// directly, plus the moment it expires
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL returns a presigned GET URL for a stored object
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// Upload writes data server-side. Used for rendered PDFs; user uploads go
	// through presigned URLs instead.
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error

	// Download fetches an object's bytes. Used to inline branding images into
	// rendered documents.
	Download(ctx context.Context, storageKey string) ([]byte, error)

	// DeleteObject removes an object; deleting a missing key is not an error
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists reports whether the key holds an object
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}
