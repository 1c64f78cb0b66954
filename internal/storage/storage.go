package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/certmint/certmint/internal/config"
)

// ErrObjectNotFound is returned when a named image does not exist.
var ErrObjectNotFound = errors.New("object not found")

// Storage holds the bytes of rasterized certificate images. Names are flat
// (one object per certificate record, named by record id).
type Storage interface {
	// Save stores an object under name, overwriting nothing: names are
	// unique per record and never reused.
	Save(ctx context.Context, name string, r io.Reader) error

	// Open returns a reader for the object, or ErrObjectNotFound.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// List returns all stored object names.
	List(ctx context.Context) ([]string, error)

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, name string) error
}

// New creates the storage backend selected by config: local disk by default,
// or any S3-compatible service (AWS S3, MinIO, R2, DO Spaces, etc.).
func New(cfg *config.Config) (Storage, error) {
	switch cfg.StorageDriver {
	case "", "disk":
		return NewDiskStorage(cfg.CertsDir)
	case "s3":
		return NewS3Storage(S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
