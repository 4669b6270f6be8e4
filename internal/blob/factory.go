package blob

import (
	"context"
	"fmt"

	fsstore "materialsmc/internal/infra/blob/fs"
	memorystore "materialsmc/internal/infra/blob/memory"
	s3store "materialsmc/internal/infra/blob/s3"
)

// S3Config re-exports the S3 driver configuration.
type S3Config = s3store.Config

// Config selects and configures a cache driver.
type Config struct {
	Driver Driver // fs|s3|memory, default fs
	Root   string // fs root; empty selects the per-user cache directory
	S3     S3Config
}

// Open returns the Store described by cfg.
func Open(ctx context.Context, cfg Config) (Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverFilesystem
	}
	switch driver {
	case DriverFilesystem:
		return NewFilesystem(cfg.Root)
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}

// NewFilesystem constructs a filesystem-backed Store rooted at root.
func NewFilesystem(root string) (Store, error) {
	return fsstore.New(root)
}

// NewMemory returns an in-memory Store.
func NewMemory() Store { return memorystore.New() }

// NewS3 constructs an S3-backed Store.
func NewS3(ctx context.Context, cfg S3Config) (Store, error) {
	return s3store.New(ctx, cfg)
}

// S3ConfigFromEnv reads the MATERIALSMC_S3_* variables through getenv.
func S3ConfigFromEnv(getenv func(string) string) S3Config { return s3store.FromEnv(getenv) }

// NewMockS3ForTests exposes the in-memory S3 fake for cross-package tests.
func NewMockS3ForTests() Store { return s3store.NewMockForTests() }
