package config

import (
	"errors"
	"fmt"

	"S3Tar/internal/archiver"
)

var ErrMissingS3 = errors.New("s3 configuration is required (endpoint is optional, bucket is not)")

func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.S3 == nil || cfg.S3.Bucket == "" {
		return ErrMissingS3
	}
	if cfg.Archive != nil {
		if _, err := archiver.ParseFormat(cfg.Archive.Compression); err != nil {
			return err
		}
		if cfg.Archive.ChunkSizeMB < 0 {
			return fmt.Errorf("archive.chunk_size_mb must not be negative: got %d", cfg.Archive.ChunkSizeMB)
		}
		if cfg.Archive.OutputPattern != "" {
			if err := archiver.ValidatePattern(cfg.Archive.OutputPattern); err != nil {
				return err
			}
		}
	}
	return nil
}
