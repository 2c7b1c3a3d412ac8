package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

func Write(cfg *Config, path string) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Starter returns the template written by `s3tar init`.
func Starter() *Config {
	strip := true
	return &Config{
		S3: &S3Config{
			Endpoint:  "http://localhost:9000",
			Region:    "us-east-1",
			AccessKey: "changeme",
			SecretKey: "changeme",
			Bucket:    "my-bucket",
		},
		Archive: &ArchiveConfig{
			Compression:   "gz",
			ChunkSizeMB:   0,
			StripPrefix:   &strip,
			OutputPattern: "archive_%d.tar.gz",
		},
	}
}
