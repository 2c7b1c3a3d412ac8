package archiver

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Manifest records one archive run: where the objects came from, how they
// were packed, and the digest of every entry.
type Manifest struct {
	Bucket      string        `json:"bucket"`
	Prefix      string        `json:"prefix"`
	Compression string        `json:"compression"`
	CreatedAt   time.Time     `json:"created_at"`
	Files       int           `json:"files"`
	Bytes       int64         `json:"bytes"`
	Chunks      []ChunkResult `json:"chunks"`
}

func BuildManifest(bucket, prefix string, format CompressionFormat, chunks []ChunkResult, at time.Time) Manifest {
	m := Manifest{
		Bucket:      bucket,
		Prefix:      prefix,
		Compression: string(format),
		CreatedAt:   at.UTC(),
		Chunks:      chunks,
	}
	for _, c := range chunks {
		m.Files += c.Files
		m.Bytes += c.Bytes
	}
	return m
}

func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("manifest marshal: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}
	return nil
}

func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest decode: %w", err)
	}
	return &m, nil
}
