package archiver

import (
	"path/filepath"
	"testing"
	"time"
)

func TestBuildManifest_Totals(t *testing.T) {
	chunks := []ChunkResult{
		{Filename: "a_1.tar", Files: 2, Bytes: 20},
		{Filename: "a_2.tar", Files: 1, Bytes: 10},
	}
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	m := BuildManifest("bkt", "data/", FormatGzip, chunks, at)
	if m.Files != 3 || m.Bytes != 30 {
		t.Errorf("totals = %d files %d bytes, want 3 files 30 bytes", m.Files, m.Bytes)
	}
	if m.Bucket != "bkt" || m.Prefix != "data/" || m.Compression != "gz" {
		t.Errorf("manifest header = %+v", m)
	}
	if !m.CreatedAt.Equal(at) {
		t.Errorf("created_at = %v, want %v", m.CreatedAt, at)
	}
}

func TestManifest_WriteReadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	m := BuildManifest("bkt", "p/", FormatTar, []ChunkResult{
		{
			Filename: "archive_1.tar",
			Files:    1,
			Bytes:    5,
			Entries:  []EntryRecord{{Name: "x", Size: 5, Digest: "abcd"}},
		},
	}, time.Now())
	if err := WriteManifest(path, m); err != nil {
		t.Fatal(err)
	}
	got, err := ReadManifest(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Files != 1 || got.Bytes != 5 {
		t.Errorf("roundtrip totals = %d/%d", got.Files, got.Bytes)
	}
	if len(got.Chunks) != 1 || got.Chunks[0].Entries[0].Digest != "abcd" {
		t.Errorf("roundtrip chunks = %+v", got.Chunks)
	}
}
