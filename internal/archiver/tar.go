package archiver

import (
	"archive/tar"
	"fmt"
	"io"
	"strings"
	"time"
)

// archiveWriter writes tar entries through an optional compressor. Entries
// must be written sequentially; Close finalizes the tar trailer and then the
// compressor, and is safe to call more than once.
type archiveWriter struct {
	tw         *tar.Writer
	compressor io.WriteCloser
	closed     bool
}

func newArchiveWriter(w io.Writer, format CompressionFormat) (*archiveWriter, error) {
	cw, err := newCompressor(w, format)
	if err != nil {
		return nil, err
	}
	return &archiveWriter{tw: tar.NewWriter(cw), compressor: cw}, nil
}

// WriteEntry writes a header declaring size, then copies body into the
// archive. The tar writer itself rejects a body shorter or longer than the
// declared size.
func (a *archiveWriter) WriteEntry(name string, size int64, body io.Reader) error {
	hdr := &tar.Header{
		Name:     name,
		Size:     size,
		Mode:     0o644,
		ModTime:  time.Now().UTC(),
		Typeflag: tar.TypeReg,
	}
	if err := a.tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write header %s: %w", name, err)
	}
	if _, err := io.Copy(a.tw, body); err != nil {
		return fmt.Errorf("write entry %s: %w", name, err)
	}
	return nil
}

func (a *archiveWriter) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	if err := a.tw.Close(); err != nil {
		_ = a.compressor.Close()
		return fmt.Errorf("close tar writer: %w", err)
	}
	if err := a.compressor.Close(); err != nil {
		return fmt.Errorf("close compressor: %w", err)
	}
	return nil
}

// entryName derives the archive entry name for key. With strip enabled the
// listing prefix is removed along with any leading slashes. An empty result
// is the prefix marker itself and means the object carries no archivable name.
func entryName(key, prefix string, strip bool) string {
	if strip && strings.HasPrefix(key, prefix) {
		return strings.TrimLeft(key[len(prefix):], "/")
	}
	return key
}
