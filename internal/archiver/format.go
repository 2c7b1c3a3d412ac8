package archiver

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

type CompressionFormat string

const (
	FormatTar   CompressionFormat = "tar"
	FormatGzip  CompressionFormat = "gz"
	FormatBzip2 CompressionFormat = "bz2"
	FormatXz    CompressionFormat = "xz"
	FormatZstd  CompressionFormat = "zst"
)

var ErrInvalidCompression = errors.New("invalid compression: must be 'tar', 'gz', 'bz2', 'xz', or 'zst'")

// ParseFormat validates a compression mode string. The empty string means
// plain uncompressed tar.
func ParseFormat(s string) (CompressionFormat, error) {
	switch CompressionFormat(s) {
	case "", FormatTar:
		return FormatTar, nil
	case FormatGzip:
		return FormatGzip, nil
	case FormatBzip2:
		return FormatBzip2, nil
	case FormatXz:
		return FormatXz, nil
	case FormatZstd:
		return FormatZstd, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrInvalidCompression, s)
	}
}

func (f CompressionFormat) Extension() string {
	switch f {
	case FormatGzip:
		return ".tar.gz"
	case FormatBzip2:
		return ".tar.bz2"
	case FormatXz:
		return ".tar.xz"
	case FormatZstd:
		return ".tar.zst"
	default:
		return ".tar"
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// newCompressor wraps w with the compressor for f. FormatTar passes through.
func newCompressor(w io.Writer, f CompressionFormat) (io.WriteCloser, error) {
	switch f {
	case FormatTar:
		return nopWriteCloser{w}, nil
	case FormatGzip:
		return gzip.NewWriter(w), nil
	case FormatBzip2:
		bw, err := bzip2.NewWriter(w, &bzip2.WriterConfig{Level: bzip2.DefaultCompression})
		if err != nil {
			return nil, fmt.Errorf("bzip2 writer: %w", err)
		}
		return bw, nil
	case FormatXz:
		xw, err := xz.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("xz writer: %w", err)
		}
		return xw, nil
	case FormatZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		return zw, nil
	default:
		return nil, fmt.Errorf("%w: got %q", ErrInvalidCompression, f)
	}
}
