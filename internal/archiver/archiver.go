package archiver

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zeebo/blake3"
)

// Options configures an Archiver. MaxChunkBytes bounds the sum of declared
// source sizes placed into one chunk, not the on-disk archive size; zero or
// negative means a single unbounded chunk.
type Options struct {
	Compression   CompressionFormat
	StripPrefix   bool
	MaxChunkBytes int64
}

// EntryRecord describes one entry written into a chunk.
type EntryRecord struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	Digest string `json:"digest"`
}

// ChunkResult describes one finalized chunk. Bytes is the sum of declared
// source sizes, Files the number of entries.
type ChunkResult struct {
	Filename string        `json:"filename"`
	Files    int           `json:"files"`
	Bytes    int64         `json:"bytes"`
	Entries  []EntryRecord `json:"entries"`
}

// SinkFactory opens the output sink for the chunk with the given 1-based
// index and reports the name recorded for it. The archiver closes every sink
// it opens.
type SinkFactory func(index int) (filename string, w io.WriteCloser, err error)

var ErrBadPattern = errors.New("output pattern must contain exactly one %d placeholder")

type Archiver struct {
	store ObjectStore
	opts  Options
}

// New validates opts and returns an Archiver bound to store. An unrecognized
// compression mode fails here, before any network call or file creation.
func New(store ObjectStore, opts Options) (*Archiver, error) {
	format, err := ParseFormat(string(opts.Compression))
	if err != nil {
		return nil, err
	}
	opts.Compression = format
	return &Archiver{store: store, opts: opts}, nil
}

// StreamToTar streams every object under prefix into a single archive on w,
// regardless of any chunk budget. Returns the number of entries written. The
// caller owns w; the archive trailer is flushed before return.
func (a *Archiver) StreamToTar(ctx context.Context, prefix string, w io.Writer) (int, error) {
	results, err := a.run(ctx, prefix, 0, func(int) (string, io.WriteCloser, error) {
		return "", nopWriteCloser{w}, nil
	})
	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Files, nil
}

// ArchiveToFile archives every object under prefix into a single file at
// path. The file is created up front even if the prefix matches nothing.
func (a *Archiver) ArchiveToFile(ctx context.Context, prefix, path string) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	count, err := a.StreamToTar(ctx, prefix, f)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		return count, fmt.Errorf("close %s: %w", path, closeErr)
	}
	return count, err
}

// ArchiveChunked streams objects under prefix into size-bounded chunks, one
// sink per chunk. No sink is opened for an empty listing.
func (a *Archiver) ArchiveChunked(ctx context.Context, prefix string, sinks SinkFactory) ([]ChunkResult, error) {
	if sinks == nil {
		return nil, errors.New("sink factory is required")
	}
	return a.run(ctx, prefix, a.opts.MaxChunkBytes, sinks)
}

// ArchiveToFiles runs ArchiveChunked with file sinks named by substituting
// the chunk index into pattern.
func (a *Archiver) ArchiveToFiles(ctx context.Context, prefix, pattern string) ([]ChunkResult, error) {
	sinks, err := FileSinkFactory(pattern)
	if err != nil {
		return nil, err
	}
	return a.ArchiveChunked(ctx, prefix, sinks)
}

// ValidatePattern checks that pattern holds exactly one %d substitution point.
func ValidatePattern(pattern string) error {
	if strings.Count(pattern, "%") != 1 || strings.Count(pattern, "%d") != 1 {
		return fmt.Errorf("%w: got %q", ErrBadPattern, pattern)
	}
	return nil
}

// FileSinkFactory returns a SinkFactory creating local files from pattern,
// e.g. "archive_%d.tar" yields archive_1.tar, archive_2.tar, ...
func FileSinkFactory(pattern string) (SinkFactory, error) {
	if err := ValidatePattern(pattern); err != nil {
		return nil, err
	}
	return func(index int) (string, io.WriteCloser, error) {
		name := fmt.Sprintf(pattern, index)
		f, err := os.Create(name)
		if err != nil {
			return "", nil, fmt.Errorf("create chunk file: %w", err)
		}
		return name, f, nil
	}, nil
}

// openChunk is the single chunk accepting writes. Exactly one is open at a
// time; it owns its sink and archive writer until finalized.
type openChunk struct {
	sink   io.WriteCloser
	aw     *archiveWriter
	result ChunkResult
}

// run is the chunk state machine shared by single and chunked modes. A chunk
// is rotated when the next object would overflow budget and the chunk already
// holds at least one entry, so a single oversized object is never refused.
// On failure the open writer and sink are still closed before the error
// propagates; the partial chunk file is left for the caller to deal with.
func (a *Archiver) run(ctx context.Context, prefix string, budget int64, sinks SinkFactory) ([]ChunkResult, error) {
	var (
		results []ChunkResult
		cur     *openChunk
		index   int
	)

	finalize := func() error {
		awErr := cur.aw.Close()
		sinkErr := cur.sink.Close()
		cur = nil
		if awErr != nil {
			return awErr
		}
		if sinkErr != nil {
			return fmt.Errorf("close chunk sink: %w", sinkErr)
		}
		return nil
	}

	err := forEachObject(ctx, a.store, prefix, func(rec ObjectRecord) error {
		name := entryName(rec.Key, prefix, a.opts.StripPrefix)
		if name == "" {
			return nil
		}

		if cur != nil && budget > 0 && cur.result.Files > 0 && cur.result.Bytes+rec.Size > budget {
			finished := cur.result
			if err := finalize(); err != nil {
				return err
			}
			results = append(results, finished)
		}

		if cur == nil {
			index++
			filename, sink, err := sinks(index)
			if err != nil {
				return fmt.Errorf("open chunk %d: %w", index, err)
			}
			aw, err := newArchiveWriter(sink, a.opts.Compression)
			if err != nil {
				_ = sink.Close()
				return err
			}
			cur = &openChunk{sink: sink, aw: aw, result: ChunkResult{Filename: filename}}
		}

		body, err := a.store.GetObject(ctx, rec.Key)
		if err != nil {
			return fmt.Errorf("get object %s: %w", rec.Key, err)
		}
		hasher := blake3.New()
		writeErr := cur.aw.WriteEntry(name, rec.Size, io.TeeReader(body, hasher))
		closeErr := body.Close()
		if writeErr != nil {
			return writeErr
		}
		if closeErr != nil {
			return fmt.Errorf("close object body %s: %w", rec.Key, closeErr)
		}

		cur.result.Files++
		cur.result.Bytes += rec.Size
		cur.result.Entries = append(cur.result.Entries, EntryRecord{
			Name:   name,
			Size:   rec.Size,
			Digest: hex.EncodeToString(hasher.Sum(nil)),
		})
		return nil
	})
	if err != nil {
		if cur != nil {
			_ = cur.aw.Close()
			_ = cur.sink.Close()
		}
		return nil, err
	}

	if cur != nil {
		finished := cur.result
		if err := finalize(); err != nil {
			return nil, err
		}
		results = append(results, finished)
	}
	return results, nil
}
