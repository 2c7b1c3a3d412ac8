package s3

import (
	"context"
	"io"
)

// uploadSink pipes writes into a running multipart upload. Close shuts the
// write side and waits for the upload goroutine, so archive chunks can be
// streamed to S3 without touching local disk.
type uploadSink struct {
	pw   *io.PipeWriter
	done chan error
}

// NewUploadSink returns a WriteCloser whose contents land at key via
// multipart upload. The returned sink must be closed exactly once; Close
// reports the upload error, if any.
func (c *Client) NewUploadSink(ctx context.Context, key string, partSizeBytes int64) io.WriteCloser {
	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() {
		err := c.UploadMultipart(ctx, key, pr, partSizeBytes)
		if err != nil {
			// Unblock the writer; subsequent writes fail with err.
			_ = pr.CloseWithError(err)
		} else {
			_ = pr.Close()
		}
		done <- err
	}()
	return &uploadSink{pw: pw, done: done}
}

func (s *uploadSink) Write(p []byte) (int, error) {
	return s.pw.Write(p)
}

func (s *uploadSink) Close() error {
	_ = s.pw.Close()
	return <-s.done
}
