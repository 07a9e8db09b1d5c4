package resource

import (
	"context"
	"io"
)

// RateLimitedWriter wraps an io.Writer with the controller's IO budget.
// Snapshot saves use it so bulk uploads do not starve foreground traffic.
type RateLimitedWriter struct {
	w   io.Writer
	rc  *Controller
	ctx context.Context
}

// NewRateLimitedWriter creates a new RateLimitedWriter.
func NewRateLimitedWriter(ctx context.Context, w io.Writer, rc *Controller) *RateLimitedWriter {
	return &RateLimitedWriter{
		w:   w,
		rc:  rc,
		ctx: ctx,
	}
}

// Write forwards p in chunks no larger than the limiter's burst, waiting
// for the budget before each chunk. Writes larger than the per-second limit
// throttle rather than fail.
func (w *RateLimitedWriter) Write(p []byte) (int, error) {
	written := 0
	for written < len(p) {
		end := written + w.rc.ioChunk(len(p)-written)
		if err := w.rc.AcquireIO(w.ctx, end-written); err != nil {
			return written, err
		}
		n, err := w.w.Write(p[written:end])
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// RateLimitedReader wraps an io.Reader with the controller's IO budget.
type RateLimitedReader struct {
	r   io.Reader
	rc  *Controller
	ctx context.Context
}

// NewRateLimitedReader creates a new RateLimitedReader.
func NewRateLimitedReader(ctx context.Context, r io.Reader, rc *Controller) *RateLimitedReader {
	return &RateLimitedReader{
		r:   r,
		rc:  rc,
		ctx: ctx,
	}
}

// Read fills at most one burst of the limiter per call and charges the
// bytes actually read, so oversized buffers neither fail nor overcharge the
// budget.
func (r *RateLimitedReader) Read(p []byte) (int, error) {
	if chunk := r.rc.ioChunk(len(p)); chunk < len(p) {
		p = p[:chunk]
	}
	n, err := r.r.Read(p)
	if n > 0 {
		if acqErr := r.rc.AcquireIO(r.ctx, n); acqErr != nil {
			return n, acqErr
		}
	}
	return n, err
}
