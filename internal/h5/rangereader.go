package h5

import (
	"context"
	"net/http"
)

// RangedReaderAt is an io.ReaderAt that fetches byte ranges from a remote
// HDF5 container over HTTP Range requests, each hop routed through a single
// worker goroutine rather than opened ad hoc per call.
type RangedReaderAt struct {
	worker *rangeWorker
}

// NewRangedReaderAt starts a worker that serves ReadAt calls against url
// until Close is called or ctx is canceled.
func NewRangedReaderAt(ctx context.Context, client *http.Client, url string) *RangedReaderAt {
	return &RangedReaderAt{worker: newRangeWorker(ctx, client, url)}
}

// ReadAt implements io.ReaderAt by issuing an HTTP Range GET for len(p)
// bytes starting at off.
func (r *RangedReaderAt) ReadAt(p []byte, off int64) (int, error) {
	return r.worker.fetch(off, int64(len(p)), p)
}

// Close stops the backing worker. Safe to call once.
func (r *RangedReaderAt) Close() error {
	r.worker.stop()
	return nil
}
