package h5

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
)

// rangeRequest is one byte-range fetch, tagged with a correlation id so a
// dropped/obsolete response can be told apart from a live one.
type rangeRequest struct {
	id     string
	start  int64
	length int64
	buf    []byte
	respCh chan rangeResponse
}

type rangeResponse struct {
	id  string
	n   int
	err error
}

// rangeWorker is the off-thread worker the Streaming Reader's io.ReaderAt is
// built on: a single goroutine serializing HTTP Range GETs against one URL,
// addressed by a request/response channel pair exactly as SPEC_FULL.md §5
// describes the streaming worker boundary.
type rangeWorker struct {
	ctx    context.Context
	cancel context.CancelFunc
	client *http.Client
	url    string
	reqCh  chan rangeRequest
	done   chan struct{}
}

func newRangeWorker(ctx context.Context, client *http.Client, url string) *rangeWorker {
	wctx, cancel := context.WithCancel(ctx)
	w := &rangeWorker{
		ctx:    wctx,
		cancel: cancel,
		client: client,
		url:    url,
		reqCh:  make(chan rangeRequest),
		done:   make(chan struct{}),
	}
	go w.loop()
	return w
}

func (w *rangeWorker) loop() {
	defer close(w.done)
	for {
		select {
		case <-w.ctx.Done():
			return
		case req, ok := <-w.reqCh:
			if !ok {
				return
			}
			n, err := w.doFetch(req)
			select {
			case req.respCh <- rangeResponse{id: req.id, n: n, err: err}:
			case <-w.ctx.Done():
				// Dropped: the caller abandoned this request; discard the result.
			}
		}
	}
}

func (w *rangeWorker) doFetch(req rangeRequest) (int, error) {
	httpReq, err := http.NewRequestWithContext(w.ctx, http.MethodGet, w.url, nil)
	if err != nil {
		return 0, fmt.Errorf("range request %s: %w", req.id, err)
	}
	end := req.start + req.length - 1
	httpReq.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", req.start, end))

	resp, err := w.client.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("range request %s: %w", req.id, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusPartialContent && resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("range request %s: unexpected status %d", req.id, resp.StatusCode)
	}

	n, err := io.ReadFull(resp.Body, req.buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return n, fmt.Errorf("range request %s: %w", req.id, err)
	}
	return n, nil
}

// fetch issues one correlated range request and blocks for its response,
// or returns early if the worker's context is canceled mid-flight.
func (w *rangeWorker) fetch(start, length int64, buf []byte) (int, error) {
	respCh := make(chan rangeResponse, 1)
	req := rangeRequest{id: uuid.New().String(), start: start, length: length, buf: buf, respCh: respCh}

	select {
	case w.reqCh <- req:
	case <-w.ctx.Done():
		return 0, w.ctx.Err()
	}

	select {
	case resp := <-respCh:
		return resp.n, resp.err
	case <-w.ctx.Done():
		return 0, w.ctx.Err()
	}
}

func (w *rangeWorker) stop() {
	w.cancel()
	<-w.done
}
