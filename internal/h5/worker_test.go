package h5

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func rangeTestServer(t *testing.T, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeContent(w, r, "container.h5", time.Time{}, bytes.NewReader(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRangedReaderAtReadAt(t *testing.T) {
	body := []byte("0123456789abcdef")
	srv := rangeTestServer(t, body)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRangedReaderAt(ctx, srv.Client(), srv.URL)
	defer func() { _ = r.Close() }()

	buf := make([]byte, 4)
	n, err := r.ReadAt(buf, 5)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, "5678", string(buf))
}

func TestRangedReaderAtConcurrentReadsAreSerialized(t *testing.T) {
	body := []byte("0123456789abcdef")
	srv := rangeTestServer(t, body)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRangedReaderAt(ctx, srv.Client(), srv.URL)
	defer func() { _ = r.Close() }()

	results := make(chan string, 2)
	go func() {
		buf := make([]byte, 3)
		_, _ = r.ReadAt(buf, 0)
		results <- string(buf)
	}()
	go func() {
		buf := make([]byte, 3)
		_, _ = r.ReadAt(buf, 10)
		results <- string(buf)
	}()

	got := map[string]bool{}
	got[<-results] = true
	got[<-results] = true
	require.True(t, got["012"])
	require.True(t, got["abc"])
}
