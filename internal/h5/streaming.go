package h5

import (
	"context"
	"fmt"
	"io"
	"net/http"

	lru "github.com/elastic/go-freelru"
	"golang.org/x/sync/singleflight"
)

// StreamMode selects how OpenStreaming fetches container bytes.
type StreamMode int

// Streaming modes mirroring LoaderConfig.H5Stream in the slp package.
const (
	StreamAuto StreamMode = iota
	StreamRange
	StreamDownload
)

// fnv32 is the hash function go-freelru needs for a string-keyed cache.
func fnv32(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

// StreamingReader implements Reader over a remote SLP container, fetching
// only the byte ranges needed to resolve each Get/Attrs/Shape/Value call. It
// wraps a LocalReader opened against a RangedReaderAt, so the group/dataset
// traversal and datatype decoding logic is shared verbatim with the local
// backend; only the I/O underneath differs.
type StreamingReader struct {
	local     *LocalReader
	rangeAt   *RangedReaderAt
	metaCache *lru.SyncedLRU[string, *Item]
	group     singleflight.Group

	// downloaded is true when OpenStreaming fell back to a single full GET
	// instead of serving ranged reads, e.g. because the host does not
	// support Range requests.
	downloaded bool
}

// OpenStreaming opens an SLP container served at url. StreamRange insists on
// ranged fetches and fails if the server or the container's superblock
// can't be read that way; StreamDownload always does one full GET;
// StreamAuto tries ranged access first and falls back to a full download.
func OpenStreaming(ctx context.Context, client *http.Client, url string, mode StreamMode) (*StreamingReader, error) {
	if client == nil {
		client = http.DefaultClient
	}

	if mode == StreamDownload {
		return openStreamingByDownload(ctx, client, url)
	}

	rangeAt := NewRangedReaderAt(ctx, client, url)
	file, err := OpenReaderAt(rangeAt, rangeAt, -1)
	if err != nil {
		if mode == StreamRange {
			_ = rangeAt.Close()
			return nil, fmt.Errorf("ranged open failed: %w", err)
		}
		_ = rangeAt.Close()
		return openStreamingByDownload(ctx, client, url)
	}

	cache, err := lru.NewSynced[string, *Item](1024, fnv32)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("metadata cache init failed: %w", err)
	}

	return &StreamingReader{
		local:     NewLocalReader(file),
		rangeAt:   rangeAt,
		metaCache: cache,
	}, nil
}

func openStreamingByDownload(ctx context.Context, client *http.Client, url string) (*StreamingReader, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("download request build failed: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("full download failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("full download read failed: %w", err)
	}

	local, err := OpenLocalBuffer(data)
	if err != nil {
		return nil, err
	}

	cache, err := lru.NewSynced[string, *Item](1024, fnv32)
	if err != nil {
		_ = local.Close()
		return nil, fmt.Errorf("metadata cache init failed: %w", err)
	}

	return &StreamingReader{local: local, metaCache: cache, downloaded: true}, nil
}

// Get resolves path, caching the result and de-duplicating concurrent
// lookups of the same path behind a single in-flight fetch.
func (s *StreamingReader) Get(path string) (*Item, error) {
	if cached, ok := s.metaCache.Get(path); ok {
		return cached, nil
	}

	v, err, _ := s.group.Do(path, func() (interface{}, error) {
		return s.local.Get(path)
	})
	if err != nil {
		return nil, err
	}
	item, _ := v.(*Item)
	s.metaCache.Add(path, item)
	return item, nil
}

// Keys lists the root group's direct children.
func (s *StreamingReader) Keys() ([]string, error) { return s.local.Keys() }

// Attrs returns item's attributes.
func (s *StreamingReader) Attrs(item *Item) (map[string]AttrValue, error) { return s.local.Attrs(item) }

// Shape returns a dataset's dataspace dimensions.
func (s *StreamingReader) Shape(item *Item) ([]uint64, error) { return s.local.Shape(item) }

// Value decodes a dataset's payload.
func (s *StreamingReader) Value(item *Item) (Value, error) { return s.local.Value(item) }

// RawBytes reads a dataset's raw on-disk bytes.
func (s *StreamingReader) RawBytes(item *Item) ([]byte, error) { return s.local.RawBytes(item) }

// VlenBlobs reads a variable-length dataset's elements as independent blobs.
func (s *StreamingReader) VlenBlobs(item *Item) ([][]byte, error) { return s.local.VlenBlobs(item) }

// SupportsStreaming reports whether this instance is actually serving ranged
// reads, as opposed to having fallen back to a full download.
func (s *StreamingReader) SupportsStreaming() bool { return !s.downloaded }

// Close stops the range worker (if any) and releases the local File.
func (s *StreamingReader) Close() error {
	err := s.local.Close()
	if s.rangeAt != nil {
		if cerr := s.rangeAt.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
