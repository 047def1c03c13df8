package slp

import (
	"context"
	"net/http"

	"github.com/scigolib/slp/internal/h5"
	"github.com/scigolib/slp/internal/h5/core"
)

// Load reads a complete SLP document from an in-memory buffer.
func Load(data []byte, opts ...LoaderOption) (*Labels, error) {
	cfg := NewLoaderConfig(opts...)
	reader, err := h5.OpenLocalBuffer(data)
	if err != nil {
		return nil, newError(InvalidSlp, "buffer open failed", err)
	}
	return load(reader, cfg)
}

// LoadFile reads a complete SLP document from a local file.
func LoadFile(path string, opts ...LoaderOption) (*Labels, error) {
	cfg := NewLoaderConfig(opts...)
	if cfg.FilenameHint == "" {
		cfg.FilenameHint = path
	}
	reader, err := h5.OpenLocalFile(path)
	if err != nil {
		return nil, newError(InvalidSlp, "file open failed", err)
	}
	return load(reader, cfg)
}

// LoadStreaming reads a complete SLP document served at url, fetching only
// the byte ranges needed to resolve each access, subject to cfg.H5Stream's
// transport mode (auto/range/download).
func LoadStreaming(ctx context.Context, client *http.Client, url string, opts ...LoaderOption) (*Labels, error) {
	cfg := NewLoaderConfig(opts...)
	if cfg.FilenameHint == "" {
		cfg.FilenameHint = url
	}

	reader, err := h5.OpenStreaming(ctx, client, url, h5.StreamMode(cfg.H5Stream))
	if err != nil {
		return nil, newNetworkError("streaming open failed", err, ByteRange{})
	}
	if !reader.SupportsStreaming() {
		cfg.Logger.Warn("slp: ranged transport unavailable, fell back to full download", "url", url)
	}

	return load(reader, cfg)
}

// LoadMetadata reads only the JSON descriptors and dataset shapes of an SLP
// buffer, without decoding the compound record tables holding the actual
// point coordinates.
func LoadMetadata(data []byte, opts ...LoaderOption) (*LiteResult, error) {
	cfg := NewLoaderConfig(opts...)
	reader, err := h5.OpenLocalBuffer(data)
	if err != nil {
		return nil, newError(InvalidSlp, "buffer open failed", err)
	}
	defer func() { _ = reader.Close() }()
	return loadSlpMetadata(reader, cfg)
}

// load runs the full dependency-ordered pipeline over an already-open
// Reader: metadata/JSON decode, compound-table decode, cross-linker
// stitching, invariant checks, then (per cfg.OpenVideos) wiring embedded
// video backends. On any error it closes reader itself, since its caller
// never receives a Labels to call Close on.
func load(reader h5.Reader, cfg LoaderConfig) (*Labels, error) {
	lite, err := loadSlpMetadata(reader, cfg)
	if err != nil {
		_ = reader.Close()
		return nil, err
	}

	frameRows, err := readCompoundRows(reader, "frames")
	if err != nil {
		_ = reader.Close()
		return nil, err
	}
	instanceRows, err := readCompoundRows(reader, "instances")
	if err != nil {
		_ = reader.Close()
		return nil, err
	}
	pointRows, err := readCompoundRows(reader, "points")
	if err != nil {
		_ = reader.Close()
		return nil, err
	}
	predPointRows, err := readCompoundRows(reader, "pred_points")
	if err != nil {
		_ = reader.Close()
		return nil, err
	}

	labeledFrames, err := linkLabels(
		lite.Skeletons, lite.Tracks, lite.Videos,
		decodeFrames(frameRows), decodeInstances(instanceRows),
		decodePoints(pointRows), decodePredPoints(predPointRows),
	)
	if err != nil {
		_ = reader.Close()
		return nil, err
	}

	labels := &Labels{
		Skeletons:     lite.Skeletons,
		Videos:        lite.Videos,
		Tracks:        lite.Tracks,
		LabeledFrames: labeledFrames,
		Suggestions:   lite.Suggestions,
		Sessions:      lite.Sessions,
		Provenance:    lite.Provenance,
	}

	if err := labels.checkInvariants(); err != nil {
		_ = reader.Close()
		return nil, err
	}

	needsReader := false
	if cfg.OpenVideos {
		for _, v := range labels.Videos {
			if v.IsEmbedded() {
				v.frames = newEmbeddedVideoBackend(reader, v, cfg.ImageCacheCapacity)
				needsReader = true
			}
		}
	}
	if needsReader {
		labels.reader = reader
	} else {
		_ = reader.Close()
	}

	return labels, nil
}

func readCompoundRows(reader h5.Reader, path string) ([]core.CompoundValue, error) {
	item, err := reader.Get(path)
	if err != nil {
		return nil, newError(InvalidSlp, "dataset lookup failed: "+path, err)
	}
	if item == nil {
		return nil, nil
	}
	value, err := reader.Value(item)
	if err != nil {
		return nil, newError(UnsupportedDataset, "dataset value read failed: "+path, err)
	}
	if value.Kind != h5.ValueCompoundRows {
		return nil, newError(UnsupportedDataset, path+" is not a compound dataset", nil)
	}
	return value.Rows, nil
}
