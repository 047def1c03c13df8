package slp

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/scigolib/slp/internal/h5"
)

// embeddedLayout distinguishes the two on-disk shapes an embedded video
// dataset's bytes may take (SPEC_FULL.md §4.5).
type embeddedLayout int

const (
	layoutVlenBlobs embeddedLayout = iota
	layoutContiguousEncoded
	layoutRawPixels
)

// embeddedVideoBackend serves decoded frames from a Video whose bytes live
// inside the host SLP file. The dataset value is fetched once and retained
// until Close, per the caching rule in SPEC_FULL.md §4.5.
type embeddedVideoBackend struct {
	reader h5.Reader
	video  *Video
	cache  *frameCache

	loaded       bool
	layout       embeddedLayout
	vlenBlobs    [][]byte
	contiguous   []byte
	offsets      []int
	frameCount   int
	frameNumbers map[int]int // external index -> position; nil means identity
	width        int
	height       int
	channels     int
}

func newEmbeddedVideoBackend(reader h5.Reader, video *Video, cacheCapacity int) *embeddedVideoBackend {
	return &embeddedVideoBackend{
		reader: reader,
		video:  video,
		cache:  newFrameCache(cacheCapacity),
	}
}

func (b *embeddedVideoBackend) ensureLoaded() error {
	if b.loaded {
		return nil
	}

	item, err := b.reader.Get(b.video.Dataset)
	if err != nil {
		return newError(InvalidSlp, "embedded video dataset lookup failed", err)
	}
	if item == nil {
		return newError(InvalidSlp, fmt.Sprintf("embedded video dataset %q not found", b.video.Dataset), nil)
	}

	shape, err := b.reader.Shape(item)
	if err != nil {
		return newError(InvalidSlp, "embedded video dataset shape read failed", err)
	}
	declaredFrames := 0
	if len(shape) > 0 {
		declaredFrames = int(shape[0])
	}
	if len(shape) >= 4 {
		b.height = int(shape[1])
		b.width = int(shape[2])
		b.channels = int(shape[3])
	}

	b.frameNumbers = loadFrameNumbers(b.reader, b.video.Dataset)

	if !isEncodedFormat(b.video.Format) {
		raw, err := b.reader.RawBytes(item)
		if err != nil {
			return newError(DecodeError, "embedded raw pixel buffer read failed", err)
		}
		b.layout = layoutRawPixels
		b.contiguous = raw
		b.frameCount = declaredFrames
		b.loaded = true
		return nil
	}

	blobs, err := b.reader.VlenBlobs(item)
	if err == nil {
		b.layout = layoutVlenBlobs
		b.vlenBlobs = blobs
		b.frameCount = len(blobs)
		b.loaded = true
		return nil
	}

	raw, err := b.reader.RawBytes(item)
	if err != nil {
		return newError(DecodeError, "embedded contiguous buffer read failed", err)
	}
	if !looksLikeContiguousFrames(raw, b.video.Format, declaredFrames) {
		return newError(UnsupportedDataset, "embedded video dataset layout not recognized", nil)
	}

	b.layout = layoutContiguousEncoded
	b.contiguous = raw
	b.offsets = scanFrameOffsets(raw, declaredFrames)
	b.frameCount = len(b.offsets)
	b.loaded = true
	return nil
}

// loadFrameNumbers looks up the optional sibling "frame_numbers" dataset
// conventionally stored alongside an embedded video dataset, mapping an
// external frame index to its stored position. Absent when not present.
func loadFrameNumbers(reader h5.Reader, datasetPath string) map[int]int {
	siblingPath := frameNumbersPath(datasetPath)
	item, err := reader.Get(siblingPath)
	if err != nil || item == nil {
		return nil
	}
	value, err := reader.Value(item)
	if err != nil || value.Kind != h5.ValueFloats {
		return nil
	}
	mapping := make(map[int]int, len(value.Floats))
	for pos, externalIdx := range value.Floats {
		mapping[int(externalIdx)] = pos
	}
	return mapping
}

func frameNumbersPath(datasetPath string) string {
	idx := strings.LastIndex(datasetPath, "/")
	if idx < 0 {
		return "frame_numbers"
	}
	return datasetPath[:idx] + "/frame_numbers"
}

// GetFrame decodes and returns the frame at externalIdx, or nil if that
// frame's payload fails to decode — a per-frame anomaly that must not abort
// a load in progress (SPEC_FULL.md §7).
func (b *embeddedVideoBackend) GetFrame(externalIdx int) (image.Image, error) {
	if err := b.ensureLoaded(); err != nil {
		return nil, err
	}

	pos := externalIdx
	if b.frameNumbers != nil {
		mapped, ok := b.frameNumbers[externalIdx]
		if !ok {
			return nil, nil
		}
		pos = mapped
	}

	if img, ok := b.cache.get(pos); ok {
		return img, nil
	}

	img, err := b.decodeFrame(pos)
	if err != nil {
		return nil, nil //nolint:nilerr // per-frame decode failures are non-fatal by design
	}

	b.cache.put(pos, img)
	return img, nil
}

func (b *embeddedVideoBackend) decodeFrame(pos int) (image.Image, error) {
	switch b.layout {
	case layoutVlenBlobs:
		if pos < 0 || pos >= len(b.vlenBlobs) {
			return nil, fmt.Errorf("frame position %d out of range", pos)
		}
		return decodeEncodedFrame(b.vlenBlobs[pos])

	case layoutContiguousEncoded:
		if pos < 0 || pos >= len(b.offsets) {
			return nil, fmt.Errorf("frame position %d out of range", pos)
		}
		start := b.offsets[pos]
		end := len(b.contiguous)
		if pos+1 < len(b.offsets) {
			end = b.offsets[pos+1]
		}
		return decodeEncodedFrame(b.contiguous[start:end])

	case layoutRawPixels:
		return b.decodeRawFrame(pos)

	default:
		return nil, fmt.Errorf("unknown embedded video layout")
	}
}

func decodeEncodedFrame(payload []byte) (image.Image, error) {
	if bytes.HasPrefix(payload, pngMagic) {
		return png.Decode(bytes.NewReader(payload))
	}
	if bytes.HasPrefix(payload, jpegMagic) {
		return jpeg.Decode(bytes.NewReader(payload))
	}
	return nil, fmt.Errorf("unrecognized encoded frame payload")
}

func (b *embeddedVideoBackend) decodeRawFrame(pos int) (image.Image, error) {
	frameSize := b.height * b.width * b.channels
	if frameSize == 0 {
		return nil, fmt.Errorf("raw embedded video frame shape unknown")
	}
	start := pos * frameSize
	end := start + frameSize
	if start < 0 || end > len(b.contiguous) {
		return nil, fmt.Errorf("raw embedded video frame %d out of range", pos)
	}
	pixels := b.contiguous[start:end]

	img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	bgr := b.video.ChannelOrder == "BGR"
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			srcOff := (y*b.width + x) * b.channels
			r, g, bl, a := channelsAt(pixels, srcOff, b.channels, bgr)
			dstOff := img.PixOffset(x, y)
			img.Pix[dstOff] = r
			img.Pix[dstOff+1] = g
			img.Pix[dstOff+2] = bl
			img.Pix[dstOff+3] = a
		}
	}
	return img, nil
}

func channelsAt(pixels []byte, off, channels int, bgr bool) (r, g, b, a byte) {
	a = 255
	switch channels {
	case 1:
		v := pixels[off]
		return v, v, v, a
	case 3:
		c0, c1, c2 := pixels[off], pixels[off+1], pixels[off+2]
		if bgr {
			return c2, c1, c0, a
		}
		return c0, c1, c2, a
	case 4:
		c0, c1, c2, c3 := pixels[off], pixels[off+1], pixels[off+2], pixels[off+3]
		if bgr {
			return c2, c1, c0, c3
		}
		return c0, c1, c2, c3
	default:
		return 0, 0, 0, a
	}
}

// Close releases backend resources. The frame cache holds plain Go values
// so there is nothing to explicitly free beyond letting it be garbage
// collected.
func (b *embeddedVideoBackend) Close() error {
	b.vlenBlobs = nil
	b.contiguous = nil
	return nil
}
