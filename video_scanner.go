package slp

import "bytes"

var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
var jpegMagic = []byte{0xFF, 0xD8, 0xFF}

// singleFrameSizeThreshold is the size above which a buffer starting with a
// known magic is assumed to hold more than one frame even when shape[0]
// does not clearly say so.
const singleFrameSizeThreshold = 1 << 20

// looksLikeContiguousFrames applies the detection heuristic from
// SPEC_FULL.md §4.5: buf starts with a known encoded-image magic, the
// declared format is an encoded format, and either the declared frame count
// exceeds one or buf is larger than a single-frame threshold.
func looksLikeContiguousFrames(buf []byte, format string, declaredFrames int) bool {
	if !isEncodedFormat(format) {
		return false
	}
	if !(bytes.HasPrefix(buf, pngMagic) || bytes.HasPrefix(buf, jpegMagic)) {
		return false
	}
	return declaredFrames > 1 || len(buf) > singleFrameSizeThreshold
}

func isEncodedFormat(format string) bool {
	switch format {
	case "png", "jpg", "jpeg":
		return true
	default:
		return false
	}
}

// scanFrameOffsets locates frame start positions in a contiguous encoded
// buffer by scanning for PNG/JPEG magic bytes, per SPEC_FULL.md §4.5. It
// records at most expectedFrames offsets and stops scanning once that count
// is reached (invariant 9). After each match it advances by
// len(magic)-1 bytes rather than attempting to parse the full frame, since
// magic-byte collisions inside encoded payloads are rare enough to accept.
func scanFrameOffsets(buf []byte, expectedFrames int) []int {
	var offsets []int
	i := 0
	for i < len(buf) && (expectedFrames <= 0 || len(offsets) < expectedFrames) {
		magic, ok := matchMagicAt(buf, i)
		if !ok {
			i++
			continue
		}
		offsets = append(offsets, i)
		i += len(magic) - 1
		if len(magic) == 1 {
			i++
		}
	}
	return offsets
}

func matchMagicAt(buf []byte, i int) ([]byte, bool) {
	if bytes.HasPrefix(buf[i:], pngMagic) {
		return pngMagic, true
	}
	if bytes.HasPrefix(buf[i:], jpegMagic) {
		return jpegMagic, true
	}
	return nil, false
}
