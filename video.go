package slp

import "image"

// VideoBackendKind distinguishes how a Video's frames are stored.
type VideoBackendKind int

// Video backend kinds.
const (
	// BackendExternal means frames live in an external media file named by
	// Video.Filename (a container video the core does not decode itself).
	BackendExternal VideoBackendKind = iota
	// BackendEmbedded means frames live inside the host SLP file at
	// Video.Dataset, served by the embedded video backend (§4.5).
	BackendEmbedded
)

// Video describes one video referenced by labeled frames, suggestions, or a
// recording session.
type Video struct {
	Filename     string
	Backend      VideoBackendKind
	Dataset      string // HDF5 path, set only when Backend == BackendEmbedded
	Format       string
	Shape        [4]int // [T, H, W, C]; zero value means unknown
	FPS          float64
	ChannelOrder string // "RGB" or "BGR"; empty means unspecified
	SourceVideo  string

	// frames serves decoded frames for an embedded video; nil for an
	// external video or when the loader was built with WithOpenVideos(false).
	frames videoFrameSource
}

// videoFrameSource is implemented by embeddedVideoBackend; kept as an
// interface here so Video stays a plain data type independent of the HDF5
// access layer.
type videoFrameSource interface {
	GetFrame(idx int) (image.Image, error)
	Close() error
}

// GetFrame decodes and returns the frame at idx for an embedded video. It
// returns (nil, nil) if this video has no attached frame source (external
// video, or videos were not opened) or if that specific frame fails to
// decode.
func (v *Video) GetFrame(idx int) (image.Image, error) {
	if v.frames == nil {
		return nil, nil
	}
	return v.frames.GetFrame(idx)
}

// embeddedFilenameSentinel is the producer convention marking a Video
// descriptor whose frames live inside the host SLP file rather than an
// external file.
const embeddedFilenameSentinel = "."

// IsEmbedded reports whether this video's frames are stored in the host
// SLP file.
func (v *Video) IsEmbedded() bool {
	return v.Backend == BackendEmbedded
}
