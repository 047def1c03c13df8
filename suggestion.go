package slp

// Suggestion marks a frame of interest for labeling, without necessarily
// carrying any instances yet.
type Suggestion struct {
	Video    *Video
	FrameIdx int
	Metadata map[string]interface{} // opaque producer metadata, passed through verbatim
}
