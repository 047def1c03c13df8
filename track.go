package slp

// Track is a named identity thread shared across frames. Equality is by
// object identity within a loaded Labels document — callers must compare
// *Track pointers, never Names, to test whether two Instances share a track.
type Track struct {
	Name string
}
