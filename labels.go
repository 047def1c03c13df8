package slp

// Labels is the root in-memory document produced by a load. It exclusively
// owns its Skeletons, Videos, Tracks, LabeledFrames, Sessions, and
// Suggestions; LabeledFrame owns its Instances; everything else is a shared
// reference valid for the lifetime of this Labels value. A Labels is
// immutable once returned by the loader.
type Labels struct {
	Skeletons     []*Skeleton
	Videos        []*Video
	Tracks        []*Track
	LabeledFrames []*LabeledFrame
	Suggestions   []*Suggestion
	Sessions      []*RecordingSession
	Provenance    map[string]interface{}

	// reader is kept open only when at least one video needed an embedded
	// frame source attached; Close releases it.
	reader closer
}

// closer is the subset of h5.Reader that Labels needs to release its
// backing container; kept local so this file stays independent of the
// h5 package's broader surface.
type closer interface {
	Close() error
}

// Close releases any embedded video backends and the underlying HDF5
// container opened for this document. Safe to call on a Labels built with
// WithOpenVideos(false), or more than once.
func (l *Labels) Close() error {
	var firstErr error
	for _, v := range l.Videos {
		if v.frames == nil {
			continue
		}
		if err := v.frames.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if l.reader != nil {
		if err := l.reader.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		l.reader = nil
	}
	return firstErr
}

// VideoIndex returns the position of v within Labels.Videos, or -1.
func (l *Labels) VideoIndex(v *Video) int {
	for i, cand := range l.Videos {
		if cand == v {
			return i
		}
	}
	return -1
}

// checkInvariants validates the cross-reference invariants required after a
// load (spec §3/§8, invariants 1-3): every frame's video is a document
// video, every instance's skeleton/track are document skeletons/tracks, and
// every from_predicted referent lives in the same frame. It is exercised by
// the loader after the stitching pass and by tests; it never mutates.
func (l *Labels) checkInvariants() error {
	videoSet := make(map[*Video]bool, len(l.Videos))
	for _, v := range l.Videos {
		videoSet[v] = true
	}
	skeletonSet := make(map[*Skeleton]bool, len(l.Skeletons))
	for _, sk := range l.Skeletons {
		skeletonSet[sk] = true
	}
	trackSet := make(map[*Track]bool, len(l.Tracks))
	for _, tr := range l.Tracks {
		trackSet[tr] = true
	}

	for _, frame := range l.LabeledFrames {
		if frame.Video != nil && !videoSet[frame.Video] {
			return newError(InvalidSlp, "labeled frame references a video outside Labels.Videos", nil)
		}

		predictedInFrame := make(map[*PredictedInstance]bool)
		for _, inst := range frame.Instances {
			if pred, ok := inst.(*PredictedInstance); ok {
				predictedInFrame[pred] = true
			}
		}

		for _, inst := range frame.Instances {
			sk := inst.SkeletonRef()
			if sk != nil && !skeletonSet[sk] {
				return newError(InvalidSlp, "instance references a skeleton outside Labels.Skeletons", nil)
			}
			tr := inst.TrackRef()
			if tr != nil && !trackSet[tr] {
				return newError(InvalidSlp, "instance references a track outside Labels.Tracks", nil)
			}
			if user, ok := inst.(*Instance); ok && user.FromPredicted != nil {
				if !predictedInFrame[user.FromPredicted] {
					return newError(InvalidSlp, "instance from_predicted referent is not in the same frame", nil)
				}
			}
		}
	}
	return nil
}
