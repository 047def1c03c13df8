package slp

// Camera is one calibrated view within a RecordingSession.
type Camera struct {
	Name        string
	Rotation    [3]float64     // rvec
	Translation [3]float64     // tvec
	Matrix      *[3][3]float64 // intrinsic matrix; nil if not provided
	Distortions []float64      // nil if not provided
}

// CameraGroup is the set of calibrated cameras for one RecordingSession.
type CameraGroup struct {
	Cameras []*Camera
}

// ByName returns the camera with the given name, or nil if absent.
func (g *CameraGroup) ByName(name string) *Camera {
	for _, c := range g.Cameras {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// InstanceGroup maps each Camera in a session to the single Instance that
// view contributed to one frame index.
type InstanceGroup struct {
	ByCamera map[*Camera]AnyInstance
}

// FrameGroup is all InstanceGroups observed at one frame index across a
// RecordingSession's cameras.
type FrameGroup struct {
	FrameIdx       int
	InstanceGroups []*InstanceGroup
}

// RecordingSession links a CameraGroup to per-camera videos and indexes
// FrameGroups by frame index for multi-view calibrated capture.
type RecordingSession struct {
	Cameras       *CameraGroup
	VideoByCamera map[*Camera]*Video
	FrameGroups   map[int]*FrameGroup
}

// FrameGroupAt returns the FrameGroup at the given frame index, or nil.
func (s *RecordingSession) FrameGroupAt(frameIdx int) *FrameGroup {
	return s.FrameGroups[frameIdx]
}
