package slp

// InstanceKind discriminates an AnyInstance as user-labeled or
// model-predicted, used to order a LabeledFrame's instance list.
type InstanceKind int

// Instance kinds, in the frame-ordering sense: predicted instances sort
// before user instances within a LabeledFrame.
const (
	KindPredicted InstanceKind = iota
	KindUser
)

// AnyInstance is satisfied by both *Instance and *PredictedInstance, letting
// a LabeledFrame hold an ordered, heterogeneous instance list as spec'd.
type AnyInstance interface {
	Kind() InstanceKind
	SkeletonRef() *Skeleton
	TrackRef() *Track
}

// Instance is a user-labeled pose: a full point vector aligned to a
// skeleton's node order.
type Instance struct {
	Skeleton *Skeleton
	Track    *Track
	Points   []Point

	// FromPredicted, if set, is the PredictedInstance in the same
	// LabeledFrame this instance was derived/corrected from.
	FromPredicted *PredictedInstance
	// TrackingScore is the track-assignment confidence; 0 if not set.
	TrackingScore float64
}

// Kind implements AnyInstance.
func (ins *Instance) Kind() InstanceKind { return KindUser }

// SkeletonRef implements AnyInstance.
func (ins *Instance) SkeletonRef() *Skeleton { return ins.Skeleton }

// TrackRef implements AnyInstance.
func (ins *Instance) TrackRef() *Track { return ins.Track }

// PredictedInstance is a model-produced pose: a full PredictedPoint vector
// aligned to a skeleton's node order, plus an overall confidence Score.
type PredictedInstance struct {
	Skeleton *Skeleton
	Track    *Track
	Points   []PredictedPoint

	// Score is the model's overall confidence for this instance.
	Score float64
	// TrackingScore is the track-assignment confidence; 0 if not set.
	TrackingScore float64
}

// Kind implements AnyInstance.
func (p *PredictedInstance) Kind() InstanceKind { return KindPredicted }

// SkeletonRef implements AnyInstance.
func (p *PredictedInstance) SkeletonRef() *Skeleton { return p.Skeleton }

// TrackRef implements AnyInstance.
func (p *PredictedInstance) TrackRef() *Track { return p.Track }
