package slp

// LabeledFrame is one annotated frame of a video: a frame index plus an
// ordered list of instances. Predicted instances always precede user
// instances within this list (a fixed ABI existing producer files depend on).
type LabeledFrame struct {
	Video     *Video
	FrameIdx  int
	Instances []AnyInstance
}

// UnusedPredictions returns the PredictedInstances in this frame that are
// not referenced by any user Instance's FromPredicted back-reference.
func (f *LabeledFrame) UnusedPredictions() []*PredictedInstance {
	referenced := make(map[*PredictedInstance]bool)
	for _, inst := range f.Instances {
		if user, ok := inst.(*Instance); ok && user.FromPredicted != nil {
			referenced[user.FromPredicted] = true
		}
	}

	var unused []*PredictedInstance
	for _, inst := range f.Instances {
		if pred, ok := inst.(*PredictedInstance); ok && !referenced[pred] {
			unused = append(unused, pred)
		}
	}
	return unused
}

// UserInstances returns the user-labeled instances in this frame, in order.
func (f *LabeledFrame) UserInstances() []*Instance {
	var out []*Instance
	for _, inst := range f.Instances {
		if user, ok := inst.(*Instance); ok {
			out = append(out, user)
		}
	}
	return out
}

// PredictedInstances returns the predicted instances in this frame, in order.
func (f *LabeledFrame) PredictedInstances() []*PredictedInstance {
	var out []*PredictedInstance
	for _, inst := range f.Instances {
		if pred, ok := inst.(*PredictedInstance); ok {
			out = append(out, pred)
		}
	}
	return out
}
