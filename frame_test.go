package slp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLabeledFrameInstancePartitioning(t *testing.T) {
	sk := &Skeleton{Name: "fly"}
	pred0 := &PredictedInstance{Skeleton: sk}
	pred1 := &PredictedInstance{Skeleton: sk}
	user := &Instance{Skeleton: sk, FromPredicted: pred0}

	frame := &LabeledFrame{Instances: []AnyInstance{pred0, pred1, user}}

	require.Equal(t, []*PredictedInstance{pred0, pred1}, frame.PredictedInstances())
	require.Equal(t, []*Instance{user}, frame.UserInstances())
	require.Equal(t, []*PredictedInstance{pred1}, frame.UnusedPredictions())
}

func TestLabeledFrameUnusedPredictionsAllUnused(t *testing.T) {
	sk := &Skeleton{Name: "fly"}
	pred := &PredictedInstance{Skeleton: sk}
	frame := &LabeledFrame{Instances: []AnyInstance{pred}}

	require.Equal(t, []*PredictedInstance{pred}, frame.UnusedPredictions())
}
