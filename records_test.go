package slp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/slp/internal/h5/core"
)

func TestGetFloatLegacyDefault(t *testing.T) {
	row := core.CompoundValue{"instance_score": float32(0.75)}

	require.InDelta(t, 0.75, getFloat(row, "instance_score", math.NaN()), 1e-6)
	require.True(t, math.IsNaN(getFloat(row, "tracking_score", math.NaN())))
}

func TestGetIntLegacyDefault(t *testing.T) {
	row := core.CompoundValue{"track": int32(3)}

	require.Equal(t, 3, getInt(row, "track", -1))
	require.Equal(t, -1, getInt(row, "from_predicted", -1))
}

func TestGetBoolLegacyDefault(t *testing.T) {
	row := core.CompoundValue{"visible": int64(0)}

	require.False(t, getBool(row, "visible", true))
	require.True(t, getBool(row, "complete", true))
}

func TestDecodeInstancesAppliesDefaults(t *testing.T) {
	rows := []core.CompoundValue{
		{"instance_id": int32(0), "frame_id": int32(0), "skeleton": int32(0), "point_id_start": int32(0), "point_id_end": int32(2)},
	}

	out := decodeInstances(rows)
	require.Len(t, out, 1)
	require.Equal(t, instanceTypeUser, out[0].InstanceType)
	require.Equal(t, -1, out[0].Track)
	require.Equal(t, -1, out[0].FromPredicted)
	require.True(t, math.IsNaN(out[0].InstanceScore))
	require.Equal(t, float64(0), out[0].TrackingScore)
}

func TestDecodePointsDefaultsMissingCoordsToNaN(t *testing.T) {
	rows := []core.CompoundValue{{"visible": true, "complete": true}}

	out := decodePoints(rows)
	require.Len(t, out, 1)
	require.True(t, math.IsNaN(out[0].X))
	require.True(t, math.IsNaN(out[0].Y))
	require.True(t, out[0].Visible)
}
