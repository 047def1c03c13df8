package slp

import (
	"math"

	"github.com/scigolib/slp/internal/h5/core"
)

// frameRow is one decoded row of the "frames" compound dataset.
type frameRow struct {
	FrameID         int
	Video           int
	FrameIdx        int
	InstanceIDStart int
	InstanceIDEnd   int
}

// instanceType values stored in the "instances" compound dataset.
const (
	instanceTypeUser      = 0
	instanceTypePredicted = 1
)

// instanceRow is one decoded row of the "instances" compound dataset.
// Legacy producer files may omit from_predicted, instance_score, or
// tracking_score; callers get the documented defaults (-1, NaN, 0).
type instanceRow struct {
	InstanceID    int
	InstanceType  int
	FrameID       int
	Skeleton      int
	Track         int // -1 means no track
	FromPredicted int // -1 means no back-reference
	InstanceScore float64
	PointIDStart  int
	PointIDEnd    int
	TrackingScore float64
}

// pointRow is one decoded row of the "points" compound dataset.
type pointRow struct {
	X        float64
	Y        float64
	Visible  bool
	Complete bool
}

// predPointRow is one decoded row of the "pred_points" compound dataset.
type predPointRow struct {
	pointRow
	Score float64
}

func decodeFrames(rows []core.CompoundValue) []frameRow {
	out := make([]frameRow, len(rows))
	for i, row := range rows {
		out[i] = frameRow{
			FrameID:         getInt(row, "frame_id", 0),
			Video:           getInt(row, "video", 0),
			FrameIdx:        getInt(row, "frame_idx", 0),
			InstanceIDStart: getInt(row, "instance_id_start", 0),
			InstanceIDEnd:   getInt(row, "instance_id_end", 0),
		}
	}
	return out
}

func decodeInstances(rows []core.CompoundValue) []instanceRow {
	out := make([]instanceRow, len(rows))
	for i, row := range rows {
		out[i] = instanceRow{
			InstanceID:    getInt(row, "instance_id", 0),
			InstanceType:  getInt(row, "instance_type", instanceTypeUser),
			FrameID:       getInt(row, "frame_id", 0),
			Skeleton:      getInt(row, "skeleton", 0),
			Track:         getInt(row, "track", -1),
			FromPredicted: getInt(row, "from_predicted", -1),
			InstanceScore: getFloat(row, "instance_score", math.NaN()),
			PointIDStart:  getInt(row, "point_id_start", 0),
			PointIDEnd:    getInt(row, "point_id_end", 0),
			TrackingScore: getFloat(row, "tracking_score", 0),
		}
	}
	return out
}

func decodePoints(rows []core.CompoundValue) []pointRow {
	out := make([]pointRow, len(rows))
	for i, row := range rows {
		out[i] = pointRow{
			X:        getFloat(row, "x", math.NaN()),
			Y:        getFloat(row, "y", math.NaN()),
			Visible:  getBool(row, "visible", true),
			Complete: getBool(row, "complete", true),
		}
	}
	return out
}

func decodePredPoints(rows []core.CompoundValue) []predPointRow {
	out := make([]predPointRow, len(rows))
	for i, row := range rows {
		out[i] = predPointRow{
			pointRow: pointRow{
				X:        getFloat(row, "x", math.NaN()),
				Y:        getFloat(row, "y", math.NaN()),
				Visible:  getBool(row, "visible", true),
				Complete: getBool(row, "complete", true),
			},
			Score: getFloat(row, "score", math.NaN()),
		}
	}
	return out
}

func getFloat(row core.CompoundValue, key string, def float64) float64 {
	v, ok := row[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return def
	}
}

func getInt(row core.CompoundValue, key string, def int) int {
	v, ok := row[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	default:
		return def
	}
}

func getBool(row core.CompoundValue, key string, def bool) bool {
	v, ok := row[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case bool:
		return n
	case int32:
		return n != 0
	case int64:
		return n != 0
	case float64:
		return n != 0
	default:
		return def
	}
}
