package slp

import "sort"

// linkLabels performs the cross-linker stitching pass described in
// SPEC_FULL.md §4.4: it turns the four flat record tables into an ordered
// slice of LabeledFrames, allocating each instance's point slice from the
// appropriate points/pred_points table, then resolving from_predicted
// back-references within each frame.
func linkLabels(
	skeletons []*Skeleton,
	tracks []*Track,
	videos []*Video,
	frames []frameRow,
	instanceRows []instanceRow,
	pointRows []pointRow,
	predPointRows []predPointRow,
) ([]*LabeledFrame, error) {
	built := make([]AnyInstance, len(instanceRows))
	fromPredictedIdx := make([]int, len(instanceRows))

	for i, row := range instanceRows {
		sk := skeletonAt(skeletons, row.Skeleton)
		tr := trackAt(tracks, row.Track)
		fromPredictedIdx[i] = -1

		if row.InstanceType == instanceTypePredicted {
			pts := allocatePredictedPoints(predPointRows, row.PointIDStart, row.PointIDEnd, sk)
			built[i] = &PredictedInstance{
				Skeleton:      sk,
				Track:         tr,
				Points:        pts,
				Score:         row.InstanceScore,
				TrackingScore: row.TrackingScore,
			}
		} else {
			pts := allocatePoints(pointRows, row.PointIDStart, row.PointIDEnd, sk)
			built[i] = &Instance{
				Skeleton:      sk,
				Track:         tr,
				Points:        pts,
				TrackingScore: row.TrackingScore,
			}
			fromPredictedIdx[i] = row.FromPredicted
		}
	}

	labeledFrames := make([]*LabeledFrame, 0, len(frames))
	for _, fr := range frames {
		start, end := clampRange(fr.InstanceIDStart, fr.InstanceIDEnd, len(built))

		type indexed struct {
			inst AnyInstance
			orig int
		}
		members := make([]indexed, 0, end-start)
		for idx := start; idx < end; idx++ {
			members = append(members, indexed{inst: built[idx], orig: idx})
		}

		sort.SliceStable(members, func(i, j int) bool {
			return members[i].inst.Kind() < members[j].inst.Kind()
		})

		inSameFrame := make(map[int]bool, len(members))
		for _, m := range members {
			inSameFrame[m.orig] = true
		}

		instances := make([]AnyInstance, 0, len(members))
		for _, m := range members {
			if user, ok := m.inst.(*Instance); ok {
				fpIdx := fromPredictedIdx[m.orig]
				if fpIdx >= 0 && inSameFrame[fpIdx] {
					if pred, ok := built[fpIdx].(*PredictedInstance); ok {
						user.FromPredicted = pred
					}
				}
			}
			instances = append(instances, m.inst)
		}

		labeledFrames = append(labeledFrames, &LabeledFrame{
			Video:     videoAt(videos, fr.Video),
			FrameIdx:  fr.FrameIdx,
			Instances: instances,
		})
	}

	return labeledFrames, nil
}

func skeletonAt(skeletons []*Skeleton, idx int) *Skeleton {
	if idx >= 0 && idx < len(skeletons) {
		return skeletons[idx]
	}
	return nil
}

func trackAt(tracks []*Track, idx int) *Track {
	if idx >= 0 && idx < len(tracks) {
		return tracks[idx]
	}
	return nil
}

func videoAt(videos []*Video, idx int) *Video {
	if idx >= 0 && idx < len(videos) {
		return videos[idx]
	}
	return nil
}

func clampRange(start, end, length int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > length {
		end = length
	}
	if start > end {
		start = end
	}
	return start, end
}

func allocatePoints(rows []pointRow, start, end int, sk *Skeleton) []Point {
	start, end = clampRange(start, end, len(rows))
	pts := make([]Point, 0, end-start)
	for i := start; i < end; i++ {
		r := rows[i]
		pts = append(pts, Point{
			X:        r.X,
			Y:        r.Y,
			Visible:  r.Visible,
			Complete: r.Complete,
			Name:     nodeNameAt(sk, i-start),
		})
	}
	return pts
}

func allocatePredictedPoints(rows []predPointRow, start, end int, sk *Skeleton) []PredictedPoint {
	start, end = clampRange(start, end, len(rows))
	pts := make([]PredictedPoint, 0, end-start)
	for i := start; i < end; i++ {
		r := rows[i]
		pts = append(pts, PredictedPoint{
			Point: Point{
				X:        r.X,
				Y:        r.Y,
				Visible:  r.Visible,
				Complete: r.Complete,
				Name:     nodeNameAt(sk, i-start),
			},
			Score: r.Score,
		})
	}
	return pts
}

func nodeNameAt(sk *Skeleton, i int) string {
	if sk == nil || i < 0 || i >= len(sk.Nodes) {
		return ""
	}
	return sk.Nodes[i].Name
}
