package slp

import "fmt"

// rawSession is the intermediate decode of one sessions_json row: a
// CameraGroup plus the raw camera-key -> video-index map, before the
// linker resolves those indices against Labels.Videos.
type rawSession struct {
	Cameras     *CameraGroup
	camVideoIdx map[string]int
	camByName   map[string]*Camera
}

// decodeSessions decodes the sessions_json dataset's rows. Each row's
// "calibration" object has one key per camera (every key except "metadata")
// contributing rvec/tvec and optional intrinsic matrix/distortions;
// "camcorder_to_video_idx_map" maps the same camera keys to a video index.
// Per-frame InstanceGroup/FrameGroup data is not decoded from sessions_json
// and nothing else fills it in, so RecordingSession.FrameGroups is empty.
func decodeSessions(rows []string) ([]rawSession, error) {
	out := make([]rawSession, 0, len(rows))
	for i, row := range rows {
		v, err := decodeJSONValue(row)
		if err != nil {
			return nil, fmt.Errorf("sessions_json row %d: %w", i, err)
		}
		entry, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("sessions_json row %d: not a JSON object", i)
		}

		sess, err := decodeSessionEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("sessions_json row %d: %w", i, err)
		}
		out = append(out, sess)
	}
	return out, nil
}

func decodeSessionEntry(entry map[string]interface{}) (rawSession, error) {
	calibration, _ := entry["calibration"].(map[string]interface{})

	group := &CameraGroup{}
	byName := make(map[string]*Camera)
	for key, rawCam := range calibration {
		if key == "metadata" {
			continue
		}
		camEntry, ok := rawCam.(map[string]interface{})
		if !ok {
			continue
		}
		cam := decodeCamera(key, camEntry)
		group.Cameras = append(group.Cameras, cam)
		byName[key] = cam
	}

	camVideoIdx := make(map[string]int)
	if mapping, ok := entry["camcorder_to_video_idx_map"].(map[string]interface{}); ok {
		for key, idx := range mapping {
			camVideoIdx[key] = toInt(idx)
		}
	}

	return rawSession{Cameras: group, camVideoIdx: camVideoIdx, camByName: byName}, nil
}

func decodeCamera(name string, entry map[string]interface{}) *Camera {
	cam := &Camera{Name: name}
	cam.Rotation = floatArray3(entry["rvec"])
	cam.Translation = floatArray3(entry["tvec"])

	if rawMatrix, ok := entry["matrix"].([]interface{}); ok && len(rawMatrix) == 3 {
		var m [3][3]float64
		ok := true
		for i, rawRow := range rawMatrix {
			row, isArr := rawRow.([]interface{})
			if !isArr || len(row) != 3 {
				ok = false
				break
			}
			for j, v := range row {
				m[i][j] = floatOf(v)
			}
		}
		if ok {
			cam.Matrix = &m
		}
	}

	if rawDist, ok := entry["distortions"].([]interface{}); ok {
		dist := make([]float64, len(rawDist))
		for i, v := range rawDist {
			dist[i] = floatOf(v)
		}
		cam.Distortions = dist
	}

	return cam
}

func floatArray3(v interface{}) [3]float64 {
	var out [3]float64
	arr, ok := v.([]interface{})
	if !ok {
		return out
	}
	for i := 0; i < len(arr) && i < 3; i++ {
		out[i] = floatOf(arr[i])
	}
	return out
}

func floatOf(v interface{}) float64 {
	if f, ok := v.(float64); ok {
		return f
	}
	return 0
}
