package slp

import "fmt"

// decodeVideos decodes the videos_json dataset's rows into Videos. Each row
// is a JSON object with a "backend" sub-object. filenameHint replaces the
// producer's "." filename sentinel when loading from a buffer rather than a
// named file.
func decodeVideos(rows []string, filenameHint string) ([]*Video, error) {
	videos := make([]*Video, 0, len(rows))
	for i, row := range rows {
		v, err := decodeJSONValue(row)
		if err != nil {
			return nil, fmt.Errorf("videos_json row %d: %w", i, err)
		}
		entry, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("videos_json row %d: not a JSON object", i)
		}

		video, err := decodeVideoEntry(entry, filenameHint)
		if err != nil {
			return nil, fmt.Errorf("videos_json row %d: %w", i, err)
		}
		videos = append(videos, video)
	}
	return videos, nil
}

func decodeVideoEntry(entry map[string]interface{}, filenameHint string) (*Video, error) {
	backend, _ := entry["backend"].(map[string]interface{})

	video := &Video{}
	if backend != nil {
		filename, _ := backend["filename"].(string)
		video.Dataset, _ = backend["dataset"].(string)
		video.Format, _ = backend["format"].(string)
		video.FPS = floatField(backend, "fps")
		video.ChannelOrder, _ = backend["channel_order"].(string)
		video.Shape = shapeField(backend, "shape")

		if filename == embeddedFilenameSentinel {
			video.Backend = BackendEmbedded
			video.Filename = filenameHint
		} else {
			video.Backend = BackendExternal
			video.Filename = filename
		}
	}
	video.SourceVideo, _ = entry["source_video"].(string)

	return video, nil
}

func floatField(m map[string]interface{}, key string) float64 {
	if v, ok := m[key].(float64); ok {
		return v
	}
	return 0
}

func shapeField(m map[string]interface{}, key string) [4]int {
	var shape [4]int
	raw, ok := m[key].([]interface{})
	if !ok {
		return shape
	}
	for i := 0; i < len(raw) && i < 4; i++ {
		shape[i] = toInt(raw[i])
	}
	return shape
}
