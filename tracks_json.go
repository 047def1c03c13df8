package slp

import "fmt"

// decodeTracks decodes the tracks_json dataset's rows into Tracks. Each row
// is a JSON array [_, name], a JSON object with a "name" field, or a bare
// string; the track's Name is the second array element / the "name" field /
// the stringified value respectively.
func decodeTracks(rows []string) ([]*Track, error) {
	tracks := make([]*Track, 0, len(rows))
	for i, row := range rows {
		v, err := decodeJSONValue(row)
		if err != nil {
			return nil, fmt.Errorf("tracks_json row %d: %w", i, err)
		}
		tracks = append(tracks, &Track{Name: trackName(v)})
	}
	return tracks, nil
}

func trackName(v interface{}) string {
	switch val := v.(type) {
	case []interface{}:
		if len(val) >= 2 {
			if name, ok := val[1].(string); ok {
				return name
			}
			return fmt.Sprintf("%v", val[1])
		}
		return ""
	case map[string]interface{}:
		if name, ok := val["name"].(string); ok {
			return name
		}
		return ""
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
