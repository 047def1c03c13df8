package slp

import "fmt"

// rawSuggestion is the intermediate decode of one suggestions_json row,
// before the video index is resolved against Labels.Videos by the linker.
type rawSuggestion struct {
	VideoIdx int
	FrameIdx int
	Metadata map[string]interface{}
}

// decodeSuggestions decodes the suggestions_json dataset's rows.
func decodeSuggestions(rows []string) ([]rawSuggestion, error) {
	out := make([]rawSuggestion, 0, len(rows))
	for i, row := range rows {
		v, err := decodeJSONValue(row)
		if err != nil {
			return nil, fmt.Errorf("suggestions_json row %d: %w", i, err)
		}
		entry, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("suggestions_json row %d: not a JSON object", i)
		}

		out = append(out, rawSuggestion{
			VideoIdx: toInt(entry["video"]),
			FrameIdx: toInt(entry["frame_idx"]),
			Metadata: entry,
		})
	}
	return out, nil
}
