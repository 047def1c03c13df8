package slp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeSuggestionsExtractsVideoAndFrameIdx(t *testing.T) {
	rows := []string{
		`{"video": 0, "frame_idx": 42, "group": "low-confidence"}`,
		`{"video": 1, "frame_idx": 7}`,
	}

	suggestions, err := decodeSuggestions(rows)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)

	require.Equal(t, 0, suggestions[0].VideoIdx)
	require.Equal(t, 42, suggestions[0].FrameIdx)
	require.Equal(t, "low-confidence", suggestions[0].Metadata["group"])

	require.Equal(t, 1, suggestions[1].VideoIdx)
	require.Equal(t, 7, suggestions[1].FrameIdx)
}

func TestDecodeSuggestionsMissingFieldsDefaultToZero(t *testing.T) {
	suggestions, err := decodeSuggestions([]string{`{}`})
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	require.Equal(t, 0, suggestions[0].VideoIdx)
	require.Equal(t, 0, suggestions[0].FrameIdx)
}

func TestDecodeSuggestionsRejectsNonObjectRow(t *testing.T) {
	_, err := decodeSuggestions([]string{`"just a string"`})
	require.Error(t, err)
}

func TestDecodeSuggestionsRejectsInvalidJSON(t *testing.T) {
	_, err := decodeSuggestions([]string{`{"video": `})
	require.Error(t, err)
}
