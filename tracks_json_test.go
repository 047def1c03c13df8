package slp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeTracksShapes(t *testing.T) {
	rows := []string{
		`[null, "track0"]`,
		`{"name": "track1"}`,
		`"track2"`,
	}

	tracks, err := decodeTracks(rows)
	require.NoError(t, err)
	require.Len(t, tracks, 3)
	require.Equal(t, "track0", tracks[0].Name)
	require.Equal(t, "track1", tracks[1].Name)
	require.Equal(t, "track2", tracks[2].Name)
}

func TestDecodeTracksInvalidJSON(t *testing.T) {
	_, err := decodeTracks([]string{`{not json`})
	require.Error(t, err)
}
