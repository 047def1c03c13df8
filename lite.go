package slp

import (
	"golang.org/x/sync/errgroup"

	"github.com/scigolib/slp/internal/h5"
)

// hdf5Magic is the 8-byte HDF5 container signature.
var hdf5Magic = [8]byte{0x89, 0x48, 0x44, 0x46, 0x0D, 0x0A, 0x1A, 0x0A}

// requiredRootKeys are the datasets/groups a well-formed SLP file must
// contain (SPEC_FULL.md §6).
var requiredRootKeys = []string{"metadata", "frames", "instances", "points"}

// Counts summarizes the record tables' sizes without decoding their values.
type Counts struct {
	LabeledFrames int
	Instances     int
	Points        int
	PredPoints    int
}

// LiteResult is the output of LoadSlpMetadata: everything a caller can learn
// about an SLP file without decoding its compound record tables.
type LiteResult struct {
	Version           string
	FormatID          float64
	Skeletons         []*Skeleton
	Tracks            []*Track
	Videos            []*Video
	Suggestions       []*Suggestion
	Sessions          []*RecordingSession
	Counts            Counts
	HasEmbeddedImages bool
	Provenance        map[string]interface{}
}

// isHdf5Buffer reports whether b begins with the HDF5 magic signature
// (invariant 6).
func isHdf5Buffer(b []byte) bool {
	if len(b) < len(hdf5Magic) {
		return false
	}
	for i, want := range hdf5Magic {
		if b[i] != want {
			return false
		}
	}
	return true
}

// validateSlpBuffer reports whether b looks like a well-formed SLP
// container: an HDF5 file with the required root keys and a metadata.json
// attribute present. It never decodes anything.
func validateSlpBuffer(b []byte) bool {
	if !isHdf5Buffer(b) {
		return false
	}
	reader, err := h5.OpenLocalBuffer(b)
	if err != nil {
		return false
	}
	defer func() { _ = reader.Close() }()

	if err := checkRequiredKeys(reader); err != nil {
		return false
	}

	metaItem, err := reader.Get("metadata")
	if err != nil || metaItem == nil {
		return false
	}
	attrs, err := reader.Attrs(metaItem)
	if err != nil {
		return false
	}
	_, ok := attrs["json"]
	return ok
}

func checkRequiredKeys(reader h5.Reader) error {
	for _, key := range requiredRootKeys {
		item, err := reader.Get(key)
		if err != nil {
			return newError(InvalidSlp, "required key lookup failed: "+key, err)
		}
		if item == nil {
			return newError(InvalidSlp, "required key missing: "+key, nil)
		}
	}
	return nil
}

// loadSlpMetadata reads only the JSON descriptors and dataset shapes needed
// to populate a LiteResult, never touching compound record values. It works
// over any backend, including one that cannot decode compound datasets.
func loadSlpMetadata(reader h5.Reader, cfg LoaderConfig) (*LiteResult, error) {
	if err := checkRequiredKeys(reader); err != nil {
		return nil, err
	}

	metadata, err := readMetadataJSON(reader)
	if err != nil {
		return nil, err
	}

	skeletons, err := decodeSkeletons(metadata)
	if err != nil {
		return nil, err
	}

	provenance, _ := metadata["provenance"].(map[string]interface{})
	version, _ := metadata["version"].(string)

	formatID := 0.0
	metaItem, err := reader.Get("metadata")
	if err == nil && metaItem != nil {
		if attrs, err := reader.Attrs(metaItem); err == nil {
			if v, ok := attrs["format_id"]; ok && v.Kind == h5.AttrFloat {
				formatID = v.Float
			}
		}
	}

	tracks, err := readOptionalTracks(reader)
	if err != nil {
		return nil, err
	}

	videos, err := readOptionalVideos(reader, cfg.FilenameHint)
	if err != nil {
		return nil, err
	}

	suggestions, err := readOptionalSuggestions(reader, videos)
	if err != nil {
		return nil, err
	}

	sessions, err := readOptionalSessions(reader, videos)
	if err != nil {
		return nil, err
	}

	counts, err := readCounts(reader)
	if err != nil {
		return nil, err
	}

	hasEmbedded := false
	for _, v := range videos {
		if v.IsEmbedded() {
			hasEmbedded = true
			break
		}
	}

	return &LiteResult{
		Version:           version,
		FormatID:          formatID,
		Skeletons:         skeletons,
		Tracks:            tracks,
		Videos:            videos,
		Suggestions:       suggestions,
		Sessions:          sessions,
		Counts:            counts,
		HasEmbeddedImages: hasEmbedded,
		Provenance:        provenance,
	}, nil
}

func readMetadataJSON(reader h5.Reader) (map[string]interface{}, error) {
	item, err := reader.Get("metadata")
	if err != nil {
		return nil, newError(InvalidSlp, "metadata group lookup failed", err)
	}
	if item == nil {
		return nil, newError(InvalidSlp, "metadata group missing", nil)
	}
	attrs, err := reader.Attrs(item)
	if err != nil {
		return nil, newError(InvalidSlp, "metadata attributes read failed", err)
	}
	jsonAttr, ok := attrs["json"]
	if !ok {
		return nil, newError(InvalidSlp, "metadata.json attribute missing", nil)
	}
	return decodeJSONAttribute(jsonAttr)
}

func readDatasetStrings(reader h5.Reader, path string) ([]string, bool, error) {
	item, err := reader.Get(path)
	if err != nil {
		return nil, false, newError(InvalidSlp, "dataset lookup failed: "+path, err)
	}
	if item == nil {
		return nil, false, nil
	}
	value, err := reader.Value(item)
	if err != nil {
		return nil, false, newError(UnsupportedDataset, "dataset value read failed: "+path, err)
	}
	return value.Strings, true, nil
}

func readOptionalTracks(reader h5.Reader) ([]*Track, error) {
	rows, present, err := readDatasetStrings(reader, "tracks_json")
	if err != nil || !present {
		return nil, err
	}
	return decodeTracks(rows)
}

func readOptionalVideos(reader h5.Reader, filenameHint string) ([]*Video, error) {
	rows, present, err := readDatasetStrings(reader, "videos_json")
	if err != nil || !present {
		return nil, err
	}
	return decodeVideos(rows, filenameHint)
}

func readOptionalSuggestions(reader h5.Reader, videos []*Video) ([]*Suggestion, error) {
	rows, present, err := readDatasetStrings(reader, "suggestions_json")
	if err != nil || !present {
		return nil, err
	}
	raw, err := decodeSuggestions(rows)
	if err != nil {
		return nil, err
	}
	out := make([]*Suggestion, len(raw))
	for i, r := range raw {
		out[i] = &Suggestion{Video: videoAt(videos, r.VideoIdx), FrameIdx: r.FrameIdx, Metadata: r.Metadata}
	}
	return out, nil
}

func readOptionalSessions(reader h5.Reader, videos []*Video) ([]*RecordingSession, error) {
	rows, present, err := readDatasetStrings(reader, "sessions_json")
	if err != nil || !present {
		return nil, err
	}
	raw, err := decodeSessions(rows)
	if err != nil {
		return nil, err
	}
	out := make([]*RecordingSession, len(raw))
	for i, r := range raw {
		videoByCamera := make(map[*Camera]*Video, len(r.camVideoIdx))
		for camName, vidIdx := range r.camVideoIdx {
			if cam, ok := r.camByName[camName]; ok {
				videoByCamera[cam] = videoAt(videos, vidIdx)
			}
		}
		out[i] = &RecordingSession{
			Cameras:       r.Cameras,
			VideoByCamera: videoByCamera,
			FrameGroups:   make(map[int]*FrameGroup),
		}
	}
	return out, nil
}

// readCounts resolves the four record tables' row counts concurrently,
// since each is an independent shape lookup against the HDF5 access layer.
func readCounts(reader h5.Reader) (Counts, error) {
	var counts Counts
	var g errgroup.Group

	g.Go(func() error {
		n, err := datasetRowCount(reader, "frames")
		counts.LabeledFrames = n
		return err
	})
	g.Go(func() error {
		n, err := datasetRowCount(reader, "instances")
		counts.Instances = n
		return err
	})
	g.Go(func() error {
		n, err := datasetRowCount(reader, "points")
		counts.Points = n
		return err
	})
	g.Go(func() error {
		n, err := datasetRowCount(reader, "pred_points")
		counts.PredPoints = n
		return err
	})

	if err := g.Wait(); err != nil {
		return Counts{}, err
	}
	return counts, nil
}

func datasetRowCount(reader h5.Reader, path string) (int, error) {
	item, err := reader.Get(path)
	if err != nil {
		return 0, newError(InvalidSlp, "dataset lookup failed: "+path, err)
	}
	if item == nil {
		return 0, nil
	}
	shape, err := reader.Shape(item)
	if err != nil {
		return 0, newError(UnsupportedDataset, "dataset shape read failed: "+path, err)
	}
	if len(shape) == 0 {
		return 0, nil
	}
	return int(shape[0]), nil
}
