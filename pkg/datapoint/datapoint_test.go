package datapoint

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/rblabel/pkg/config"
	"github.com/cyclopcam/rblabel/pkg/idgen"
	"github.com/cyclopcam/rblabel/pkg/labels"
	"github.com/cyclopcam/rblabel/pkg/taxonomy"
	"github.com/stretchr/testify/require"
)

const batchJSON = `[
	{
		"name": "video-bbox",
		"numFrames": 3,
		"labels": [
			{"category": [["object", "person"]], "trackid": "t1", "frameindex": 0, "bbox2d": {"xnorm": 0.0, "ynorm": 0.1, "wnorm": 0.1, "hnorm": 0.1}, "end": false},
			{"category": [["object", "person"]], "trackid": "t1", "frameindex": 2, "bbox2d": {"xnorm": 0.2, "ynorm": 0.1, "wnorm": 0.1, "hnorm": 0.1}},
			{"category": [["object", "person"]], "trackid": "t2", "frameindex": 1, "bbox2d": {"xnorm": "left", "ynorm": 0.1, "wnorm": 0.1, "hnorm": 0.1}}
		]
	},
	{
		"name": "video-classify",
		"numFrames": 4,
		"labels": [
			{"category": [["weather", "rain"]], "frameindex": 0, "end": false, "frameclassify": true},
			{"category": [["weather", "rain"]], "frameindex": 2, "frameclassify": true}
		]
	},
	{
		"name": "image-seg",
		"width": 10,
		"height": 10,
		"labels": [
			{"category": [["object", "car"]], "pixel": {"imagesize": [10, 10], "regions": [[[0.2, 0.2], [0.6, 0.2], [0.6, 0.6], [0.2, 0.6]]], "holes": []}}
		]
	},
	{
		"name": "image-unknown",
		"width": 10,
		"height": 10,
		"labels": [
			{"category": [["object", "boat"]], "pixel": {"imagesize": [10, 10], "regions": [[[0.2, 0.2], [0.6, 0.2], [0.6, 0.6]]], "holes": []}}
		]
	}
]`

func testProcessor(t *testing.T, workers int) *Processor {
	m, err := taxonomy.NewClassMap(map[string]int{"car": 0, "person": 1})
	require.NoError(t, err)
	seg, err := m.ForSegmentation()
	require.NoError(t, err)
	p := NewProcessor(logs.NewTestingLog(t), seg, workers)
	p.IDs = idgen.NewSequence("gen-")
	return p
}

func testBatch(t *testing.T) []*Datapoint {
	dps := []*Datapoint{}
	require.NoError(t, json.Unmarshal([]byte(batchJSON), &dps))
	return dps
}

func TestTaskType(t *testing.T) {
	dps := testBatch(t)
	require.Equal(t, TaskBBox, dps[0].TaskType())
	require.Equal(t, TaskClassify, dps[1].TaskType())
	require.Equal(t, TaskSegmentation, dps[2].TaskType())
	require.Equal(t, TaskBBox, (&Datapoint{NumFrames: 5}).TaskType())
	require.Equal(t, TaskSegmentation, (&Datapoint{Width: 5, Height: 5}).TaskType())
}

func TestProcessBatch(t *testing.T) {
	for _, workers := range []int{1, 4} {
		p := testProcessor(t, workers)
		results, err := p.Process(context.Background(), testBatch(t))
		require.NoError(t, err)
		require.Len(t, results, 4)
		require.Equal(t, int64(1), p.Times.Get(string(TaskBBox)).Samples)
		require.Equal(t, int64(2), p.Times.Get(string(TaskSegmentation)).Samples)

		// Results keep input order
		for i, name := range []string{"video-bbox", "video-classify", "image-seg", "image-unknown"} {
			require.Equal(t, name, results[i].Name)
		}

		// The broken track is dropped, the healthy one is interpolated
		bbox := results[0]
		require.False(t, bbox.Failed())
		require.Len(t, bbox.Frames, 3)
		for f := 0; f < 3; f++ {
			require.Len(t, bbox.Frames[f], 1, "frame %v", f)
			require.Equal(t, "t1", bbox.Frames[f][0].TrackID)
		}
		require.InDelta(t, 0.1, bbox.Frames[1][0].Box.X, 1e-9)
		require.False(t, bbox.Frames[1][0].Keyframe)
		require.Len(t, bbox.Errors, 1)
		require.Contains(t, bbox.Errors[0], "t2")

		classify := results[1]
		require.Empty(t, classify.Errors)
		require.Len(t, classify.ClassifyFrames, 4)
		// Held past the last keyframe until the end of the video
		for f := 0; f < 4; f++ {
			require.Len(t, classify.ClassifyFrames[f], 1, "frame %v", f)
			require.Equal(t, "rain", classify.ClassifyFrames[f][0].Category.Leaf())
		}

		seg := results[2]
		require.Empty(t, seg.Errors)
		require.NotNil(t, seg.Mask)
		require.Equal(t, []int32{1}, seg.MaskClasses)
		require.Equal(t, 16, seg.Mask.Count(1))
		require.Equal(t, int32(1), seg.Mask.At(2, 2))
		require.Equal(t, int32(0), seg.Mask.At(6, 6))

		unknown := results[3]
		require.True(t, unknown.Failed())
		require.Len(t, unknown.Errors, 1)
		require.Contains(t, unknown.Errors[0], "boat")
	}
}

func TestSegmentationWithoutTaxonomy(t *testing.T) {
	p := NewProcessor(logs.NewTestingLog(t), nil, 1)
	r := p.ProcessOne(testBatch(t)[2])
	require.True(t, r.Failed())
	require.Equal(t, []string{ErrNoTaxonomy.Error()}, r.Errors)
}

func TestProcessCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testProcessor(t, 2).Process(ctx, testBatch(t))
	require.ErrorIs(t, err, context.Canceled)
}

func TestFlatten(t *testing.T) {
	a := errors.New("a")
	b := errors.New("b")
	c := errors.New("c")
	require.Nil(t, flatten(nil))
	require.Equal(t, []error{a}, flatten(a))
	require.Equal(t, []error{a, b, c}, flatten(errors.Join(a, errors.Join(b, c))))
}

func TestEncode(t *testing.T) {
	results, err := testProcessor(t, 2).Process(context.Background(), testBatch(t))
	require.NoError(t, err)

	for _, format := range []string{config.FormatJSON, config.FormatCBOR} {
		buf := bytes.Buffer{}
		require.NoError(t, Encode(&buf, results, format))
		decoded, err := Decode(&buf, format)
		require.NoError(t, err, format)
		require.Len(t, decoded, len(results))
		for i := range results {
			require.Equal(t, results[i].Name, decoded[i].Name)
			require.Equal(t, results[i].Task, decoded[i].Task)
			require.Equal(t, results[i].Errors, decoded[i].Errors)
			require.Equal(t, results[i].MaskClasses, decoded[i].MaskClasses)
			require.Nil(t, decoded[i].Mask)
		}
		require.Equal(t, results[0].Frames, decoded[0].Frames, format)
	}

	require.Error(t, Encode(&bytes.Buffer{}, results, "xml"))
}

func TestLoadDatapoints(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(batchJSON), 0644))
	dps, err := LoadDatapoints(good)
	require.NoError(t, err)
	require.Len(t, dps, 4)
	require.Equal(t, 3, dps[0].NumFrames)
	require.Equal(t, labels.ImageSize{Width: 10, Height: 10}, dps[2].ImageSize())

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = LoadDatapoints(bad)
	require.Error(t, err)

	_, err = LoadDatapoints(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}
