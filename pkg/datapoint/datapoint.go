// Package datapoint runs label interpolation and mask rasterization over a batch
// of datapoints, the way an export job does.
package datapoint

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cyclopcam/rblabel/pkg/labels"
	"github.com/cyclopcam/rblabel/pkg/mask"
)

type TaskType string

const (
	TaskBBox         TaskType = "BBOX"
	TaskClassify     TaskType = "CLASSIFY"
	TaskSegmentation TaskType = "SEGMENTATION"
)

// Datapoint is one labeled image or video, as fetched from the platform
type Datapoint struct {
	Name      string          `json:"name"`
	NumFrames int             `json:"numFrames,omitempty"` // Number of video frames. Zero for an image.
	Width     int             `json:"width,omitempty"`     // Image size. May be zero, in which case segmentation takes it from the labels.
	Height    int             `json:"height,omitempty"`
	Labels    []labels.Record `json:"labels"`
}

// TaskType infers the labeling task from the first label.
// A datapoint without labels is a bbox video if it has frames, otherwise a segmentation.
func (d *Datapoint) TaskType() TaskType {
	if len(d.Labels) == 0 {
		if d.NumFrames > 0 {
			return TaskBBox
		}
		return TaskSegmentation
	}
	switch d.Labels[0].Kind() {
	case "bbox":
		return TaskBBox
	case "polygon":
		return TaskSegmentation
	}
	return TaskClassify
}

func (d *Datapoint) ImageSize() labels.ImageSize {
	return labels.ImageSize{Width: d.Width, Height: d.Height}
}

// Result is the outcome of processing one datapoint.
// Errors lists every track or label that was skipped, or the reason the whole
// datapoint failed.
type Result struct {
	Name           string                   `json:"name"`
	Task           TaskType                 `json:"task"`
	Frames         [][]labels.VideoBox      `json:"frames,omitempty"`
	ClassifyFrames [][]labels.VideoClassify `json:"classifyFrames,omitempty"`
	Mask           *mask.Mask               `json:"-"`
	MaskClasses    []int32                  `json:"maskClasses,omitempty"`
	Errors         []string                 `json:"errors,omitempty"`
}

// Failed is true if nothing usable was produced
func (r *Result) Failed() bool {
	return r.Frames == nil && r.ClassifyFrames == nil && r.Mask == nil
}

// Load a JSON file holding an array of datapoints
func LoadDatapoints(filename string) ([]*Datapoint, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	dps := []*Datapoint{}
	if err := json.Unmarshal(raw, &dps); err != nil {
		return nil, fmt.Errorf("Error loading datapoints %v: %w", filename, err)
	}
	return dps, nil
}
