package interp

// Package interp expands the sparse keyframes of video tracks into a label for
// every frame on which the track is visible.

import (
	"errors"
	"fmt"

	"github.com/cyclopcam/rblabel/pkg/idgen"
	"github.com/cyclopcam/rblabel/pkg/labels"
)

var ErrNoFrames = errors.New("Number of frames must be at least 1")

// Keyframed is a label that belongs to a track, and can be densified across frames.
// T is the label type itself.
type Keyframed[T any] interface {
	TrackIdentity() string
	FrameIndex() int
	IsKeyframe() bool
	IsEnd() bool
	// Hold returns a non-keyframe copy placed on another frame
	Hold(frame int) T
	// Between returns a non-keyframe value at frame, which lies strictly between this label and next
	Between(next T, frame int) T
}

// Tracks groups labels by track, and returns, for every frame in [0, numFrames),
// the labels of all tracks that are visible on that frame.
// Tracks appear in the order in which they are first seen in the input.
//
// A track that is inconsistent (duplicate keyframes, frame out of range) is dropped,
// and its error is joined into the returned error. The frames of all other tracks
// are still returned, so a non-nil error does not invalidate the result.
func Tracks[T Keyframed[T]](input []T, numFrames int) ([][]T, error) {
	if numFrames < 1 {
		return nil, ErrNoFrames
	}

	// Positions in input, per track
	order := []string{}
	byTrack := map[string][]int{}
	for i, lb := range input {
		id := lb.TrackIdentity()
		if _, ok := byTrack[id]; !ok {
			order = append(order, id)
		}
		byTrack[id] = append(byTrack[id], i)
	}

	frames := make([][]T, numFrames)
	for i := range frames {
		frames[i] = []T{}
	}

	var errs []error
	for _, id := range order {
		keys, err := keyframeSlots(id, input, byTrack[id], numFrames)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for f := 0; f < numFrames; f++ {
			if lb, ok := resolve(keys, f); ok {
				frames[f] = append(frames[f], lb)
			}
		}
	}
	return frames, errors.Join(errs...)
}

// keyframeSlots places each keyframe of one track at its frame index.
// Labels that are not keyframes do not take part in interpolation.
// track holds the positions of the track's labels in input.
func keyframeSlots[T Keyframed[T]](trackID string, input []T, track []int, numFrames int) ([]*T, error) {
	keys := make([]*T, numFrames)
	for _, i := range track {
		lb := &input[i]
		f := (*lb).FrameIndex()
		if f < 0 || f >= numFrames {
			return nil, &labels.MalformedLabelError{
				Index:   i,
				TrackID: trackID,
				Field:   "frameindex",
				Reason:  fmt.Sprintf("%v is outside of the video's %v frames", f, numFrames),
			}
		}
		if !(*lb).IsKeyframe() {
			continue
		}
		if keys[f] != nil {
			return nil, &labels.TrackConsistencyError{TrackID: trackID, Frame: f}
		}
		keys[f] = lb
	}
	return keys, nil
}

// resolve returns the track's label on frame f, or false if the track is not visible there
func resolve[T Keyframed[T]](keys []*T, f int) (T, bool) {
	var zero T
	if keys[f] != nil {
		return *keys[f], true
	}

	start := -1
	for i := f - 1; i >= 0; i-- {
		if keys[i] != nil {
			start = i
			break
		}
	}
	if start == -1 {
		return zero, false
	}
	s := *keys[start]
	if s.IsEnd() {
		// The track finished at 'start'
		return zero, false
	}

	for i := f + 1; i < len(keys); i++ {
		if keys[i] != nil {
			return s.Between(*keys[i], f), true
		}
	}
	return s.Hold(f), true
}

// Interpolate produces the per-frame bounding boxes of all tracks.
// Between two keyframes, box coordinates are linearly interpolated. After the last
// keyframe of a track, its box is held until the end of the video, unless that
// keyframe is an end label.
func Interpolate(boxes []labels.VideoBox, numFrames int) ([][]labels.VideoBox, error) {
	return Tracks(boxes, numFrames)
}

// InterpolateClassify produces the per-frame classification of all tracks.
// A category is held from its keyframe until the next keyframe of the track,
// or until the end of the video. End flags are ignored.
func InterpolateClassify(classes []labels.VideoClassify, numFrames int) ([][]labels.VideoClassify, error) {
	return Tracks(classes, numFrames)
}

// InterpolateRecords parses bbox label records and interpolates them.
// A record that cannot be parsed fails only the track that it belongs to.
// Records without a track id each form their own track.
func InterpolateRecords(records []labels.Record, numFrames int, ids idgen.Generator) ([][]labels.VideoBox, error) {
	boxes := make([]labels.VideoBox, 0, len(records))
	failed := map[string]bool{}
	var errs []error
	for i := range records {
		trackID := ""
		if records[i].TrackID != nil && *records[i].TrackID != "" {
			trackID = *records[i].TrackID
		} else {
			trackID = ids.NewID()
		}
		b, err := records[i].ParseVideoBox(i, trackID, ids)
		if err != nil {
			if !failed[trackID] {
				errs = append(errs, fmt.Errorf("Track %v: %w", trackID, err))
			}
			failed[trackID] = true
			continue
		}
		boxes = append(boxes, b)
	}

	healthy := boxes[:0]
	for _, b := range boxes {
		if !failed[b.TrackID] {
			healthy = append(healthy, b)
		}
	}

	frames, err := Interpolate(healthy, numFrames)
	if err != nil {
		errs = append(errs, err)
	}
	return frames, errors.Join(errs...)
}
