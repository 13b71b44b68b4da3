package labels

import (
	"fmt"
	"strings"
)

// ClassificationError is returned when a label's category cannot be resolved to a class id
type ClassificationError struct {
	Category Category
	Index    int    // Index of the label or region in its input list
	Reason   string // Empty when the category is simply missing from the taxonomy
}

func (e *ClassificationError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "not found in taxonomy"
	}
	return fmt.Sprintf("Label %v: category '%v' %v", e.Index, strings.Join(e.Category, "/"), reason)
}

// MalformedLabelError is returned when a label record is missing a required field,
// or a field has the wrong type.
type MalformedLabelError struct {
	Index   int // Index of the record in its input list
	LabelID string
	TrackID string
	Field   string
	Reason  string
}

func (e *MalformedLabelError) Error() string {
	s := fmt.Sprintf("Label %v", e.Index)
	if e.LabelID != "" {
		s += fmt.Sprintf(" (%v)", e.LabelID)
	}
	if e.TrackID != "" {
		s += fmt.Sprintf(" of track %v", e.TrackID)
	}
	return fmt.Sprintf("%v: field '%v' %v", s, e.Field, e.Reason)
}

// TrackConsistencyError is returned when a track has more than one keyframe on the same frame
type TrackConsistencyError struct {
	TrackID string
	Frame   int
}

func (e *TrackConsistencyError) Error() string {
	return fmt.Sprintf("Track %v has more than one keyframe on frame %v", e.TrackID, e.Frame)
}
