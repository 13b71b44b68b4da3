package labels

// Package labels holds the typed label values that the platform's label records
// are parsed into. All values are immutable once constructed: methods that
// derive a new label return a copy.

// Category is a path of taxonomy node names, from the root to the leaf
type Category []string

// Leaf returns the most specific name of the path, which is the name used for class lookups
func (c Category) Leaf() string {
	if len(c) == 0 {
		return ""
	}
	return c[len(c)-1]
}

func (c Category) Equal(b Category) bool {
	if len(c) != len(b) {
		return false
	}
	for i := range c {
		if c[i] != b[i] {
			return false
		}
	}
	return true
}

// VideoBox is a bounding box on one frame of a video track
type VideoBox struct {
	LabelID  string   `json:"labelid"`
	TrackID  string   `json:"trackid"`
	Category Category `json:"category"`
	Box      Box      `json:"bbox2d"`
	Frame    int      `json:"frameindex"`
	Keyframe bool     `json:"keyframe"` // Explicitly authored, as opposed to interpolated
	End      bool     `json:"end"`      // Last frame on which the track is visible
}

func (v VideoBox) TrackIdentity() string { return v.TrackID }
func (v VideoBox) FrameIndex() int       { return v.Frame }
func (v VideoBox) IsKeyframe() bool      { return v.Keyframe }
func (v VideoBox) IsEnd() bool           { return v.End }

// Hold returns a copy of v placed on another frame, marked as not a keyframe
func (v VideoBox) Hold(frame int) VideoBox {
	v.Frame = frame
	v.Keyframe = false
	return v
}

// Between linearly interpolates from v to next, at the given frame, which
// must lie strictly between v.Frame and next.Frame.
func (v VideoBox) Between(next VideoBox, frame int) VideoBox {
	total := float64(next.Frame - v.Frame)
	wStart := float64(next.Frame-frame) / total
	wNext := float64(frame-v.Frame) / total
	r := v.Hold(frame)
	r.Box = Box{
		X: wStart*v.Box.X + wNext*next.Box.X,
		Y: wStart*v.Box.Y + wNext*next.Box.Y,
		W: wStart*v.Box.W + wNext*next.Box.W,
		H: wStart*v.Box.H + wNext*next.Box.H,
	}
	return r
}

// VideoClassify is a whole-frame classification on one frame of a video
type VideoClassify struct {
	LabelID  string   `json:"labelid"`
	TrackID  string   `json:"trackid"`
	Category Category `json:"category"`
	Frame    int      `json:"frameindex"`
	Keyframe bool     `json:"keyframe"`
	End      bool     `json:"end"`
}

func (v VideoClassify) TrackIdentity() string { return v.TrackID }
func (v VideoClassify) FrameIndex() int       { return v.Frame }
func (v VideoClassify) IsKeyframe() bool      { return v.Keyframe }

// IsEnd is always false. A classification lasts until the next keyframe replaces
// it, so End is carried through but never stops a track.
func (v VideoClassify) IsEnd() bool { return false }

func (v VideoClassify) Hold(frame int) VideoClassify {
	v.Frame = frame
	v.Keyframe = false
	return v
}

// Between for a classification carries v's category until the next keyframe
func (v VideoClassify) Between(next VideoClassify, frame int) VideoClassify {
	return v.Hold(frame)
}

// PolygonRegion is a segmentation label: one or more outer polygons to paint,
// and zero or more holes to cut out of them.
type PolygonRegion struct {
	LabelID   string    `json:"labelid"`
	Category  Category  `json:"category"`
	ImageSize ImageSize `json:"imagesize"`
	Regions   []Polygon `json:"regions"`
	Holes     []Polygon `json:"holes"`
}
