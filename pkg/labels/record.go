package labels

import (
	"fmt"

	"github.com/cyclopcam/rblabel/pkg/idgen"
)

// Record is a label as it arrives from the platform API, before validation.
// Optional fields are pointers so that we can tell "absent" from "zero".
// Numeric geometry is kept untyped, so that a bad value is reported against
// the one label that holds it, instead of failing the whole document.
type Record struct {
	Category      [][]string     `json:"category"`
	LabelID       *string        `json:"labelid,omitempty"`
	TrackID       *string        `json:"trackid,omitempty"`
	FrameIndex    *int           `json:"frameindex,omitempty"`
	Keyframe      *bool          `json:"keyframe,omitempty"`
	End           *bool          `json:"end,omitempty"`
	FrameClassify *bool          `json:"frameclassify,omitempty"`
	BBox2D        map[string]any `json:"bbox2d,omitempty"`
	Pixel         *RawPixel      `json:"pixel,omitempty"`
}

// RawPixel is the segmentation payload of a Record. Points are [x, y] pairs.
type RawPixel struct {
	ImageSize []any     `json:"imagesize"`
	Regions   [][][]any `json:"regions"`
	Holes     [][][]any `json:"holes"`
}

// Geometry is the shape variant of a label: BoxGeometry, PolygonGeometry, or ClassifyGeometry
type Geometry interface {
	isGeometry()
}

type BoxGeometry struct {
	Box Box
}

type PolygonGeometry struct {
	ImageSize ImageSize
	Regions   []Polygon
	Holes     []Polygon
}

// ClassifyGeometry is the empty geometry of a whole-image (or whole-frame) classification
type ClassifyGeometry struct{}

func (BoxGeometry) isGeometry()      {}
func (PolygonGeometry) isGeometry()  {}
func (ClassifyGeometry) isGeometry() {}

// Kind reports which geometry the record carries, without validating it
func (r *Record) Kind() string {
	switch {
	case r.BBox2D != nil:
		return "bbox"
	case r.Pixel != nil:
		return "polygon"
	default:
		return "classify"
	}
}

func (r *Record) malformed(index int, field, reason string) *MalformedLabelError {
	e := &MalformedLabelError{Index: index, Field: field, Reason: reason}
	if r.LabelID != nil {
		e.LabelID = *r.LabelID
	}
	if r.TrackID != nil {
		e.TrackID = *r.TrackID
	}
	return e
}

// ParseCategory returns the first category path of the record
func (r *Record) ParseCategory(index int) (Category, error) {
	if len(r.Category) == 0 || len(r.Category[0]) == 0 {
		return nil, r.malformed(index, "category", "is missing")
	}
	c := make(Category, len(r.Category[0]))
	copy(c, r.Category[0])
	return c, nil
}

// ParseGeometry validates and converts the record's geometry
func (r *Record) ParseGeometry(index int) (Geometry, error) {
	switch r.Kind() {
	case "bbox":
		box := Box{}
		fields := []struct {
			name string
			dst  *float64
		}{
			{"xnorm", &box.X},
			{"ynorm", &box.Y},
			{"wnorm", &box.W},
			{"hnorm", &box.H},
		}
		for _, f := range fields {
			raw, ok := r.BBox2D[f.name]
			if !ok || raw == nil {
				return nil, r.malformed(index, "bbox2d."+f.name, "is missing")
			}
			v, ok := number(raw)
			if !ok {
				return nil, r.malformed(index, "bbox2d."+f.name, fmt.Sprintf("is not a number: %v", raw))
			}
			*f.dst = v
		}
		return BoxGeometry{Box: box}, nil
	case "polygon":
		g := PolygonGeometry{}
		if len(r.Pixel.ImageSize) != 2 {
			return nil, r.malformed(index, "pixel.imagesize", "must be [width, height]")
		}
		for i, dst := range []*int{&g.ImageSize.Width, &g.ImageSize.Height} {
			v, ok := number(r.Pixel.ImageSize[i])
			if !ok || v < 0 {
				return nil, r.malformed(index, "pixel.imagesize", fmt.Sprintf("is not a valid size: %v", r.Pixel.ImageSize))
			}
			*dst = int(v)
		}
		var err error
		if g.Regions, err = r.parsePolygons(index, "pixel.regions", r.Pixel.Regions); err != nil {
			return nil, err
		}
		if g.Holes, err = r.parsePolygons(index, "pixel.holes", r.Pixel.Holes); err != nil {
			return nil, err
		}
		return g, nil
	}
	return ClassifyGeometry{}, nil
}

func (r *Record) parsePolygons(index int, field string, raw [][][]any) ([]Polygon, error) {
	polys := make([]Polygon, 0, len(raw))
	for i, rawPoly := range raw {
		poly := make(Polygon, 0, len(rawPoly))
		for j, rawPt := range rawPoly {
			if len(rawPt) != 2 {
				return nil, r.malformed(index, fmt.Sprintf("%v[%v][%v]", field, i, j), "must be an [x, y] pair")
			}
			x, okX := number(rawPt[0])
			y, okY := number(rawPt[1])
			if !okX || !okY {
				return nil, r.malformed(index, fmt.Sprintf("%v[%v][%v]", field, i, j), fmt.Sprintf("is not numeric: %v", rawPt))
			}
			poly = append(poly, Point{X: x, Y: y})
		}
		polys = append(polys, poly)
	}
	return polys, nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// identity returns the record's id, or a fresh one from ids
func identity(id *string, ids idgen.Generator) string {
	if id != nil && *id != "" {
		return *id
	}
	return ids.NewID()
}

// ParseVideoBox converts a bbox record into a VideoBox.
// trackID is the identity that the caller has already resolved for this record.
// Keyframe and End default to true.
func (r *Record) ParseVideoBox(index int, trackID string, ids idgen.Generator) (VideoBox, error) {
	category, err := r.ParseCategory(index)
	if err != nil {
		return VideoBox{}, err
	}
	if r.BBox2D == nil {
		return VideoBox{}, r.malformed(index, "bbox2d", "is missing")
	}
	g, err := r.ParseGeometry(index)
	if err != nil {
		return VideoBox{}, err
	}
	if r.FrameIndex == nil {
		return VideoBox{}, r.malformed(index, "frameindex", "is missing")
	}
	if *r.FrameIndex < 0 {
		return VideoBox{}, r.malformed(index, "frameindex", fmt.Sprintf("is negative: %v", *r.FrameIndex))
	}
	return VideoBox{
		LabelID:  identity(r.LabelID, ids),
		TrackID:  trackID,
		Category: category,
		Box:      g.(BoxGeometry).Box,
		Frame:    *r.FrameIndex,
		Keyframe: boolOr(r.Keyframe, true),
		End:      boolOr(r.End, true),
	}, nil
}

// ParseVideoClassify converts a classification record into a VideoClassify
func (r *Record) ParseVideoClassify(index int, trackID string, ids idgen.Generator) (VideoClassify, error) {
	category, err := r.ParseCategory(index)
	if err != nil {
		return VideoClassify{}, err
	}
	if r.FrameIndex == nil {
		return VideoClassify{}, r.malformed(index, "frameindex", "is missing")
	}
	if *r.FrameIndex < 0 {
		return VideoClassify{}, r.malformed(index, "frameindex", fmt.Sprintf("is negative: %v", *r.FrameIndex))
	}
	return VideoClassify{
		LabelID:  identity(r.LabelID, ids),
		TrackID:  trackID,
		Category: category,
		Frame:    *r.FrameIndex,
		Keyframe: boolOr(r.Keyframe, true),
		End:      boolOr(r.End, true),
	}, nil
}

// ParsePolygonRegion converts a segmentation record into a PolygonRegion
func (r *Record) ParsePolygonRegion(index int, ids idgen.Generator) (PolygonRegion, error) {
	category, err := r.ParseCategory(index)
	if err != nil {
		return PolygonRegion{}, err
	}
	if r.Pixel == nil {
		return PolygonRegion{}, r.malformed(index, "pixel", "is missing")
	}
	g, err := r.ParseGeometry(index)
	if err != nil {
		return PolygonRegion{}, err
	}
	pg := g.(PolygonGeometry)
	return PolygonRegion{
		LabelID:   identity(r.LabelID, ids),
		Category:  category,
		ImageSize: pg.ImageSize,
		Regions:   pg.Regions,
		Holes:     pg.Holes,
	}, nil
}

// ParseVideoBoxes parses all bbox records of one video.
// Records without a track id are each given their own new track.
// Parsing stops at the first bad record.
func ParseVideoBoxes(records []Record, ids idgen.Generator) ([]VideoBox, error) {
	out := make([]VideoBox, 0, len(records))
	for i := range records {
		b, err := records[i].ParseVideoBox(i, identity(records[i].TrackID, ids), ids)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// ParseVideoClassifications parses all classification records of one video.
// Records without a track id share a single new track.
func ParseVideoClassifications(records []Record, ids idgen.Generator) ([]VideoClassify, error) {
	out := make([]VideoClassify, 0, len(records))
	shared := ""
	for i := range records {
		trackID := ""
		if records[i].TrackID != nil && *records[i].TrackID != "" {
			trackID = *records[i].TrackID
		} else {
			if shared == "" {
				shared = ids.NewID()
			}
			trackID = shared
		}
		c, err := records[i].ParseVideoClassify(i, trackID, ids)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// ParsePolygonRegions parses all segmentation records of one image
func ParsePolygonRegions(records []Record, ids idgen.Generator) ([]PolygonRegion, error) {
	out := make([]PolygonRegion, 0, len(records))
	for i := range records {
		p, err := records[i].ParsePolygonRegion(i, ids)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
