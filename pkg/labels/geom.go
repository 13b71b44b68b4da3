package labels

import (
	"image"
	"math"
)

// ImageSize is the pixel size of an image or video frame
type ImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s ImageSize) IsZero() bool {
	return s.Width == 0 && s.Height == 0
}

// Box is an axis aligned rectangle, with all values normalized to [0,1] by the image size
type Box struct {
	X float64 `json:"xnorm"`
	Y float64 `json:"ynorm"`
	W float64 `json:"wnorm"`
	H float64 `json:"hnorm"`
}

func (b Box) Area() float64 {
	return b.W * b.H
}

func (b Box) Intersection(c Box) Box {
	x1 := max(b.X, c.X)
	y1 := max(b.Y, c.Y)
	x2 := min(b.X+b.W, c.X+c.W)
	y2 := min(b.Y+b.H, c.Y+c.H)
	return Box{
		X: x1,
		Y: y1,
		W: max(0, x2-x1),
		H: max(0, y2-y1),
	}
}

// Intersection over Union
func (b Box) IOU(c Box) float64 {
	union := b.Area() + c.Area() - b.Intersection(c).Area()
	if union <= 0 {
		return 0
	}
	return b.Intersection(c).Area() / union
}

// Pixels returns the box in pixel coordinates of an image of the given size
func (b Box) Pixels(size ImageSize) image.Rectangle {
	x1 := int(math.Round(b.X * float64(size.Width)))
	y1 := int(math.Round(b.Y * float64(size.Height)))
	x2 := int(math.Round((b.X + b.W) * float64(size.Width)))
	y2 := int(math.Round((b.Y + b.H) * float64(size.Height)))
	return image.Rect(x1, y1, x2, y2)
}

// Point is a normalized polygon vertex
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polygon is an ordered list of vertices. The last vertex connects back to the first.
type Polygon []Point

// DistinctVertices counts the vertices that are not repeats of their predecessor
// (including the wrap-around from the last vertex to the first).
func (p Polygon) DistinctVertices() int {
	if len(p) == 0 {
		return 0
	}
	n := 0
	for i := range p {
		prev := p[(i+len(p)-1)%len(p)]
		if p[i] != prev {
			n++
		}
	}
	// A polygon whose vertices are all identical is one distinct vertex
	return max(n, 1)
}

// Denormalize converts the polygon into pixel coordinates of an image of the given size
func (p Polygon) Denormalize(size ImageSize) []PixelPoint {
	out := make([]PixelPoint, len(p))
	for i, v := range p {
		out[i] = PixelPoint{
			X: v.X * float64(size.Width),
			Y: v.Y * float64(size.Height),
		}
	}
	return out
}

// PixelPoint is a polygon vertex in (fractional) pixel coordinates
type PixelPoint struct {
	X float64
	Y float64
}
