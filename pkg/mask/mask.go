package mask

// Package mask paints polygon segmentation labels into a single class id raster.

import (
	"image"
	"image/color"
	"sort"

	"github.com/fogleman/gg"
)

// Mask is a Width x Height raster of class ids, stored row by row.
// Class id 0 is background.
type Mask struct {
	Width  int
	Height int
	Class  []int32
}

func New(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Class:  make([]int32, width*height),
	}
}

func (m *Mask) At(x, y int) int32 {
	return m.Class[y*m.Width+x]
}

func (m *Mask) Set(x, y int, id int32) {
	m.Class[y*m.Width+x] = id
}

// Classes returns the distinct non-background class ids in the mask, in ascending order
func (m *Mask) Classes() []int32 {
	seen := map[int32]bool{}
	for _, c := range m.Class {
		if c != 0 {
			seen[c] = true
		}
	}
	ids := make([]int32, 0, len(seen))
	for c := range seen {
		ids = append(ids, c)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Count returns the number of cells holding the given class id
func (m *Mask) Count(id int32) int {
	n := 0
	for _, c := range m.Class {
		if c == id {
			n++
		}
	}
	return n
}

// Image returns the mask as a grayscale image whose pixel values are the class ids.
// The image is 8 bits per pixel if all ids fit, otherwise 16.
func (m *Mask) Image() image.Image {
	maxID := int32(0)
	for _, c := range m.Class {
		maxID = max(maxID, c)
	}
	rect := image.Rect(0, 0, m.Width, m.Height)
	if maxID <= 255 {
		img := image.NewGray(rect)
		for i, c := range m.Class {
			img.Pix[i] = uint8(c)
		}
		return img
	}
	img := image.NewGray16(rect)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			img.SetGray16(x, y, color.Gray16{Y: uint16(m.At(x, y))})
		}
	}
	return img
}

// WritePNG writes the class id image to a PNG file
func (m *Mask) WritePNG(filename string) error {
	return gg.SavePNG(filename, m.Image())
}
