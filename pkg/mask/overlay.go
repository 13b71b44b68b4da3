package mask

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

// Palette is matplotlib's "tab10" colour cycle
var Palette = []color.NRGBA{
	{31, 119, 180, 255},
	{255, 127, 14, 255},
	{44, 160, 44, 255},
	{214, 39, 40, 255},
	{148, 103, 189, 255},
	{140, 86, 75, 255},
	{227, 119, 194, 255},
	{127, 127, 127, 255},
	{188, 189, 34, 255},
	{23, 190, 207, 255},
}

// ClassColor returns the preview colour of a class id. Ids beyond the palette wrap around.
func ClassColor(id int32) color.NRGBA {
	n := int32(len(Palette))
	return Palette[((id%n)+n)%n]
}

// Overlay draws the mask in colour, with the given opacity (0..1), on top of background.
// If background is nil, the mask is drawn over black. A background of a different size
// than the mask is not resized; the mask is stretched over it instead.
// Background pixels (class 0) are left untouched.
func (m *Mask) Overlay(background image.Image, alpha float64) image.Image {
	var dc *gg.Context
	if background != nil {
		dc = gg.NewContextForImage(background)
	} else {
		dc = gg.NewContext(m.Width, m.Height)
		dc.SetRGB(0, 0, 0)
		dc.Clear()
	}

	a := uint8(min(max(alpha, 0), 1) * 255)
	colored := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			id := m.At(x, y)
			if id == 0 {
				continue
			}
			c := ClassColor(id)
			c.A = a
			colored.SetNRGBA(x, y, c)
		}
	}

	dc.Push()
	dc.Scale(float64(dc.Width())/float64(m.Width), float64(dc.Height())/float64(m.Height))
	dc.DrawImage(colored, 0, 0)
	dc.Pop()
	return dc.Image()
}

// WriteOverlayPNG renders Overlay to a PNG file.
// backgroundFile may be empty, in which case the overlay is drawn over black.
func (m *Mask) WriteOverlayPNG(filename, backgroundFile string, alpha float64) error {
	var background image.Image
	if backgroundFile != "" {
		var err error
		background, err = gg.LoadImage(backgroundFile)
		if err != nil {
			return err
		}
	}
	return gg.SavePNG(filename, m.Overlay(background, alpha))
}
