package mask

import (
	"math"
	"sort"

	"github.com/cyclopcam/rblabel/pkg/labels"
)

// fillPolygon calls visit with the index of every cell of a width x height raster
// whose centre lies inside the polygon, using the even-odd rule.
// The polygon is in (x, y) pixel coordinates, and the raster is addressed as
// row = y, column = x. Cells outside the raster are clipped.
func fillPolygon(pts []labels.PixelPoint, width, height int, visit func(i int)) {
	n := len(pts)
	if n < 3 {
		return
	}
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	// Rows whose centre (row + 0.5) lies within [minY, maxY]
	r0 := max(0, int(math.Ceil(minY-0.5)))
	r1 := min(height-1, int(math.Floor(maxY-0.5)))

	xs := make([]float64, 0, 8)
	for r := r0; r <= r1; r++ {
		y := float64(r) + 0.5
		xs = xs[:0]
		for i := 0; i < n; i++ {
			a := pts[i]
			b := pts[(i+1)%n]
			// Half-open test, so that a vertex lying exactly on the scanline is counted once
			if (a.Y > y) != (b.Y > y) {
				xs = append(xs, a.X+(y-a.Y)*(b.X-a.X)/(b.Y-a.Y))
			}
		}
		sort.Float64s(xs)
		for k := 0; k+1 < len(xs); k += 2 {
			// Columns whose centre (c + 0.5) lies within [xs[k], xs[k+1])
			c0 := max(0, int(math.Ceil(xs[k]-0.5)))
			c1 := min(width-1, int(math.Ceil(xs[k+1]-0.5))-1)
			for c := c0; c <= c1; c++ {
				visit(r*width + c)
			}
		}
	}
}
