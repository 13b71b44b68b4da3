package mask

import (
	"errors"
	"fmt"

	"github.com/cyclopcam/rblabel/pkg/labels"
)

var ErrNoImageSize = errors.New("Mask size is unknown: no image size given, and no regions to take it from")

// ClassLookup resolves a category name to its class id.
// taxonomy.ClassMap satisfies this.
type ClassLookup interface {
	ClassID(name string) (int, bool)
}

// Rasterize paints the regions, in order, into a new mask.
//
// The mask has the given size, or if size is zero, the image size of the first region.
// Each region is first painted into a private raster: its outer polygons are filled
// with the region's class id, and every hole subtracts the class id again. Cells that
// go negative (a hole spilling outside its region) become 0. The private raster is
// then composited over the output wherever it is non-zero, so a later region only
// covers an earlier one where it actually paints.
//
// Class ids come from classes, keyed by the leaf of each region's category.
// A category that is missing, or that resolves to the background id 0, fails the
// whole mask with a *labels.ClassificationError.
func Rasterize(regions []labels.PolygonRegion, classes ClassLookup, size labels.ImageSize) (*Mask, error) {
	if size.IsZero() && len(regions) != 0 {
		size = regions[0].ImageSize
	}
	if size.Width <= 0 || size.Height <= 0 {
		return nil, ErrNoImageSize
	}

	out := New(size.Width, size.Height)
	local := make([]int32, len(out.Class))
	holes := make([]int32, len(out.Class))

	for i := range regions {
		region := &regions[i]
		id, ok := classes.ClassID(region.Category.Leaf())
		if !ok {
			return nil, &labels.ClassificationError{Category: region.Category, Index: i}
		}
		if id <= 0 {
			return nil, &labels.ClassificationError{
				Category: region.Category,
				Index:    i,
				Reason:   fmt.Sprintf("resolves to class id %v, which is reserved for background", id),
			}
		}
		classID := int32(id)

		regionSize := region.ImageSize
		if regionSize.IsZero() {
			regionSize = size
		}

		clear(local)
		clear(holes)
		for _, poly := range region.Regions {
			if poly.DistinctVertices() < 2 {
				continue
			}
			fillPolygon(poly.Denormalize(regionSize), size.Width, size.Height, func(j int) {
				local[j] = classID
			})
		}
		for _, poly := range region.Holes {
			if poly.DistinctVertices() < 2 {
				continue
			}
			fillPolygon(poly.Denormalize(regionSize), size.Width, size.Height, func(j int) {
				holes[j] += classID
			})
		}

		for j, v := range local {
			v -= holes[j]
			if v > 0 {
				out.Class[j] = v
			}
		}
	}
	return out, nil
}
