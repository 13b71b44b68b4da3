package labels

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoxIOU(t *testing.T) {
	a := Box{X: 0, Y: 0, W: 0.5, H: 0.5}
	b := Box{X: 0.25, Y: 0, W: 0.5, H: 0.5}
	require.InDelta(t, 1.0/3.0, a.IOU(b), 1e-9)
	require.InDelta(t, 1.0, a.IOU(a), 1e-9)
	require.Equal(t, 0.0, a.IOU(Box{X: 0.9, Y: 0.9, W: 0.1, H: 0.1}))
	require.Equal(t, 0.0, Box{}.IOU(Box{}))
	require.Equal(t, image.Rect(25, 0, 75, 50), b.Pixels(ImageSize{Width: 100, Height: 100}))
}

func TestDistinctVertices(t *testing.T) {
	require.Equal(t, 0, Polygon{}.DistinctVertices())
	require.Equal(t, 1, Polygon{{1, 1}}.DistinctVertices())
	require.Equal(t, 1, Polygon{{1, 1}, {1, 1}, {1, 1}}.DistinctVertices())
	require.Equal(t, 2, Polygon{{1, 1}, {2, 2}}.DistinctVertices())
	require.Equal(t, 4, Polygon{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}.DistinctVertices())
}

func TestVideoBoxBetween(t *testing.T) {
	a := VideoBox{TrackID: "T", LabelID: "A", Frame: 1, Keyframe: true, Box: Box{X: 0.1, Y: 0.1, W: 0.1, H: 0.1}}
	b := VideoBox{TrackID: "T", LabelID: "B", Frame: 3, Keyframe: true, End: true, Box: Box{X: 0.5, Y: 0.5, W: 0.5, H: 0.1}}
	m := a.Between(b, 2)
	require.Equal(t, 0.3, m.Box.X)
	require.InDelta(t, 0.3, m.Box.W, 1e-12)
	require.InDelta(t, 0.1, m.Box.H, 1e-12)
	require.Equal(t, 2, m.Frame)
	require.Equal(t, "A", m.LabelID)
	require.False(t, m.Keyframe)
	require.False(t, m.End)
	// a is unchanged
	require.Equal(t, 1, a.Frame)
	require.True(t, a.Keyframe)
}
