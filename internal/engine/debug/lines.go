// Package debug provides debug visualization utilities.
package debug

import (
	"github.com/Faultbox/midgard-scene/internal/engine/frustum"
	"github.com/Faultbox/midgard-scene/pkg/math"
)

// WireframeVertexCount is the number of line vertices of one box or frustum
// wireframe (12 edges × 2).
const WireframeVertexCount = 24

// DefaultBoxPadding is the default padding for selection boxes.
const DefaultBoxPadding = 0.05

// hexahedronEdges pairs corner indices. Corners 0-3 and 4-7 are two
// rings in the same winding, as returned by BoundingBox.Corners and
// Frustum.Corners.
var hexahedronEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

func hexahedronLines(corners [8]math.Vec3) []float32 {
	out := make([]float32, 0, WireframeVertexCount*3)
	for _, e := range hexahedronEdges {
		a, b := corners[e[0]], corners[e[1]]
		out = append(out, a.X, a.Y, a.Z, b.X, b.Y, b.Z)
	}
	return out
}

// BoxLines returns line vertices ([x, y, z] each) outlining box grown by
// padding on every side.
func BoxLines(box math.BoundingBox, padding float32) []float32 {
	pad := math.Vec3{X: padding, Y: padding, Z: padding}
	box.Min = box.Min.Sub(pad)
	box.Max = box.Max.Add(pad)
	return hexahedronLines(box.Corners())
}

// FrustumLines returns line vertices outlining the view volume.
func FrustumLines(f *frustum.Frustum) []float32 {
	return hexahedronLines(f.Corners())
}
