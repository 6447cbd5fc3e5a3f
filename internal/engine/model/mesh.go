package model

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-scene/internal/engine/gpu"
	"github.com/Faultbox/midgard-scene/internal/engine/resource"
	"github.com/Faultbox/midgard-scene/pkg/math"
)

// ErrEmptyMesh is returned when a mesh has no vertices or no indices.
var ErrEmptyMesh = errors.New("empty mesh")

// Vertex is a mesh vertex with position, normal, and texture coordinates.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	TexCoord math.Vec2
}

// floatsPerVertex matches the interleaved layout gpu.Device.CreateMesh expects.
const floatsPerVertex = 8

// Mesh is indexed triangle geometry uploaded to the GPU, with its local
// bounding box.
type Mesh struct {
	*resource.Resource
	indexCount  int32
	vertexCount int
	bounds      math.BoundingBox
}

// NewMesh validates and uploads the geometry.
func NewMesh(dev gpu.Device, queue *resource.ReleaseQueue, vertices []Vertex, indices []uint32) (*Mesh, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, ErrEmptyMesh
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("mesh: %d indices is not a whole number of triangles", len(indices))
	}

	data := make([]float32, 0, len(vertices)*floatsPerVertex)
	positions := make([]math.Vec3, len(vertices))
	for i, v := range vertices {
		positions[i] = v.Position
		data = append(data,
			v.Position.X, v.Position.Y, v.Position.Z,
			v.Normal.X, v.Normal.Y, v.Normal.Z,
			v.TexCoord.X, v.TexCoord.Y,
		)
	}
	for _, idx := range indices {
		if int(idx) >= len(vertices) {
			return nil, fmt.Errorf("mesh: index %d out of range (%d vertices)", idx, len(vertices))
		}
	}

	handle, err := dev.CreateMesh(data, indices)
	if err != nil {
		return nil, fmt.Errorf("creating mesh: %w", err)
	}

	return &Mesh{
		Resource:    resource.New(gpu.KindMesh, handle, dev, queue),
		indexCount:  int32(len(indices)),
		vertexCount: len(vertices),
		bounds:      math.BoxFromPoints(positions...),
	}, nil
}

// IndexCount returns the number of indices to draw.
func (m *Mesh) IndexCount() int32 {
	return m.indexCount
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return m.vertexCount
}

// Bounds returns the local-space bounding box.
func (m *Mesh) Bounds() math.BoundingBox {
	return m.bounds
}

// Cube returns the geometry of an axis-aligned cube of edge size centered at
// the origin, with per-face normals.
func Cube(size float32) ([]Vertex, []uint32) {
	h := size / 2
	faces := []struct {
		normal, u, v math.Vec3
	}{
		{math.Vec3{X: 1}, math.Vec3{Z: -1}, math.Vec3{Y: 1}},
		{math.Vec3{X: -1}, math.Vec3{Z: 1}, math.Vec3{Y: 1}},
		{math.Vec3{Y: 1}, math.Vec3{X: 1}, math.Vec3{Z: -1}},
		{math.Vec3{Y: -1}, math.Vec3{X: 1}, math.Vec3{Z: 1}},
		{math.Vec3{Z: 1}, math.Vec3{X: 1}, math.Vec3{Y: 1}},
		{math.Vec3{Z: -1}, math.Vec3{X: -1}, math.Vec3{Y: 1}},
	}

	vertices := make([]Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		base := uint32(len(vertices))
		center := f.normal.Scale(h)
		for _, c := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			pos := center.Add(f.u.Scale(c[0] * h)).Add(f.v.Scale(c[1] * h))
			vertices = append(vertices, Vertex{
				Position: pos,
				Normal:   f.normal,
				TexCoord: math.Vec2{X: c[0], Y: c[1]}.Add(math.Vec2{X: 1, Y: 1}).Scale(0.5),
			})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return vertices, indices
}
