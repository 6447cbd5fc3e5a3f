package matrix

import (
	"sync/atomic"

	"github.com/Faultbox/midgard-scene/internal/engine/transform"
	"github.com/Faultbox/midgard-scene/pkg/math"
)

// Counting wraps a Factory and counts calls per matrix kind.
// It is used to assert that cached values are not recomputed.
type Counting struct {
	Factory Factory

	views        atomic.Int64
	rotViews     atomic.Int64
	models       atomic.Int64
	perspectives atomic.Int64
	orthos       atomic.Int64
}

// NewCounting wraps f. A nil f wraps Default.
func NewCounting(f Factory) *Counting {
	if f == nil {
		f = Default{}
	}
	return &Counting{Factory: f}
}

// Counts is a snapshot of the call counters.
type Counts struct {
	View         int64
	RotationView int64
	Model        int64
	Perspective  int64
	Orthographic int64
}

// Projections returns the number of projection matrices built of either kind.
func (c Counts) Projections() int64 {
	return c.Perspective + c.Orthographic
}

// Counts returns the current counters.
func (c *Counting) Counts() Counts {
	return Counts{
		View:         c.views.Load(),
		RotationView: c.rotViews.Load(),
		Model:        c.models.Load(),
		Perspective:  c.perspectives.Load(),
		Orthographic: c.orthos.Load(),
	}
}

func (c *Counting) View(t *transform.Transform) math.Mat4 {
	c.views.Add(1)
	return c.Factory.View(t)
}

func (c *Counting) RotationView(t *transform.Transform) math.Mat4 {
	c.rotViews.Add(1)
	return c.Factory.RotationView(t)
}

func (c *Counting) Model(t *transform.Transform) math.Mat4 {
	c.models.Add(1)
	return c.Factory.Model(t)
}

func (c *Counting) Perspective(fieldOfView, aspect, zNear, zFar float32) math.Mat4 {
	c.perspectives.Add(1)
	return c.Factory.Perspective(fieldOfView, aspect, zNear, zFar)
}

func (c *Counting) Orthographic(height, aspect, zNear, zFar float32) math.Mat4 {
	c.orthos.Add(1)
	return c.Factory.Orthographic(height, aspect, zNear, zFar)
}
