// Package command defines the immutable state-change records that scene
// objects push to the renderer, and an ordered buffer to carry them between
// the update thread and the render thread.
package command

import "fmt"

// Subject identifies the kind of scene object a command is about.
type Subject uint8

// Subjects.
const (
	SubjectCamera Subject = iota + 1
	SubjectRenderModel
	SubjectLight
)

func (s Subject) String() string {
	switch s {
	case SubjectCamera:
		return "camera"
	case SubjectRenderModel:
		return "render-model"
	case SubjectLight:
		return "light"
	default:
		return fmt.Sprintf("subject(%d)", uint8(s))
	}
}

// Kind is the state transition a command reports.
type Kind uint8

// Command kinds.
const (
	Create Kind = iota + 1
	EnabledChanged
	LayerChanged
	DoubleSidedChanged
	MeshChanged
	MaterialChanged
	// Disposed is the last command of a subject. Target is nil when the
	// subject was collected without an explicit Dispose.
	Disposed
)

func (k Kind) String() string {
	switch k {
	case Create:
		return "create"
	case EnabledChanged:
		return "enabled-changed"
	case LayerChanged:
		return "layer-changed"
	case DoubleSidedChanged:
		return "double-sided-changed"
	case MeshChanged:
		return "mesh-changed"
	case MaterialChanged:
		return "material-changed"
	case Disposed:
		return "disposed"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Command is one state transition of one scene object.
// Fields not related to Kind hold their zero value.
type Command struct {
	Subject Subject
	Kind    Kind
	// ID is the subject's process-unique id.
	ID uint64
	// Target is the subject itself (*camera.Camera, *model.RenderModel,
	// *lighting.LightSource). Consumers read derived state through it.
	Target any

	Enabled     bool
	Layer       uint32
	DoubleSided bool
	// Mesh and Material carry the newly assigned value, possibly nil.
	Mesh     any
	Material any
}

func (c Command) String() string {
	return fmt.Sprintf("%s#%d %s", c.Subject, c.ID, c.Kind)
}

// Queue receives commands. Implementations must keep the order of commands
// pushed by one goroutine.
type Queue interface {
	Push(cmd Command)
}

// Discard is a Queue that drops every command.
type Discard struct{}

// Push implements Queue.
func (Discard) Push(Command) {}
