// Package services holds the engine-wide collaborators that scene objects
// receive at construction instead of reaching for package-level state.
package services

import (
	"github.com/Faultbox/midgard-scene/internal/engine/command"
	"github.com/Faultbox/midgard-scene/internal/engine/matrix"
	"github.com/Faultbox/midgard-scene/internal/engine/sequence"
)

// Services is shared by every camera, render model and light of one scene.
type Services struct {
	// CameraIDs, ModelIDs and LightIDs hand out process-unique ids per subject.
	CameraIDs sequence.Counter
	ModelIDs  sequence.Counter
	LightIDs  sequence.Counter

	// Commands receives state-change records for the renderer.
	Commands command.Queue

	// Matrices builds view, projection and model matrices.
	Matrices matrix.Factory
}

// New returns services with fresh counters and the default matrix factory.
// A nil queue discards commands.
func New(commands command.Queue) *Services {
	if commands == nil {
		commands = command.Discard{}
	}
	return &Services{
		CameraIDs: sequence.NewAtomic(0),
		ModelIDs:  sequence.NewAtomic(0),
		LightIDs:  sequence.NewAtomic(0),
		Commands:  commands,
		Matrices:  matrix.Default{},
	}
}

// WithMatrices returns a copy of s using f as matrix factory.
func (s *Services) WithMatrices(f matrix.Factory) *Services {
	c := *s
	c.Matrices = f
	return &c
}
