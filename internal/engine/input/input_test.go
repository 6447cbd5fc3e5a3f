package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veandco/go-sdl2/sdl"
)

func TestPushTranslatesEvents(t *testing.T) {
	in := New()

	assert.False(t, in.Push(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_LEFT, X: 3, Y: 4}))
	assert.False(t, in.Push(&sdl.MouseMotionEvent{X: 5, Y: 6, XRel: 2, YRel: -1}))
	assert.False(t, in.Push(&sdl.MouseMotionEvent{X: 8, Y: 6, XRel: 3}))
	assert.False(t, in.Push(&sdl.MouseWheelEvent{Y: 2}))
	assert.False(t, in.Push(&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_F12}}))
	assert.False(t, in.Push(&sdl.WindowEvent{Event: sdl.WINDOWEVENT_RESIZED, Data1: 640, Data2: 480}))

	assert.True(t, in.IsButtonDown(sdl.BUTTON_LEFT))
	dx, dy := in.Drag()
	assert.Equal(t, float32(5), dx)
	assert.Equal(t, float32(-1), dy)
	assert.Equal(t, float32(2), in.Wheel())
	assert.True(t, in.IsKeyPressed(sdl.SCANCODE_F12))
	assert.False(t, in.IsKeyPressed(sdl.SCANCODE_ESCAPE))

	last := in.Events()[len(in.Events())-1]
	assert.Equal(t, Event{Type: EventWindowResize, Width: 640, Height: 480}, last)

	in.Push(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONUP, Button: sdl.BUTTON_LEFT})
	assert.False(t, in.IsButtonDown(sdl.BUTTON_LEFT))
}

func TestPushQuit(t *testing.T) {
	in := New()
	assert.True(t, in.Push(&sdl.QuitEvent{}))
	assert.Equal(t, EventQuit, in.Events()[0].Type)
}

func TestPushIgnoresUnknownEvents(t *testing.T) {
	in := New()
	assert.False(t, in.Push(&sdl.WindowEvent{Event: sdl.WINDOWEVENT_FOCUS_GAINED}))
	assert.Empty(t, in.Events())
}
