package math

import (
	"math"
	"testing"
)

func TestVec2Arithmetic(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}

	tests := []struct {
		name string
		got  Vec2
		want Vec2
	}{
		{"add", a.Add(b), Vec2{4, 6}},
		{"sub", a.Sub(b), Vec2{-2, -2}},
		{"scale", a.Scale(0.5), Vec2{0.5, 1}},
		{"mul", a.Mul(b), Vec2{3, 8}},
		{"texcoord", Vec2{-1, 1}.Add(Vec2{1, 1}).Scale(0.5), Vec2{0, 1}},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestVec2Normalize(t *testing.T) {
	tests := []struct {
		in   Vec2
		want Vec2
	}{
		{Vec2{3, 4}, Vec2{0.6, 0.8}},
		{Vec2{0, -2}, Vec2{0, -1}},
		{Vec2{}, Vec2{}},
	}
	for _, tt := range tests {
		got := tt.in.Normalize()
		if !nearly(got.X, tt.want.X) || !nearly(got.Y, tt.want.Y) {
			t.Errorf("%v.Normalize() = %v, want %v", tt.in, got, tt.want)
		}
	}

	if l := (Vec2{3, 4}).Length(); l != 5 {
		t.Errorf("Vec2.Length() = %v, want 5", l)
	}
	if a := (Vec2{7, 9}).Array(); a != [2]float32{7, 9} {
		t.Errorf("Vec2.Array() = %v", a)
	}
}

func TestVec3Cross(t *testing.T) {
	x, y, z := Vec3{1, 0, 0}, Vec3{0, 1, 0}, Vec3{0, 0, 1}

	tests := []struct {
		a, b, want Vec3
	}{
		{x, y, z},
		{y, z, x},
		{z, x, y},
		{y, x, z.Negate()},
		{x, x, Vec3{}},
	}
	for _, tt := range tests {
		if got := tt.a.Cross(tt.b); got != tt.want {
			t.Errorf("%v.Cross(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func nearly(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-6
}
