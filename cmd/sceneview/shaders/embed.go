// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// LitVertexShader transforms mesh vertices and passes world-space normals.
//
//go:embed lit.vert
var LitVertexShader string

// LitFragmentShader shades with a diffuse texture, a base color and up to
// two lights.
//
//go:embed lit.frag
var LitFragmentShader string
