package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-scene/internal/engine/gpu"
)

func sampleUniforms() []gpu.Uniform {
	// Deliberately out of location order.
	return []gpu.Uniform{
		{Name: "Albedo", Type: gpu.UniformSampler2D, Location: 7},
		{Name: "ViewProjectionMatrix", Type: gpu.UniformMat4, Location: 1},
		{Name: "ModelMatrix", Type: gpu.UniformMat4, Location: 0},
		{Name: "Time", Type: gpu.UniformFloat, Location: 2},
		{Name: "LightPosition0", Type: gpu.UniformVec3, Location: 3},
		{Name: "LightPosition1", Type: gpu.UniformVec3, Location: 4},
		{Name: "LightColor1", Type: gpu.UniformVec4, Location: 5},
		{Name: "TintColor", Type: gpu.UniformVec4, Location: 6},
		{Name: "DetailNormalMap", Type: gpu.UniformSampler2D, Location: 8},
		{Name: "Environment", Type: gpu.UniformSamplerCube, Location: 9},
		{Name: "Offset", Type: gpu.UniformVec4, Location: 10},
		{Name: "Unused", Type: gpu.UniformFloat, Location: -1},
		{Name: "Layer2", Type: gpu.UniformInt, Location: 11},
	}
}

func TestCatalogClassification(t *testing.T) {
	c, err := NewCatalog(sampleUniforms())
	require.NoError(t, err)

	tests := []struct {
		name     string
		typ      PropertyType
		category Category
		unit     int32
		light    int
	}{
		{"ModelMatrix", TypeMatrix, CategoryDraw, -1, 0},
		{"ViewProjectionMatrix", TypeMatrix, CategoryView, -1, 0},
		{"Time", TypeFloat, CategoryFrame, -1, 0},
		{"LightPosition0", TypeVector3, CategoryLight, -1, 0},
		{"LightPosition1", TypeVector3, CategoryLight, -1, 1},
		{"LightColor1", TypeColor, CategoryLight, -1, 1},
		{"TintColor", TypeColor, CategoryMaterial, -1, 0},
		{"Albedo", TypeTexture, CategoryMaterial, 0, 0},
		{"DetailNormalMap", TypeNormalMapTexture, CategoryMaterial, 1, 0},
		{"Environment", TypeCubeMapTexture, CategoryMaterial, 2, 0},
		{"Offset", TypeVector4, CategoryMaterial, -1, 0},
		{"Layer2", TypeInt, CategoryMaterial, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := c.Property(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.typ, p.Type)
			assert.Equal(t, tt.category, p.Category)
			assert.Equal(t, tt.unit, p.TextureUnit)
			assert.Equal(t, tt.light, p.LightIndex)
		})
	}
}

func TestCatalogOrderAndCounts(t *testing.T) {
	c, err := NewCatalog(sampleUniforms())
	require.NoError(t, err)

	assert.Equal(t, 12, c.Len())
	_, ok := c.Property("Unused")
	assert.False(t, ok, "inactive uniforms are skipped")

	props := c.Properties()
	for i := 1; i < len(props); i++ {
		assert.Less(t, props[i-1].Index, props[i].Index)
	}

	assert.Equal(t, int32(3), c.TextureUnits())
	assert.Equal(t, 2, c.LightCount())

	material := c.Category(CategoryMaterial)
	names := make([]string, len(material))
	for i, p := range material {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"TintColor", "Albedo", "DetailNormalMap", "Environment", "Offset", "Layer2"}, names)

	p, ok := c.Light(LightPosition, 1)
	require.True(t, ok)
	assert.Equal(t, LightPosition, p.BaseName)
	assert.Equal(t, int32(4), p.Index)
}

func TestCatalogUnsupportedType(t *testing.T) {
	tests := []gpu.Uniform{
		{Name: "Flag", Type: gpu.UniformBool, Location: 0},
		{Name: "Basis", Type: gpu.UniformMat3, Location: 0},
		{Name: "Weird", Type: gpu.UniformUnknown, Location: 0, Raw: 0x8B5D},
	}
	for _, u := range tests {
		t.Run(u.Name, func(t *testing.T) {
			_, err := NewCatalog([]gpu.Uniform{u})
			assert.ErrorIs(t, err, ErrUnsupportedType)
		})
	}
}

func TestCatalogMustProperty(t *testing.T) {
	c, err := NewCatalog(sampleUniforms())
	require.NoError(t, err)

	assert.NotPanics(t, func() { c.MustProperty("Albedo") })
	assert.Panics(t, func() { c.MustProperty("Nope") })
}

func TestPropertyTypeSize(t *testing.T) {
	tests := []struct {
		typ  PropertyType
		size int
	}{
		{TypeColor, 16},
		{TypeInt, 4},
		{TypeFloat, 4},
		{TypeMatrix, 64},
		{TypeVector2, 8},
		{TypeVector3, 12},
		{TypeVector4, 16},
		{TypeTexture, 4},
		{TypeCubeMapTexture, 4},
		{TypeNormalMapTexture, 4},
	}
	for _, tt := range tests {
		if got := tt.typ.Size(); got != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.typ, got, tt.size)
		}
	}
}
