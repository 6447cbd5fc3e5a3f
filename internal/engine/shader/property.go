package shader

import "fmt"

// PropertyType is the declared type of a shader property.
type PropertyType uint8

// Property types.
const (
	TypeFloat PropertyType = iota + 1
	TypeInt
	TypeMatrix
	TypeVector2
	TypeVector3
	TypeVector4
	TypeColor
	TypeTexture
	TypeCubeMapTexture
	TypeNormalMapTexture
)

// Size returns the packed byte size of a value of type t. Texture-like types
// store a GPU handle.
func (t PropertyType) Size() int {
	switch t {
	case TypeFloat, TypeInt, TypeTexture, TypeCubeMapTexture, TypeNormalMapTexture:
		return 4
	case TypeVector2:
		return 8
	case TypeVector3:
		return 12
	case TypeVector4, TypeColor:
		return 16
	case TypeMatrix:
		return 64
	default:
		return 0
	}
}

// IsTexture reports whether t occupies a texture unit.
func (t PropertyType) IsTexture() bool {
	return t == TypeTexture || t == TypeCubeMapTexture || t == TypeNormalMapTexture
}

func (t PropertyType) String() string {
	switch t {
	case TypeFloat:
		return "Float"
	case TypeInt:
		return "Int"
	case TypeMatrix:
		return "Matrix"
	case TypeVector2:
		return "Vector2"
	case TypeVector3:
		return "Vector3"
	case TypeVector4:
		return "Vector4"
	case TypeColor:
		return "Color"
	case TypeTexture:
		return "Texture"
	case TypeCubeMapTexture:
		return "CubeMapTexture"
	case TypeNormalMapTexture:
		return "NormalMapTexture"
	default:
		return fmt.Sprintf("PropertyType(%d)", uint8(t))
	}
}

// Category names the system responsible for filling a property.
type Category uint8

// Categories.
const (
	CategoryMaterial Category = iota
	CategoryFrame
	CategoryView
	CategoryDraw
	CategoryLight
)

func (c Category) String() string {
	switch c {
	case CategoryMaterial:
		return "material"
	case CategoryFrame:
		return "frame"
	case CategoryView:
		return "view"
	case CategoryDraw:
		return "draw"
	case CategoryLight:
		return "light"
	default:
		return fmt.Sprintf("category(%d)", uint8(c))
	}
}

// Property is one active uniform of a shader.
type Property struct {
	Name string
	// Index is the uniform location.
	Index int32
	Type  PropertyType
	// TextureUnit is -1 for non-texture properties.
	TextureUnit int32
	Category    Category
	// LightIndex is the numeric suffix of a light property.
	LightIndex int
	// BaseName is Name without the light index suffix.
	BaseName string
}

// Built-in property names.
const (
	Time       = "Time"
	DeltaTime  = "DeltaTime"
	FrameCount = "FrameCount"

	// ShadowMatrix is the light-space view-projection of the first
	// directional light.
	ShadowMatrix = "ShadowMatrix"

	ViewMatrix                   = "ViewMatrix"
	ProjectionMatrix             = "ProjectionMatrix"
	ViewProjectionMatrix         = "ViewProjectionMatrix"
	ViewRotationProjectionMatrix = "ViewRotationProjectionMatrix"
	CameraPosition               = "CameraPosition"
	ZNear                        = "ZNear"
	ZFar                         = "ZFar"
	ViewportSize                 = "ViewportSize"

	ModelMatrix               = "ModelMatrix"
	ModelViewProjectionMatrix = "ModelViewProjectionMatrix"
	NormalMatrix              = "NormalMatrix"

	LightPosition  = "LightPosition"
	LightDirection = "LightDirection"
	LightColor     = "LightColor"
	LightIntensity = "LightIntensity"
	LightRange     = "LightRange"
	LightSpotAngle = "LightSpotAngle"
	LightType      = "LightType"
)

var builtins = map[string]Category{
	Time:       CategoryFrame,
	DeltaTime:  CategoryFrame,
	FrameCount: CategoryFrame,

	ShadowMatrix: CategoryFrame,

	ViewMatrix:                   CategoryView,
	ProjectionMatrix:             CategoryView,
	ViewProjectionMatrix:         CategoryView,
	ViewRotationProjectionMatrix: CategoryView,
	CameraPosition:               CategoryView,
	ZNear:                        CategoryView,
	ZFar:                         CategoryView,
	ViewportSize:                 CategoryView,

	ModelMatrix:               CategoryDraw,
	ModelViewProjectionMatrix: CategoryDraw,
	NormalMatrix:              CategoryDraw,
}

var lightNames = map[string]bool{
	LightPosition:  true,
	LightDirection: true,
	LightColor:     true,
	LightIntensity: true,
	LightRange:     true,
	LightSpotAngle: true,
	LightType:      true,
}

// NormalMapSuffix marks 2D samplers that hold tangent-space normals.
const NormalMapSuffix = "NormalMap"

// ColorSuffix marks vec4 uniforms that hold colors.
const ColorSuffix = "Color"
