package shader

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/Faultbox/midgard-scene/internal/engine/gpu"
)

// ErrUnsupportedType is returned when a shader declares a uniform type the
// engine cannot feed.
var ErrUnsupportedType = errors.New("unsupported uniform type")

// Catalog is the classified list of a shader's active uniforms. It is built
// once per program and never changes.
type Catalog struct {
	properties []Property
	byName     map[string]int
	categories map[Category][]int
	units      int32
	lights     int
}

// NewCatalog classifies uniforms. Inactive uniforms (location -1) are
// skipped; texture units are assigned in location order.
func NewCatalog(uniforms []gpu.Uniform) (*Catalog, error) {
	active := make([]gpu.Uniform, 0, len(uniforms))
	for _, u := range uniforms {
		if u.Location >= 0 {
			active = append(active, u)
		}
	}
	slices.SortFunc(active, func(a, b gpu.Uniform) int {
		return int(a.Location - b.Location)
	})

	c := &Catalog{
		properties: make([]Property, 0, len(active)),
		byName:     make(map[string]int, len(active)),
		categories: make(map[Category][]int),
	}

	for _, u := range active {
		typ, err := propertyType(u)
		if err != nil {
			return nil, err
		}

		p := Property{
			Name:        u.Name,
			BaseName:    u.Name,
			Index:       u.Location,
			Type:        typ,
			TextureUnit: -1,
		}
		classify(&p)
		if typ.IsTexture() {
			p.TextureUnit = c.units
			c.units++
		}
		if p.Category == CategoryLight {
			c.lights = max(c.lights, p.LightIndex+1)
		}

		c.byName[p.Name] = len(c.properties)
		c.categories[p.Category] = append(c.categories[p.Category], len(c.properties))
		c.properties = append(c.properties, p)
	}
	return c, nil
}

func propertyType(u gpu.Uniform) (PropertyType, error) {
	switch u.Type {
	case gpu.UniformFloat:
		return TypeFloat, nil
	case gpu.UniformInt:
		return TypeInt, nil
	case gpu.UniformVec2:
		return TypeVector2, nil
	case gpu.UniformVec3:
		return TypeVector3, nil
	case gpu.UniformVec4:
		if strings.HasSuffix(u.Name, ColorSuffix) {
			return TypeColor, nil
		}
		return TypeVector4, nil
	case gpu.UniformMat4:
		return TypeMatrix, nil
	case gpu.UniformSampler2D:
		if strings.HasSuffix(u.Name, NormalMapSuffix) {
			return TypeNormalMapTexture, nil
		}
		return TypeTexture, nil
	case gpu.UniformSamplerCube:
		return TypeCubeMapTexture, nil
	default:
		return 0, fmt.Errorf("uniform %q of type %s (0x%x): %w", u.Name, u.Type, u.Raw, ErrUnsupportedType)
	}
}

func classify(p *Property) {
	if cat, ok := builtins[p.Name]; ok {
		p.Category = cat
		return
	}

	base := strings.TrimRightFunc(p.Name, func(r rune) bool { return r >= '0' && r <= '9' })
	if base != p.Name && lightNames[base] {
		// The suffix is all digits, so Atoi only fails on overflow.
		if idx, err := strconv.Atoi(p.Name[len(base):]); err == nil {
			p.Category = CategoryLight
			p.BaseName = base
			p.LightIndex = idx
			return
		}
	}
	p.Category = CategoryMaterial
}

// Properties returns every property in location order. The slice must not be
// modified.
func (c *Catalog) Properties() []Property {
	return c.properties
}

// Len returns the number of active properties.
func (c *Catalog) Len() int {
	return len(c.properties)
}

// Property looks up a property by uniform name.
func (c *Catalog) Property(name string) (Property, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Property{}, false
	}
	return c.properties[i], true
}

// MustProperty returns the named property and panics if the shader does not
// declare it.
func (c *Catalog) MustProperty(name string) Property {
	p, ok := c.Property(name)
	if !ok {
		panic(fmt.Sprintf("shader property %q not found", name))
	}
	return p
}

// Category returns the properties of cat in location order.
func (c *Catalog) Category(cat Category) []Property {
	idx := c.categories[cat]
	out := make([]Property, len(idx))
	for i, j := range idx {
		out[i] = c.properties[j]
	}
	return out
}

// Light returns the property named base for light index i.
func (c *Catalog) Light(base string, i int) (Property, bool) {
	return c.Property(base + strconv.Itoa(i))
}

// LightCount returns one more than the highest light index declared.
func (c *Catalog) LightCount() int {
	return c.lights
}

// TextureUnits returns the number of texture units the shader uses.
func (c *Catalog) TextureUnits() int32 {
	return c.units
}
