package material

import (
	"encoding/binary"
	gomath "math"

	"github.com/Faultbox/midgard-scene/internal/engine/shader"
	"github.com/Faultbox/midgard-scene/pkg/math"
)

// layout maps the material properties of one shader to byte offsets. It is
// built once per shader and shared read-only by every material of it.
type layout struct {
	shader     *shader.Shader
	properties []shader.Property
	offsets    []int
	index      map[string]int
	size       int
}

func newLayout(sh *shader.Shader) *layout {
	props := sh.Catalog().Category(shader.CategoryMaterial)
	l := &layout{
		shader:     sh,
		properties: props,
		offsets:    make([]int, len(props)),
		index:      make(map[string]int, len(props)),
	}
	for i, p := range props {
		l.offsets[i] = l.size
		l.index[p.Name] = i
		l.size += p.Type.Size()
	}
	return l
}

// slot returns the offset of name if it is declared with type t.
func (l *layout) slot(name string, t shader.PropertyType) (int, bool) {
	i, ok := l.index[name]
	if !ok || l.properties[i].Type != t {
		return 0, false
	}
	return l.offsets[i], true
}

var le = binary.LittleEndian

func putFloats(b []byte, vs ...float32) {
	for i, v := range vs {
		le.PutUint32(b[i*4:], gomath.Float32bits(v))
	}
}

func getFloat(b []byte, i int) float32 {
	return gomath.Float32frombits(le.Uint32(b[i*4:]))
}

func putMatrix(b []byte, m math.Mat4) {
	putFloats(b, m[:]...)
}

func getMatrix(b []byte) math.Mat4 {
	var m math.Mat4
	for i := range m {
		m[i] = getFloat(b, i)
	}
	return m
}

func getVec4(b []byte) math.Vec4 {
	return math.Vec4{getFloat(b, 0), getFloat(b, 1), getFloat(b, 2), getFloat(b, 3)}
}
