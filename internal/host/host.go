// Package host describes the scene hierarchy an export reads from.
//
// Exporters only see the Node and Scene interfaces. MemScene and MemNode
// are the in-memory implementation built from RSM models and RSW worlds.
package host

import (
	"sync/atomic"

	"github.com/Faultbox/midgard-dae/pkg/math"
)

// Handle identifies a host node or material for the lifetime of the
// process. Two nodes with the same handle are the same node.
type Handle uint64

var lastHandle atomic.Uint64

// NewHandle returns a handle that was never returned before.
func NewHandle() Handle {
	return Handle(lastHandle.Add(1))
}

// ObjectClass is the kind of object bound to a node.
type ObjectClass int

const (
	ObjectGeometry ObjectClass = iota
	ObjectLight
	ObjectCamera
	ObjectOther
)

func (c ObjectClass) String() string {
	switch c {
	case ObjectGeometry:
		return "geometry"
	case ObjectLight:
		return "light"
	case ObjectCamera:
		return "camera"
	default:
		return "other"
	}
}

// Object is the payload of a node.
type Object interface {
	Class() ObjectClass
}

// Material is a surface description referenced by geometry.
type Material struct {
	Handle  Handle
	Name    string
	Texture string // path relative to data/texture/
}

// NewMaterial creates a material with a fresh handle.
func NewMaterial(name, texture string) *Material {
	return &Material{Handle: NewHandle(), Name: name, Texture: texture}
}

// Geometry is a mesh. Only its statistics are exported.
type Geometry struct {
	Materials   []*Material
	VertexCount int
	FaceCount   int
	TwoSided    bool
	Shading     string
}

func (*Geometry) Class() ObjectClass { return ObjectGeometry }

// LightKind is the emission model of a light.
type LightKind int

const (
	LightPoint LightKind = iota
	LightDirectional
	LightAmbient
)

func (k LightKind) String() string {
	switch k {
	case LightDirectional:
		return "directional"
	case LightAmbient:
		return "ambient"
	default:
		return "point"
	}
}

type Light struct {
	Kind  LightKind
	Color [3]float64
	Range float64 // point lights only
}

func (*Light) Class() ObjectClass { return ObjectLight }

// Camera is a perspective camera. YFov is in degrees.
type Camera struct {
	YFov   float64
	Aspect float64
	ZNear  float64
	ZFar   float64
}

func (*Camera) Class() ObjectClass { return ObjectCamera }

// Other is an object the exporter has no element for, such as a sound.
type Other struct {
	Label string
}

func (*Other) Class() ObjectClass { return ObjectOther }

// Node is one node of the host hierarchy. A node may be a child of more
// than one parent.
type Node interface {
	Handle() Handle
	Name() string
	Children() []Node
	Object() Object // nil for pure transform groups
	IsBone() bool
	Transform() math.Mat4 // local, relative to the parent
}

// Pivoted is implemented by nodes whose mesh is placed relative to a
// pivot inside the node.
type Pivoted interface {
	Pivot() math.Mat4
}

// Scene is the top of a host hierarchy.
type Scene interface {
	Name() string
	Roots() []Node
}
