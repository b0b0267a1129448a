// Package scenegraph builds the export-side view of a host scene: which
// nodes are written, what they are, and which names their materials are
// bound to.
package scenegraph

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-dae/internal/host"
	"github.com/Faultbox/midgard-dae/internal/idlist"
)

var (
	ErrSymbolExists   = errors.New("symbol already bound for material")
	ErrSymbolNotFound = errors.New("no symbol bound for material")
)

// Type is the exported kind of a node.
type Type int

const (
	TypeUndetermined Type = iota
	TypeUnknown
	TypeMesh
	TypeCamera
	TypeLight
	TypeBone
)

func (t Type) String() string {
	switch t {
	case TypeUndetermined:
		return "Undetermined"
	case TypeMesh:
		return "Mesh"
	case TypeCamera:
		return "Camera"
	case TypeLight:
		return "Light"
	case TypeBone:
		return "Bone"
	default:
		return "Unknown"
	}
}

// DetermineType classifies a host node. The first matching rule wins:
// no object, geometry, light, camera, bone flag.
func DetermineType(n host.Node) Type {
	obj := n.Object()
	if obj == nil {
		return TypeUnknown
	}
	switch obj.Class() {
	case host.ObjectGeometry:
		return TypeMesh
	case host.ObjectLight:
		return TypeLight
	case host.ObjectCamera:
		return TypeCamera
	}
	if n.IsBone() {
		return TypeBone
	}
	return TypeUnknown
}

// Symbol is the name a material is bound to inside one mesh instance.
type Symbol struct {
	Name string
	Used bool
}

// ExportNode wraps one host node. It owns its children; instances are
// references to nodes owned elsewhere in the graph.
type ExportNode struct {
	host host.Node
	ids  *idlist.Registry
	id   string

	// Type is computed on first use and never recomputed.
	typ      Type
	typeDone bool

	group bool

	symbols      map[host.Handle]*Symbol
	wireframe    uint32
	hasWireframe bool

	children  []*ExportNode
	instances []*ExportNode
}

// NewExportNode wraps n. Identifiers set with SetID are issued by ids.
func NewExportNode(n host.Node, ids *idlist.Registry) *ExportNode {
	return &ExportNode{
		host:    n,
		ids:     ids,
		symbols: make(map[host.Handle]*Symbol),
	}
}

// Host returns the wrapped host node.
func (n *ExportNode) Host() host.Node {
	return n.host
}

// Type returns the classification of the host node.
func (n *ExportNode) Type() Type {
	if !n.typeDone {
		n.typ = DetermineType(n.host)
		n.typeDone = true
	}
	return n.typ
}

// IsGroup reports whether the node is written as a transform only because
// its own type is filtered out but its descendants are not.
func (n *ExportNode) IsGroup() bool {
	return n.group
}

// SetID issues a document-unique identifier derived from candidate and
// returns it.
func (n *ExportNode) SetID(candidate string) string {
	n.id = n.ids.Register(candidate)
	return n.id
}

func (n *ExportNode) ID() string {
	return n.id
}

// AddSymbol binds material to name. A material can be bound only once.
func (n *ExportNode) AddSymbol(material *host.Material, name string) error {
	if _, ok := n.symbols[material.Handle]; ok {
		return fmt.Errorf("%w: %s on node %s", ErrSymbolExists, material.Name, n.host.Name())
	}
	n.symbols[material.Handle] = &Symbol{Name: name}
	return nil
}

// SymbolByMaterialAndSetAsUsed returns the name bound to material and
// marks the binding used.
func (n *ExportNode) SymbolByMaterialAndSetAsUsed(material *host.Material) (string, error) {
	s, ok := n.symbols[material.Handle]
	if !ok {
		return "", fmt.Errorf("%w: %s on node %s", ErrSymbolNotFound, material.Name, n.host.Name())
	}
	s.Used = true
	return s.Name, nil
}

// Symbols returns a copy of the symbol table.
func (n *ExportNode) Symbols() map[host.Handle]Symbol {
	out := make(map[host.Handle]Symbol, len(n.symbols))
	for h, s := range n.symbols {
		out[h] = *s
	}
	return out
}

func (n *ExportNode) HasSymbols() bool {
	return len(n.symbols) > 0
}

func (n *ExportNode) SetWireframeColor(rgb uint32) {
	n.wireframe = rgb
	n.hasWireframe = true
}

// WireframeColor returns the fallback color. A node with material
// symbols has none.
func (n *ExportNode) WireframeColor() (uint32, bool) {
	if !n.hasWireframe || len(n.symbols) > 0 {
		return 0, false
	}
	return n.wireframe, true
}

// AddChild appends an owned child.
func (n *ExportNode) AddChild(child *ExportNode) {
	n.children = append(n.children, child)
}

func (n *ExportNode) NumChildren() int {
	return len(n.children)
}

func (n *ExportNode) Child(i int) *ExportNode {
	return n.children[i]
}

func (n *ExportNode) Children() []*ExportNode {
	return n.children
}

// AddInstance records a reference to a node reached again through another
// parent.
func (n *ExportNode) AddInstance(target *ExportNode) {
	n.instances = append(n.instances, target)
}

func (n *ExportNode) Instances() []*ExportNode {
	return n.instances
}

// Clean releases the subtree. Cleaning a clean node does nothing.
func (n *ExportNode) Clean() {
	for _, c := range n.children {
		c.Clean()
	}
	n.children = nil
	n.instances = nil
	clear(n.symbols)
}
