package host

import "github.com/Faultbox/midgard-dae/pkg/math"

// MemNode is an in-memory Node.
type MemNode struct {
	handle    Handle
	name      string
	children  []Node
	object    Object
	bone      bool
	transform math.Mat4
	pivot     math.Mat4
}

// NewNode creates a node with an identity transform and no object.
func NewNode(name string) *MemNode {
	return &MemNode{
		handle:    NewHandle(),
		name:      name,
		transform: math.Identity(),
		pivot:     math.Identity(),
	}
}

func (n *MemNode) Handle() Handle       { return n.handle }
func (n *MemNode) Name() string         { return n.name }
func (n *MemNode) Children() []Node     { return n.children }
func (n *MemNode) Object() Object       { return n.object }
func (n *MemNode) IsBone() bool         { return n.bone }
func (n *MemNode) Transform() math.Mat4 { return n.transform }
func (n *MemNode) Pivot() math.Mat4     { return n.pivot }

// AddChild appends child. The same child may be added to several parents.
func (n *MemNode) AddChild(child Node) *MemNode {
	n.children = append(n.children, child)
	return n
}

func (n *MemNode) SetObject(obj Object) *MemNode {
	n.object = obj
	return n
}

func (n *MemNode) SetBone(bone bool) *MemNode {
	n.bone = bone
	return n
}

func (n *MemNode) SetTransform(m math.Mat4) *MemNode {
	n.transform = m
	return n
}

func (n *MemNode) SetPivot(m math.Mat4) *MemNode {
	n.pivot = m
	return n
}

// MemScene is an in-memory Scene.
type MemScene struct {
	name  string
	roots []Node
}

// NewScene creates an empty scene.
func NewScene(name string) *MemScene {
	return &MemScene{name: name}
}

func (s *MemScene) Name() string  { return s.name }
func (s *MemScene) Roots() []Node { return s.roots }

// AddRoot appends a top-level node.
func (s *MemScene) AddRoot(n Node) *MemScene {
	s.roots = append(s.roots, n)
	return s
}
