package scenegraph

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-dae/internal/host"
	"github.com/Faultbox/midgard-dae/internal/idlist"
)

var ErrAlreadyBuilt = errors.New("scene graph already built")

type options struct {
	lights    bool
	cameras   bool
	unknown   bool
	wireframe uint32
	log       *zap.Logger
}

// Option configures a Graph.
type Option func(*options)

// WithLights controls whether light nodes are exported. Default true.
func WithLights(enabled bool) Option {
	return func(o *options) { o.lights = enabled }
}

// WithCameras controls whether camera nodes are exported. Default true.
func WithCameras(enabled bool) Option {
	return func(o *options) { o.cameras = enabled }
}

// WithUnknown controls whether unclassified leaves are exported.
// Default false.
func WithUnknown(enabled bool) Option {
	return func(o *options) { o.unknown = enabled }
}

// WithWireframeColor sets the color given to nodes without materials.
func WithWireframeColor(rgb uint32) Option {
	return func(o *options) { o.wireframe = rgb }
}

func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// Graph is the export tree of one scene. Host nodes reached through more
// than one parent map to a single ExportNode; the other parents hold an
// instance reference to it.
type Graph struct {
	scene host.Scene
	ids   *idlist.Registry
	opts  options

	roots []*ExportNode
	index map[host.Handle]*ExportNode

	materials   []*host.Material
	materialIDs map[host.Handle]string

	built bool
}

// New creates a graph for scene. Node and material identifiers are
// issued by ids, which the caller shares with the rest of the document.
func New(scene host.Scene, ids *idlist.Registry, opts ...Option) *Graph {
	g := &Graph{
		scene: scene,
		ids:   ids,
		opts: options{
			lights:    true,
			cameras:   true,
			wireframe: 0x7F7F7F,
			log:       zap.NewNop(),
		},
		index:       make(map[host.Handle]*ExportNode),
		materialIDs: make(map[host.Handle]string),
	}
	for _, opt := range opts {
		opt(&g.opts)
	}
	return g
}

// Build traverses the scene once, top-down.
func (g *Graph) Build() error {
	if g.built {
		return ErrAlreadyBuilt
	}
	g.built = true

	for _, root := range g.scene.Roots() {
		if n := g.visit(root, nil); n != nil {
			g.roots = append(g.roots, n)
		}
	}

	g.opts.log.Debug("scene graph built",
		zap.String("scene", g.scene.Name()),
		zap.Int("nodes", len(g.index)),
		zap.Int("materials", len(g.materials)))
	return nil
}

// visit returns the new node for h, or nil when h was visited before or
// has nothing to export.
func (g *Graph) visit(h host.Node, parent *ExportNode) *ExportNode {
	if existing, ok := g.index[h.Handle()]; ok {
		if parent != nil {
			parent.AddInstance(existing)
		}
		g.opts.log.Debug("instanced node",
			zap.String("node", h.Name()),
			zap.String("target", existing.ID()))
		return nil
	}

	n := NewExportNode(h, g.ids)
	g.index[h.Handle()] = n

	filtered := !g.exports(n.Type())
	if !filtered {
		n.SetID(h.Name())
	}

	for _, child := range h.Children() {
		if c := g.visit(child, n); c != nil {
			n.AddChild(c)
		}
	}

	if filtered {
		if n.NumChildren() == 0 && len(n.Instances()) == 0 {
			delete(g.index, h.Handle())
			g.opts.log.Debug("skipped node",
				zap.String("node", h.Name()),
				zap.Stringer("type", n.Type()))
			return nil
		}
		n.group = true
		n.SetID(h.Name())
	}

	g.bindMaterials(n)
	return n
}

func (g *Graph) exports(t Type) bool {
	switch t {
	case TypeLight:
		return g.opts.lights
	case TypeCamera:
		return g.opts.cameras
	case TypeUnknown:
		return g.opts.unknown
	default:
		return true
	}
}

// bindMaterials gives every material of a mesh a symbol unique within the
// node. Nodes without materials get the wireframe color.
func (g *Graph) bindMaterials(n *ExportNode) {
	if n.group || n.Type() != TypeMesh {
		return
	}
	geom, ok := n.Host().Object().(*host.Geometry)
	if !ok || len(geom.Materials) == 0 {
		n.SetWireframeColor(g.opts.wireframe)
		return
	}

	local := idlist.New()
	for _, m := range geom.Materials {
		g.MaterialID(m)
		if err := n.AddSymbol(m, local.Register(m.Name)); err != nil {
			g.opts.log.Debug("material listed twice", zap.String("node", n.ID()), zap.Error(err))
		}
	}
}

// MaterialID returns the document identifier of m, issuing one on first
// use.
func (g *Graph) MaterialID(m *host.Material) string {
	if id, ok := g.materialIDs[m.Handle]; ok {
		return id
	}
	id := g.ids.Register(m.Name + "-material")
	g.materialIDs[m.Handle] = id
	g.materials = append(g.materials, m)
	return id
}

// Materials returns every bound material in order of first use.
func (g *Graph) Materials() []*host.Material {
	return g.materials
}

func (g *Graph) Roots() []*ExportNode {
	return g.roots
}

// Lookup returns the node exported for a host node.
func (g *Graph) Lookup(h host.Handle) (*ExportNode, bool) {
	n, ok := g.index[h]
	return n, ok
}

// Len returns the number of exported nodes.
func (g *Graph) Len() int {
	return len(g.index)
}

// Walk calls fn for every owned node, parents before children. Instance
// references are not followed. A non-nil error from fn stops the walk.
func (g *Graph) Walk(fn func(n *ExportNode, depth int) error) error {
	var walk func(n *ExportNode, depth int) error
	walk = func(n *ExportNode, depth int) error {
		if err := fn(n, depth); err != nil {
			return err
		}
		for _, c := range n.children {
			if err := walk(c, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	for _, r := range g.roots {
		if err := walk(r, 0); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of nodes exported as t. Groups count as
// TypeUnknown.
func (g *Graph) Count(t Type) int {
	count := 0
	for _, n := range g.index {
		nt := n.Type()
		if n.group {
			nt = TypeUnknown
		}
		if nt == t {
			count++
		}
	}
	return count
}

// Clean releases every node and the index.
func (g *Graph) Clean() {
	for _, r := range g.roots {
		r.Clean()
	}
	g.roots = nil
	clear(g.index)
}
