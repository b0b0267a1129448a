package host

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/Faultbox/midgard-dae/pkg/formats"
	"github.com/Faultbox/midgard-dae/pkg/math"
)

// ErrEmptyModel is returned for models without a root node.
var ErrEmptyModel = errors.New("model has no nodes")

// FromRSM converts a parsed model into a node tree and returns its root.
// Nodes whose parent chain loops back are attached only once.
func FromRSM(name string, rsm *formats.RSM) (*MemNode, error) {
	root := rsm.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmptyModel, name)
	}

	materials := make([]*Material, len(rsm.Textures))
	for i, tex := range rsm.Textures {
		materials[i] = NewMaterial(textureName(tex), tex)
	}

	b := &rsmBuilder{rsm: rsm, materials: materials, visited: make(map[string]bool)}
	return b.build(root), nil
}

type rsmBuilder struct {
	rsm       *formats.RSM
	materials []*Material
	visited   map[string]bool
}

func (b *rsmBuilder) build(src *formats.RSMNode) *MemNode {
	b.visited[src.Name] = true

	n := NewNode(src.Name)
	n.SetTransform(localTransform(src))
	n.SetPivot(math.Translate(float64(src.Offset[0]), float64(src.Offset[1]), float64(src.Offset[2])).
		Mul(math.FromMat3(src.Matrix)))

	if len(src.Vertices) > 0 || len(src.Faces) > 0 {
		n.SetObject(b.geometry(src))
	}

	for _, child := range b.rsm.Children(src.Name) {
		if b.visited[child.Name] {
			continue
		}
		n.AddChild(b.build(child))
	}
	return n
}

func (b *rsmBuilder) geometry(src *formats.RSMNode) *Geometry {
	g := &Geometry{
		VertexCount: len(src.Vertices),
		FaceCount:   len(src.Faces),
		Shading:     b.rsm.Shading.String(),
	}

	seen := make(map[int32]bool)
	for _, id := range src.TextureIDs {
		if id < 0 || int(id) >= len(b.materials) || seen[id] {
			continue
		}
		seen[id] = true
		g.Materials = append(g.Materials, b.materials[id])
	}

	for _, f := range src.Faces {
		if f.TwoSide != 0 {
			g.TwoSided = true
			break
		}
	}
	return g
}

// localTransform places a node relative to its parent:
// translate * rotate * scale.
func localTransform(src *formats.RSMNode) math.Mat4 {
	scale := src.Scale
	if scale == [3]float32{} {
		scale = [3]float32{1, 1, 1}
	}

	axis := [3]float64{float64(src.RotAxis[0]), float64(src.RotAxis[1]), float64(src.RotAxis[2])}
	return math.Translate(float64(src.Position[0]), float64(src.Position[1]), float64(src.Position[2])).
		Mul(math.RotateAxis(axis, float64(src.RotAngle))).
		Mul(math.Scale(float64(scale[0]), float64(scale[1]), float64(scale[2])))
}

// textureName returns the file name of a texture path without extension.
func textureName(tex string) string {
	base := path.Base(strings.ReplaceAll(tex, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}
