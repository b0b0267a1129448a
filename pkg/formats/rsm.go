package formats

import (
	"errors"
	"fmt"
	"os"
)

// RSM format errors.
var (
	ErrInvalidRSMMagic       = errors.New("invalid RSM magic: expected 'GRSM'")
	ErrUnsupportedRSMVersion = errors.New("unsupported RSM version")
	ErrTruncatedRSMData      = errors.New("truncated RSM data")
	ErrInvalidNodeCount      = errors.New("invalid RSM node count")
)

// Upper bounds for element counts; anything larger is treated as corrupt.
const (
	maxRSMTextures = 1000
	maxRSMNodes    = 10000
	maxRSMElements = 100000
	maxRSMKeys     = 10000
	maxRSMBoxes    = 1000
)

// RSMVersion represents the RSM file version.
type RSMVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v RSMVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// AtLeast returns true if version is >= major.minor.
func (v RSMVersion) AtLeast(major, minor uint8) bool {
	return v.Major > major || (v.Major == major && v.Minor >= minor)
}

// RSMShadingType represents the shading mode for rendering.
type RSMShadingType int32

const (
	RSMShadingNone   RSMShadingType = 0
	RSMShadingFlat   RSMShadingType = 1
	RSMShadingSmooth RSMShadingType = 2
)

// String returns a human-readable shading type name.
func (s RSMShadingType) String() string {
	switch s {
	case RSMShadingNone:
		return "None"
	case RSMShadingFlat:
		return "Flat"
	case RSMShadingSmooth:
		return "Smooth"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// RSMTexCoord is a texture coordinate with its vertex color.
type RSMTexCoord struct {
	Color [4]uint8 // RGBA, v1.2+
	U, V  float32
}

// RSMFace is a triangle referencing vertex and texcoord indices.
type RSMFace struct {
	VertexIDs   [3]uint16
	TexCoordIDs [3]uint16
	TextureID   uint16 // index into the node's TextureIDs
	TwoSide     int32
	SmoothGroup int32 // v1.2+
}

// RSMKeyframe is an animation key; only the fields of its track are set.
type RSMKeyframe struct {
	Frame int32
	Value [4]float32
}

// RSMNode is one node of the model hierarchy.
type RSMNode struct {
	Name       string
	Parent     string  // empty for the root
	TextureIDs []int32 // indices into RSM.Textures

	Matrix   [9]float32 // column-major 3x3
	Offset   [3]float32 // pivot
	Position [3]float32
	RotAngle float32 // radians
	RotAxis  [3]float32
	Scale    [3]float32

	Vertices  [][3]float32
	TexCoords []RSMTexCoord
	Faces     []RSMFace

	PosKeys   []RSMKeyframe // v < 1.5
	RotKeys   []RSMKeyframe
	ScaleKeys []RSMKeyframe // v >= 1.5
}

// RSMVolumeBox is a collision/bounding box.
type RSMVolumeBox struct {
	Size     [3]float32
	Position [3]float32
	Rotation [3]float32
	Flag     int32 // v1.3+
}

// RSM is a parsed resource model.
type RSM struct {
	Version     RSMVersion
	AnimLength  int32 // milliseconds
	Shading     RSMShadingType
	Alpha       float32
	Textures    []string
	RootNode    string
	Nodes       []RSMNode
	VolumeBoxes []RSMVolumeBox
}

// ParseRSM parses RSM data from a byte slice.
func ParseRSM(data []byte) (*RSM, error) {
	if len(data) < 6 {
		return nil, ErrTruncatedRSMData
	}
	if string(data[:4]) != "GRSM" {
		return nil, ErrInvalidRSMMagic
	}

	r := newReader(data[4:])
	rsm := &RSM{Version: RSMVersion{Major: r.u8(), Minor: r.u8()}}
	if rsm.Version.Major < 1 || rsm.Version.Major > 2 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRSMVersion, rsm.Version)
	}

	rsm.AnimLength = r.i32()
	rsm.Shading = RSMShadingType(r.i32())
	rsm.Alpha = 1.0
	if rsm.Version.AtLeast(1, 4) {
		rsm.Alpha = float32(r.u8()) / 255.0
	}
	r.skip(16) // reserved

	textureCount := r.count(maxRSMTextures)
	rsm.Textures = make([]string, textureCount)
	for i := range rsm.Textures {
		rsm.Textures[i] = r.str(40)
	}
	rsm.RootNode = r.str(40)
	if r.err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrTruncatedRSMData, r.err)
	}

	nodeCount := r.i32()
	if r.err != nil {
		return nil, fmt.Errorf("%w: node count", ErrTruncatedRSMData)
	}
	if nodeCount < 0 || nodeCount > maxRSMNodes {
		return nil, fmt.Errorf("%w: %d", ErrInvalidNodeCount, nodeCount)
	}

	rsm.Nodes = make([]RSMNode, nodeCount)
	for i := range rsm.Nodes {
		readRSMNode(r, rsm.Version, &rsm.Nodes[i])
		if r.err != nil {
			return nil, fmt.Errorf("%w: node %d: %v", ErrTruncatedRSMData, i, r.err)
		}
	}

	// Volume boxes are optional trailing data.
	if r.remaining() >= 4 {
		boxCount := r.i32()
		if boxCount > 0 && boxCount < maxRSMBoxes {
			boxes := make([]RSMVolumeBox, boxCount)
			for i := range boxes {
				boxes[i].Size = r.vec3()
				boxes[i].Position = r.vec3()
				boxes[i].Rotation = r.vec3()
				if rsm.Version.AtLeast(1, 3) {
					boxes[i].Flag = r.i32()
				}
			}
			if r.err == nil {
				rsm.VolumeBoxes = boxes
			}
		}
	}

	return rsm, nil
}

func readRSMNode(r *reader, version RSMVersion, node *RSMNode) {
	node.Name = r.str(40)
	node.Parent = r.str(40)

	node.TextureIDs = make([]int32, r.count(maxRSMTextures))
	for i := range node.TextureIDs {
		node.TextureIDs[i] = r.i32()
	}

	for i := range node.Matrix {
		node.Matrix[i] = r.f32()
	}
	node.Offset = r.vec3()
	node.Position = r.vec3()
	node.RotAngle = r.f32()
	node.RotAxis = r.vec3()
	node.Scale = r.vec3()

	node.Vertices = make([][3]float32, r.count(maxRSMElements))
	for i := range node.Vertices {
		node.Vertices[i] = r.vec3()
	}

	node.TexCoords = make([]RSMTexCoord, r.count(maxRSMElements))
	for i := range node.TexCoords {
		tc := &node.TexCoords[i]
		if version.AtLeast(1, 2) {
			copy(tc.Color[:], r.next(4))
		} else {
			tc.Color = [4]uint8{255, 255, 255, 255}
		}
		tc.U = r.f32()
		tc.V = r.f32()
	}

	node.Faces = make([]RSMFace, r.count(maxRSMElements))
	for i := range node.Faces {
		f := &node.Faces[i]
		f.VertexIDs = [3]uint16{r.u16(), r.u16(), r.u16()}
		f.TexCoordIDs = [3]uint16{r.u16(), r.u16(), r.u16()}
		f.TextureID = r.u16()
		r.skip(2) // padding
		f.TwoSide = r.i32()
		if version.AtLeast(1, 2) {
			f.SmoothGroup = r.i32()
		}
	}

	if !version.AtLeast(1, 5) {
		node.PosKeys = readKeys(r, 3)
	}
	node.RotKeys = readKeys(r, 4)
	if version.AtLeast(1, 5) {
		node.ScaleKeys = readKeys(r, 3)
	}
}

func readKeys(r *reader, width int) []RSMKeyframe {
	n := r.count(maxRSMKeys)
	if n == 0 {
		return nil
	}
	keys := make([]RSMKeyframe, n)
	for i := range keys {
		keys[i].Frame = r.i32()
		for j := 0; j < width; j++ {
			keys[i].Value[j] = r.f32()
		}
	}
	return keys
}

// ParseRSMFile parses an RSM file from disk.
func ParseRSMFile(path string) (*RSM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading RSM file: %w", err)
	}
	return ParseRSM(data)
}

// TotalVertexCount returns the number of vertices across all nodes.
func (rsm *RSM) TotalVertexCount() int {
	total := 0
	for i := range rsm.Nodes {
		total += len(rsm.Nodes[i].Vertices)
	}
	return total
}

// TotalFaceCount returns the number of faces across all nodes.
func (rsm *RSM) TotalFaceCount() int {
	total := 0
	for i := range rsm.Nodes {
		total += len(rsm.Nodes[i].Faces)
	}
	return total
}

// NodeByName returns the first node with the given name, or nil.
func (rsm *RSM) NodeByName(name string) *RSMNode {
	for i := range rsm.Nodes {
		if rsm.Nodes[i].Name == name {
			return &rsm.Nodes[i]
		}
	}
	return nil
}

// Root returns the node named by RootNode. Files that leave RootNode empty
// fall back to the first parentless node.
func (rsm *RSM) Root() *RSMNode {
	if rsm.RootNode != "" {
		if n := rsm.NodeByName(rsm.RootNode); n != nil {
			return n
		}
	}
	for i := range rsm.Nodes {
		if rsm.Nodes[i].Parent == "" {
			return &rsm.Nodes[i]
		}
	}
	return nil
}

// Children returns the nodes whose parent is parentName, in file order.
// A node never counts as its own child.
func (rsm *RSM) Children(parentName string) []*RSMNode {
	var children []*RSMNode
	for i := range rsm.Nodes {
		n := &rsm.Nodes[i]
		if n.Parent == parentName && n.Name != parentName {
			children = append(children, n)
		}
	}
	return children
}

// HasAnimation returns true if any node carries keyframes.
func (rsm *RSM) HasAnimation() bool {
	for i := range rsm.Nodes {
		n := &rsm.Nodes[i]
		if len(n.PosKeys) > 0 || len(n.RotKeys) > 0 || len(n.ScaleKeys) > 0 {
			return true
		}
	}
	return false
}
