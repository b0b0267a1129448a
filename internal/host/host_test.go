package host

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-dae/pkg/formats"
	"github.com/Faultbox/midgard-dae/pkg/math"
)

func TestNewHandleUnique(t *testing.T) {
	a, b := NewHandle(), NewHandle()
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, NewNode("x").Handle(), NewNode("x").Handle())
}

func TestObjectClass(t *testing.T) {
	tests := []struct {
		obj  Object
		want ObjectClass
	}{
		{&Geometry{}, ObjectGeometry},
		{&Light{}, ObjectLight},
		{&Camera{}, ObjectCamera},
		{&Other{}, ObjectOther},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.obj.Class())
		})
	}
}

func TestMemNodeSharedChild(t *testing.T) {
	shared := NewNode("shared")
	a := NewNode("a").AddChild(shared)
	b := NewNode("b").AddChild(shared)
	scene := NewScene("s").AddRoot(a).AddRoot(b)

	require.Len(t, scene.Roots(), 2)
	assert.Same(t, scene.Roots()[0].Children()[0], scene.Roots()[1].Children()[0])
	assert.True(t, a.Transform().IsIdentity())
	assert.Nil(t, a.Object())
}

func testModel() *formats.RSM {
	return &formats.RSM{
		Shading:  formats.RSMShadingSmooth,
		Textures: []string{"stone\\wall.bmp", "wood.bmp"},
		RootNode: "base",
		Nodes: []formats.RSMNode{
			{
				Name:       "base",
				TextureIDs: []int32{0, 1, 1, 7},
				Position:   [3]float32{1, 2, 3},
				Matrix:     [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1},
				Vertices:   make([][3]float32, 4),
				Faces:      []formats.RSMFace{{}, {TwoSide: 1}},
			},
			{Name: "arm", Parent: "base", Matrix: [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1}},
			{Name: "hand", Parent: "arm", TextureIDs: []int32{0}, Vertices: make([][3]float32, 3), Faces: make([]formats.RSMFace, 1)},
		},
	}
}

func TestFromRSM(t *testing.T) {
	root, err := FromRSM("tree.rsm", testModel())
	require.NoError(t, err)

	assert.Equal(t, "base", root.Name())
	assert.Equal(t, math.Translate(1, 2, 3), root.Transform())

	geom, ok := root.Object().(*Geometry)
	require.True(t, ok)
	assert.Equal(t, 4, geom.VertexCount)
	assert.Equal(t, 2, geom.FaceCount)
	assert.True(t, geom.TwoSided)
	assert.Equal(t, "Smooth", geom.Shading)
	require.Len(t, geom.Materials, 2)
	assert.Equal(t, "wall", geom.Materials[0].Name)
	assert.Equal(t, "wood", geom.Materials[1].Name)

	require.Len(t, root.Children(), 1)
	arm := root.Children()[0]
	assert.Equal(t, "arm", arm.Name())
	assert.Nil(t, arm.Object())

	require.Len(t, arm.Children(), 1)
	hand := arm.Children()[0].(*MemNode)
	handGeom := hand.Object().(*Geometry)
	require.Len(t, handGeom.Materials, 1)
	assert.Same(t, geom.Materials[0], handGeom.Materials[0])
}

func TestFromRSMLoop(t *testing.T) {
	rsm := &formats.RSM{
		RootNode: "a",
		Nodes: []formats.RSMNode{
			{Name: "a", Parent: "b"},
			{Name: "b", Parent: "a"},
		},
	}

	root, err := FromRSM("loop", rsm)
	require.NoError(t, err)
	require.Len(t, root.Children(), 1)
	assert.Empty(t, root.Children()[0].Children())
}

func TestFromRSMEmpty(t *testing.T) {
	_, err := FromRSM("empty", &formats.RSM{})
	assert.ErrorIs(t, err, ErrEmptyModel)
}

type fakeSource struct {
	models map[string]*formats.RSM
	loads  map[string]int
}

func (f *fakeSource) LoadModel(name string) (*formats.RSM, error) {
	f.loads[name]++
	if m, ok := f.models[name]; ok {
		return m, nil
	}
	return nil, errors.New("not found")
}

func testWorld() *formats.RSW {
	model := func(name, file string, x float32) formats.RSWObject {
		return formats.RSWObject{
			Type:  formats.RSWObjectModel,
			Model: &formats.RSWModel{Name: name, ModelName: file, Position: [3]float32{x, 0, 0}, Scale: [3]float32{1, 1, 1}},
		}
	}
	return &formats.RSW{
		Light: formats.RSWLight{Longitude: 45, Latitude: 45, Diffuse: [3]float32{1, 1, 1}, Ambient: [3]float32{0.3, 0.3, 0.3}},
		Objects: []formats.RSWObject{
			model("tree1", "Tree.rsm", 0),
			model("tree2", "tree.rsm", 10),
			model("rock", "missing.rsm", 20),
			model("rock2", "missing.rsm", 30),
			{Type: formats.RSWObjectLight, Light: &formats.RSWLightSource{Name: "lamp", Color: [3]float32{1, 0.5, 0}, Range: 40}},
			{Type: formats.RSWObjectSound, Sound: &formats.RSWSoundSource{Name: "bird", File: "bird.wav"}},
			{Type: formats.RSWObjectEffect, Effect: &formats.RSWEffectSource{Name: "fire", EffectID: 47}},
		},
	}
}

func TestLoadWorld(t *testing.T) {
	src := &fakeSource{
		models: map[string]*formats.RSM{"tree.rsm": testModel()},
		loads:  make(map[string]int),
	}
	loader := NewWorldLoader(src, WithDefaultCamera(true))

	scene, err := loader.LoadWorld("prontera", testWorld())
	require.NoError(t, err)
	assert.Equal(t, "prontera", scene.Name())

	roots := scene.Roots()
	require.Len(t, roots, 10)

	// Both placements reference one model tree, loaded once.
	require.Len(t, roots[0].Children(), 1)
	require.Len(t, roots[1].Children(), 1)
	assert.Same(t, roots[0].Children()[0], roots[1].Children()[0])
	assert.Equal(t, 1, src.loads["tree.rsm"])
	assert.Equal(t, 1, loader.ModelCount())
	assert.Equal(t, math.Translate(10, 0, 0), roots[1].Transform())

	// Unresolved models are tried once and leave empty groups.
	assert.Empty(t, roots[2].Children())
	assert.Empty(t, roots[3].Children())
	assert.Equal(t, 1, src.loads["missing.rsm"])

	lamp := roots[4].Object().(*Light)
	assert.Equal(t, LightPoint, lamp.Kind)
	assert.Equal(t, 40.0, lamp.Range)

	assert.Equal(t, "sound:bird.wav", roots[5].Object().(*Other).Label)
	assert.Equal(t, "effect:47", roots[6].Object().(*Other).Label)

	assert.Equal(t, LightDirectional, roots[7].Object().(*Light).Kind)
	assert.Equal(t, LightAmbient, roots[8].Object().(*Light).Kind)
	assert.Equal(t, ObjectCamera, roots[9].Object().Class())
}

func TestLoadWorldWithoutSource(t *testing.T) {
	scene, err := NewWorldLoader(nil).LoadWorld("w", testWorld())
	require.NoError(t, err)
	require.Len(t, scene.Roots(), 9)
	assert.Empty(t, scene.Roots()[0].Children())
}

func TestLoadWorldEmptyObject(t *testing.T) {
	w := &formats.RSW{Objects: []formats.RSWObject{{Type: formats.RSWObjectModel}}}
	_, err := NewWorldLoader(nil).LoadWorld("w", w)
	assert.Error(t, err)
}

func TestSunPointsDown(t *testing.T) {
	w := &formats.RSW{Light: formats.RSWLight{Longitude: 0, Latitude: 90}}
	scene, err := NewWorldLoader(nil).LoadWorld("w", w)
	require.NoError(t, err)

	sun := scene.Roots()[0]
	assert.Equal(t, LightDirectional, sun.Object().(*Light).Kind)

	dir := sun.Transform().TransformPoint([3]float64{0, 0, -1})
	assert.InDelta(t, 0, dir[0], 1e-9)
	assert.InDelta(t, -1, dir[1], 1e-9)
	assert.InDelta(t, 0, dir[2], 1e-9)
}
