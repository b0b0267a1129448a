package host

import (
	"fmt"
	stdmath "math"
	"path"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-dae/pkg/encoding"
	"github.com/Faultbox/midgard-dae/pkg/formats"
	"github.com/Faultbox/midgard-dae/pkg/math"
)

// ModelSource resolves the model files a world places.
type ModelSource interface {
	LoadModel(name string) (*formats.RSM, error)
}

// WorldLoader turns RSW worlds into scenes. Placements of the same model
// file share one model node tree.
type WorldLoader struct {
	src           ModelSource
	defaultCamera bool
	log           *zap.Logger

	models map[string]*MemNode
	failed map[string]bool
}

// LoaderOption configures a WorldLoader.
type LoaderOption func(*WorldLoader)

// WithDefaultCamera adds a camera looking at the world origin.
func WithDefaultCamera(enabled bool) LoaderOption {
	return func(l *WorldLoader) { l.defaultCamera = enabled }
}

// WithLoaderLogger sets the logger for unresolved models.
func WithLoaderLogger(log *zap.Logger) LoaderOption {
	return func(l *WorldLoader) { l.log = log }
}

// NewWorldLoader creates a loader reading models from src. A nil src
// leaves every placement empty.
func NewWorldLoader(src ModelSource, opts ...LoaderOption) *WorldLoader {
	l := &WorldLoader{
		src:    src,
		log:    zap.NewNop(),
		models: make(map[string]*MemNode),
		failed: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadWorld builds a scene from a parsed world. Models that cannot be
// loaded are logged and leave their placement as an empty group.
func (l *WorldLoader) LoadWorld(name string, w *formats.RSW) (*MemScene, error) {
	scene := NewScene(name)

	for i, obj := range w.Objects {
		var n *MemNode
		switch {
		case obj.Model != nil:
			n = l.placement(obj.Model)
		case obj.Light != nil:
			n = lightSource(obj.Light)
		case obj.Sound != nil:
			n = NewNode(obj.Sound.Name).
				SetObject(&Other{Label: "sound:" + obj.Sound.File}).
				SetTransform(translate(obj.Sound.Position))
		case obj.Effect != nil:
			n = NewNode(obj.Effect.Name).
				SetObject(&Other{Label: fmt.Sprintf("effect:%d", obj.Effect.EffectID)}).
				SetTransform(translate(obj.Effect.Position))
		default:
			return nil, fmt.Errorf("object %d: empty %s payload", i, obj.Type)
		}
		scene.AddRoot(n)
	}

	for _, n := range globalLights(w.Light) {
		scene.AddRoot(n)
	}

	if l.defaultCamera {
		cam := NewNode("camera").
			SetObject(&Camera{YFov: 45, Aspect: 4.0 / 3.0, ZNear: 1, ZFar: 5000}).
			SetTransform(math.Translate(0, 300, 300).Mul(math.RotateX(-stdmath.Pi / 4)))
		scene.AddRoot(cam)
	}

	return scene, nil
}

// ModelCount returns the number of distinct model files loaded so far.
func (l *WorldLoader) ModelCount() int {
	return len(l.models)
}

func (l *WorldLoader) placement(m *formats.RSWModel) *MemNode {
	name := m.Name
	if name == "" {
		name = textureName(m.ModelName)
	}

	scale := m.Scale
	if scale == [3]float32{} {
		scale = [3]float32{1, 1, 1}
	}
	t := translate(m.Position).
		Mul(math.RotateY(degrees(m.Rotation[1]))).
		Mul(math.RotateX(degrees(m.Rotation[0]))).
		Mul(math.RotateZ(degrees(m.Rotation[2]))).
		Mul(math.Scale(float64(scale[0]), float64(scale[1]), float64(scale[2])))

	n := NewNode(name).SetTransform(t)
	if model := l.model(m.ModelName); model != nil {
		n.AddChild(model)
	}
	return n
}

func (l *WorldLoader) model(file string) *MemNode {
	key := encoding.NormalizePath(file)
	if n, ok := l.models[key]; ok {
		return n
	}
	if l.src == nil || l.failed[key] {
		return nil
	}

	rsm, err := l.src.LoadModel(key)
	if err == nil {
		var n *MemNode
		if n, err = FromRSM(path.Base(key), rsm); err == nil {
			l.models[key] = n
			return n
		}
	}

	l.log.Warn("model not resolved", zap.String("model", file), zap.Error(err))
	l.failed[key] = true
	return nil
}

func lightSource(s *formats.RSWLightSource) *MemNode {
	return NewNode(s.Name).
		SetObject(&Light{
			Kind:  LightPoint,
			Color: [3]float64{float64(s.Color[0]), float64(s.Color[1]), float64(s.Color[2])},
			Range: float64(s.Range),
		}).
		SetTransform(translate(s.Position))
}

// globalLights returns the sun and the ambient term of a world. The sun
// node's -Z axis points away from the sun: longitude turns around Y,
// latitude is the elevation above the horizon.
func globalLights(wl formats.RSWLight) []*MemNode {
	sun := NewNode("sun").
		SetObject(&Light{
			Kind:  LightDirectional,
			Color: [3]float64{float64(wl.Diffuse[0]), float64(wl.Diffuse[1]), float64(wl.Diffuse[2])},
		}).
		SetTransform(math.RotateY(degrees(float32(wl.Longitude))).Mul(math.RotateX(-degrees(float32(wl.Latitude)))))

	ambient := NewNode("ambient").
		SetObject(&Light{
			Kind:  LightAmbient,
			Color: [3]float64{float64(wl.Ambient[0]), float64(wl.Ambient[1]), float64(wl.Ambient[2])},
		})

	return []*MemNode{sun, ambient}
}

// translate places a world object. RSW positions grow downwards in Y.
func translate(p [3]float32) math.Mat4 {
	return math.Translate(float64(p[0]), -float64(p[1]), float64(p[2]))
}

func degrees(d float32) float64 {
	return float64(d) * stdmath.Pi / 180
}
