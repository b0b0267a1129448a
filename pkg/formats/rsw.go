package formats

import (
	"errors"
	"fmt"
	"os"
)

// RSW format errors.
var (
	ErrInvalidRSWMagic       = errors.New("invalid RSW magic: expected 'GRSW'")
	ErrUnsupportedRSWVersion = errors.New("unsupported RSW version")
	ErrTruncatedRSWData      = errors.New("truncated RSW data")
	ErrUnknownObjectType     = errors.New("unknown RSW object type")
)

const maxRSWObjects = 1 << 20

// RSWVersion represents the RSW file version.
type RSWVersion struct {
	Major       uint8
	Minor       uint8
	BuildNumber uint32 // v2.2+
}

// String returns the version as "Major.Minor[.Build]".
func (v RSWVersion) String() string {
	if v.BuildNumber > 0 {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.BuildNumber)
	}
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// AtLeast returns true if version is >= major.minor.
func (v RSWVersion) AtLeast(major, minor uint8) bool {
	return v.Major > major || (v.Major == major && v.Minor >= minor)
}

// RSWObjectType is the kind of a placed world object.
type RSWObjectType int32

const (
	RSWObjectModel  RSWObjectType = 1
	RSWObjectLight  RSWObjectType = 2
	RSWObjectSound  RSWObjectType = 3
	RSWObjectEffect RSWObjectType = 4
)

// String returns a human-readable object type name.
func (t RSWObjectType) String() string {
	switch t {
	case RSWObjectModel:
		return "Model"
	case RSWObjectLight:
		return "Light"
	case RSWObjectSound:
		return "Sound"
	case RSWObjectEffect:
		return "Effect"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// RSWWater holds the water plane settings (v1.3 to v2.5).
type RSWWater struct {
	Level      float32
	Type       int32
	WaveHeight float32
	WaveSpeed  float32
	WavePitch  float32
	AnimSpeed  int32
}

// RSWLight holds the global sun and ambient settings.
type RSWLight struct {
	Longitude int32 // degrees
	Latitude  int32 // degrees
	Diffuse   [3]float32
	Ambient   [3]float32
	Opacity   float32 // v1.7+
}

// RSWGround holds the ground view bounds.
type RSWGround struct {
	Top, Bottom, Left, Right int32
}

// RSWModel is a placement of an RSM model.
type RSWModel struct {
	Name      string
	AnimType  int32
	AnimSpeed float32
	BlockType int32
	ModelName string // RSM path relative to data/model/
	NodeName  string
	Position  [3]float32
	Rotation  [3]float32 // Euler angles in degrees
	Scale     [3]float32
}

// RSWLightSource is a point light.
type RSWLightSource struct {
	Name     string
	Position [3]float32
	Color    [3]float32
	Range    float32
}

// RSWSoundSource is an ambient sound emitter.
type RSWSoundSource struct {
	Name     string
	File     string
	Position [3]float32
	Volume   float32
	Width    int32
	Height   int32
	Range    float32
	Cycle    float32 // v2.0+
}

// RSWEffectSource is a visual effect emitter.
type RSWEffectSource struct {
	Name     string
	Position [3]float32
	EffectID int32
	Delay    float32
	Param    [4]float32
}

// RSWObject is one placed object; exactly one payload is set.
type RSWObject struct {
	Type   RSWObjectType
	Model  *RSWModel
	Light  *RSWLightSource
	Sound  *RSWSoundSource
	Effect *RSWEffectSource
}

// Name returns the instance name of the object.
func (o RSWObject) Name() string {
	switch {
	case o.Model != nil:
		return o.Model.Name
	case o.Light != nil:
		return o.Light.Name
	case o.Sound != nil:
		return o.Sound.Name
	case o.Effect != nil:
		return o.Effect.Name
	}
	return ""
}

// RSW is a parsed resource world.
type RSW struct {
	Version RSWVersion
	IniFile string
	GndFile string
	GatFile string // v1.4+
	SrcFile string // v1.4+
	Water   RSWWater
	Light   RSWLight
	Ground  RSWGround
	Objects []RSWObject
}

// ParseRSW parses a RSW file from raw bytes.
func ParseRSW(data []byte) (*RSW, error) {
	if len(data) < 6 {
		return nil, ErrTruncatedRSWData
	}
	if string(data[:4]) != "GRSW" {
		return nil, ErrInvalidRSWMagic
	}

	version := RSWVersion{Major: data[4], Minor: data[5]}
	if version.Major < 1 || version.Major > 2 || (version.Major == 2 && version.Minor > 6) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRSWVersion, version)
	}

	r := newReader(data[6:])
	switch {
	case version.AtLeast(2, 5):
		version.BuildNumber = r.u32()
		r.skip(1) // render flag
	case version.AtLeast(2, 2):
		version.BuildNumber = uint32(r.u8())
	}

	rsw := &RSW{Version: version}
	rsw.IniFile = r.str(40)
	rsw.GndFile = r.str(40)
	if version.AtLeast(1, 4) {
		rsw.GatFile = r.str(40)
		rsw.SrcFile = r.str(40)
	}

	if version.AtLeast(1, 3) && !version.AtLeast(2, 6) {
		rsw.Water = RSWWater{
			Level:      r.f32(),
			Type:       r.i32(),
			WaveHeight: r.f32(),
			WaveSpeed:  r.f32(),
			WavePitch:  r.f32(),
			AnimSpeed:  r.i32(),
		}
	}
	if version.AtLeast(1, 5) {
		rsw.Light.Longitude = r.i32()
		rsw.Light.Latitude = r.i32()
		rsw.Light.Diffuse = r.vec3()
		rsw.Light.Ambient = r.vec3()
	}
	if version.AtLeast(1, 7) {
		rsw.Light.Opacity = r.f32()
	}
	if version.AtLeast(1, 6) {
		rsw.Ground = RSWGround{Top: r.i32(), Bottom: r.i32(), Left: r.i32(), Right: r.i32()}
	}
	if r.err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrTruncatedRSWData, r.err)
	}

	objectCount := r.u32()
	if r.err != nil {
		return nil, fmt.Errorf("%w: object count", ErrTruncatedRSWData)
	}
	if objectCount > maxRSWObjects {
		return nil, fmt.Errorf("%w: object count %d", ErrTruncatedRSWData, objectCount)
	}

	rsw.Objects = make([]RSWObject, 0, objectCount)
	for i := uint32(0); i < objectCount; i++ {
		obj, err := readRSWObject(r, version)
		if err != nil {
			return nil, fmt.Errorf("parsing object %d: %w", i, err)
		}
		rsw.Objects = append(rsw.Objects, obj)
	}

	// The trailing quadtree is only used for culling and is not read.
	return rsw, nil
}

func readRSWObject(r *reader, version RSWVersion) (RSWObject, error) {
	obj := RSWObject{Type: RSWObjectType(r.i32())}
	if r.err != nil {
		return RSWObject{}, fmt.Errorf("%w: object type", ErrTruncatedRSWData)
	}

	switch obj.Type {
	case RSWObjectModel:
		m := &RSWModel{Name: r.str(40)}
		m.AnimType = r.i32()
		m.AnimSpeed = r.f32()
		m.BlockType = r.i32()
		if version.AtLeast(2, 6) && version.BuildNumber >= 162 {
			r.skip(1)
		}
		m.ModelName = r.str(80)
		m.NodeName = r.str(80)
		m.Position = r.vec3()
		m.Rotation = r.vec3()
		m.Scale = r.vec3()
		obj.Model = m

	case RSWObjectLight:
		obj.Light = &RSWLightSource{
			Name:     r.str(80),
			Position: r.vec3(),
			Color:    r.vec3(),
			Range:    r.f32(),
		}

	case RSWObjectSound:
		s := &RSWSoundSource{Name: r.str(80), File: r.str(80)}
		s.Position = r.vec3()
		s.Volume = r.f32()
		s.Width = r.i32()
		s.Height = r.i32()
		s.Range = r.f32()
		if version.AtLeast(2, 0) {
			s.Cycle = r.f32()
		}
		obj.Sound = s

	case RSWObjectEffect:
		obj.Effect = &RSWEffectSource{
			Name:     r.str(80),
			Position: r.vec3(),
			EffectID: r.i32(),
			Delay:    r.f32(),
			Param:    r.vec4(),
		}

	default:
		return RSWObject{}, fmt.Errorf("%w: %d", ErrUnknownObjectType, obj.Type)
	}

	if r.err != nil {
		return RSWObject{}, fmt.Errorf("%w: %s object", ErrTruncatedRSWData, obj.Type)
	}
	return obj, nil
}

// ParseRSWFile parses a RSW file from disk.
func ParseRSWFile(path string) (*RSW, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading RSW file: %w", err)
	}
	return ParseRSW(data)
}

// CountByType returns the count of objects for each type.
func (w *RSW) CountByType() map[RSWObjectType]int {
	counts := make(map[RSWObjectType]int)
	for _, obj := range w.Objects {
		counts[obj.Type]++
	}
	return counts
}

// Models returns all model placements.
func (w *RSW) Models() []*RSWModel {
	var models []*RSWModel
	for _, obj := range w.Objects {
		if obj.Model != nil {
			models = append(models, obj.Model)
		}
	}
	return models
}
