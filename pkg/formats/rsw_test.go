package formats

import (
	"errors"
	"testing"
)

func TestParseRSW_MagicValidation(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"invalid magic", []byte("XXXX\x02\x01"), ErrInvalidRSWMagic},
		{"empty data", []byte{}, ErrTruncatedRSWData},
		{"truncated data", []byte{'G', 'R', 'S'}, ErrTruncatedRSWData},
		{"header only", []byte("GRSW\x02\x01"), ErrTruncatedRSWData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRSW(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseRSW_VersionSupport(t *testing.T) {
	tests := []struct {
		name    string
		major   uint8
		minor   uint8
		wantErr bool
	}{
		{"v1.2", 1, 2, false},
		{"v1.9", 1, 9, false},
		{"v2.1", 2, 1, false},
		{"v2.2", 2, 2, false},
		{"v2.5", 2, 5, false},
		{"v2.6", 2, 6, false},
		{"v0.1 unsupported", 0, 1, true},
		{"v2.7 unsupported", 2, 7, true},
		{"v3.0 unsupported", 3, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &fileBuilder{}
			makeRSWHeader(b, tt.major, tt.minor, 170)
			b.put(uint32(0))
			_, err := ParseRSW(b.Bytes())
			if (err != nil) != tt.wantErr {
				t.Errorf("version %d.%d: got error=%v, wantErr=%v", tt.major, tt.minor, err, tt.wantErr)
			}
		})
	}
}

func TestRSWObjectType_String(t *testing.T) {
	tests := []struct {
		typ  RSWObjectType
		want string
	}{
		{RSWObjectModel, "Model"},
		{RSWObjectLight, "Light"},
		{RSWObjectSound, "Sound"},
		{RSWObjectEffect, "Effect"},
		{RSWObjectType(9), "Unknown(9)"},
	}

	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestParseRSW_Objects(t *testing.T) {
	versions := []RSWVersion{
		{Major: 1, Minor: 9},
		{Major: 2, Minor: 1},
		{Major: 2, Minor: 6, BuildNumber: 170},
	}

	for _, v := range versions {
		t.Run(v.String(), func(t *testing.T) {
			b := &fileBuilder{}
			makeRSWHeader(b, v.Major, v.Minor, v.BuildNumber)
			b.put(uint32(5))
			putRSWModel(b, v, "tree01", `prontera\tree.rsm`, [3]float32{1, 2, 3})
			putRSWModel(b, v, "tree02", `prontera\tree.rsm`, [3]float32{4, 5, 6})
			putRSWLight(b, "lamp")
			putRSWSound(b, v, "wind")
			putRSWEffect(b, "torch")

			rsw, err := ParseRSW(b.Bytes())
			if err != nil {
				t.Fatalf("ParseRSW failed: %v", err)
			}
			if rsw.Version.BuildNumber != v.BuildNumber {
				t.Errorf("build = %d, want %d", rsw.Version.BuildNumber, v.BuildNumber)
			}
			if rsw.GndFile != "map.gnd" {
				t.Errorf("GndFile = %q", rsw.GndFile)
			}

			counts := rsw.CountByType()
			if counts[RSWObjectModel] != 2 || counts[RSWObjectLight] != 1 ||
				counts[RSWObjectSound] != 1 || counts[RSWObjectEffect] != 1 {
				t.Errorf("counts = %v", counts)
			}

			models := rsw.Models()
			if len(models) != 2 || models[1].Position != [3]float32{4, 5, 6} {
				t.Fatalf("models = %+v", models)
			}
			if models[0].ModelName != `prontera\tree.rsm` {
				t.Errorf("ModelName = %q", models[0].ModelName)
			}

			light := rsw.Objects[2].Light
			if light == nil || light.Range != 40 || light.Color != [3]float32{1, 0.5, 0.25} {
				t.Errorf("light = %+v", light)
			}
			if rsw.Objects[3].Name() != "wind" || rsw.Objects[4].Name() != "torch" {
				t.Errorf("names = %q, %q", rsw.Objects[3].Name(), rsw.Objects[4].Name())
			}
		})
	}
}

func TestParseRSW_UnknownObject(t *testing.T) {
	b := &fileBuilder{}
	makeRSWHeader(b, 2, 1, 0)
	b.put(uint32(1)).put(int32(42))

	_, err := ParseRSW(b.Bytes())
	if !errors.Is(err, ErrUnknownObjectType) {
		t.Errorf("got %v, want ErrUnknownObjectType", err)
	}
}

func TestParseRSW_TruncatedObject(t *testing.T) {
	b := &fileBuilder{}
	makeRSWHeader(b, 2, 1, 0)
	b.put(uint32(2))
	putRSWLight(b, "only one")

	_, err := ParseRSW(b.Bytes())
	if !errors.Is(err, ErrTruncatedRSWData) {
		t.Errorf("got %v, want ErrTruncatedRSWData", err)
	}
}
