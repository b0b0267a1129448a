package formats

import (
	"bytes"
	"encoding/binary"
)

// fileBuilder assembles little-endian test fixtures.
type fileBuilder struct {
	bytes.Buffer
}

func (b *fileBuilder) put(v any) *fileBuilder {
	binary.Write(&b.Buffer, binary.LittleEndian, v)
	return b
}

func (b *fileBuilder) str(s string, size int) *fileBuilder {
	field := make([]byte, size)
	copy(field, s)
	b.Write(field)
	return b
}

type testRSMNode struct {
	name, parent string
	textures     []int32
	vertices     int
	faces        int
}

func makeRSM(major, minor uint8, textures []string, root string, nodes []testRSMNode) []byte {
	b := &fileBuilder{}
	b.WriteString("GRSM")
	b.put(major).put(minor)
	b.put(int32(1000)).put(int32(RSMShadingSmooth))
	if (RSMVersion{major, minor}).AtLeast(1, 4) {
		b.put(uint8(255))
	}
	b.Write(make([]byte, 16))
	b.put(int32(len(textures)))
	for _, tex := range textures {
		b.str(tex, 40)
	}
	b.str(root, 40)
	b.put(int32(len(nodes)))
	v := RSMVersion{major, minor}
	for _, n := range nodes {
		b.str(n.name, 40).str(n.parent, 40)
		b.put(int32(len(n.textures)))
		for _, id := range n.textures {
			b.put(id)
		}
		b.put([9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1})
		// offset, position, rotation angle and axis, scale
		b.put([3]float32{}).put([3]float32{1, 2, 3})
		b.put(float32(0)).put([3]float32{0, 1, 0})
		b.put([3]float32{1, 1, 1})
		b.put(int32(n.vertices))
		for i := 0; i < n.vertices; i++ {
			b.put([3]float32{float32(i), 0, 0})
		}
		b.put(int32(0)) // texcoords
		b.put(int32(n.faces))
		for i := 0; i < n.faces; i++ {
			b.put([3]uint16{0, 1, 2}).put([3]uint16{}).put(uint16(0)).put(uint16(0)).put(int32(0))
			if v.AtLeast(1, 2) {
				b.put(int32(0))
			}
		}
		if !v.AtLeast(1, 5) {
			b.put(int32(0)) // pos keys
		}
		b.put(int32(0)) // rot keys
		if v.AtLeast(1, 5) {
			b.put(int32(0)) // scale keys
		}
	}
	return b.Bytes()
}

func makeRSWHeader(b *fileBuilder, major, minor uint8, build uint32) {
	b.WriteString("GRSW")
	b.put(major).put(minor)
	v := RSWVersion{Major: major, Minor: minor}
	switch {
	case v.AtLeast(2, 5):
		b.put(build).put(uint8(0))
	case v.AtLeast(2, 2):
		b.put(uint8(build))
	}
	b.str("map.ini", 40).str("map.gnd", 40)
	if v.AtLeast(1, 4) {
		b.str("map.gat", 40).str("", 40)
	}
	if v.AtLeast(1, 3) && !v.AtLeast(2, 6) {
		b.put(float32(-1)).put(int32(0)).put(float32(1)).put(float32(2)).put(float32(50)).put(int32(3))
	}
	if v.AtLeast(1, 5) {
		b.put(int32(45)).put(int32(45))
		b.put([3]float32{1, 1, 1}).put([3]float32{0.3, 0.3, 0.3})
	}
	if v.AtLeast(1, 7) {
		b.put(float32(0.5))
	}
	if v.AtLeast(1, 6) {
		b.put([4]int32{-500, 500, -500, 500})
	}
}

func putRSWModel(b *fileBuilder, v RSWVersion, name, model string, pos [3]float32) {
	b.put(int32(RSWObjectModel))
	b.str(name, 40)
	b.put(int32(0)).put(float32(1)).put(int32(0))
	if v.AtLeast(2, 6) && v.BuildNumber >= 162 {
		b.put(uint8(0))
	}
	b.str(model, 80).str("", 80)
	b.put(pos).put([3]float32{0, 90, 0}).put([3]float32{1, 1, 1})
}

func putRSWLight(b *fileBuilder, name string) {
	b.put(int32(RSWObjectLight))
	b.str(name, 80)
	b.put([3]float32{10, 20, 30}).put([3]float32{1, 0.5, 0.25}).put(float32(40))
}

func putRSWSound(b *fileBuilder, v RSWVersion, name string) {
	b.put(int32(RSWObjectSound))
	b.str(name, 80).str("wind.wav", 80)
	b.put([3]float32{}).put(float32(1)).put(int32(10)).put(int32(10)).put(float32(100))
	if v.AtLeast(2, 0) {
		b.put(float32(4))
	}
}

func putRSWEffect(b *fileBuilder, name string) {
	b.put(int32(RSWObjectEffect))
	b.str(name, 80)
	b.put([3]float32{}).put(int32(47)).put(float32(0)).put([4]float32{})
}
