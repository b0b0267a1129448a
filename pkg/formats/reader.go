// Package formats provides parsers for the Ragnarok Online resource
// formats that describe scene content: RSM models and RSW worlds.
package formats

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/Faultbox/midgard-dae/pkg/encoding"
)

var (
	errShortRead = errors.New("short read")
	errBadCount  = errors.New("count out of range")
)

// reader is a little-endian cursor over a byte slice. The first failure
// sticks; later reads return zero values.
type reader struct {
	data []byte
	off  int
	err  error
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) next(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.off+n > len(r.data) {
		r.err = errShortRead
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) skip(n int) {
	r.next(n)
}

func (r *reader) remaining() int {
	return len(r.data) - r.off
}

func (r *reader) u8() uint8 {
	if b := r.next(1); b != nil {
		return b[0]
	}
	return 0
}

func (r *reader) u16() uint16 {
	if b := r.next(2); b != nil {
		return binary.LittleEndian.Uint16(b)
	}
	return 0
}

func (r *reader) u32() uint32 {
	if b := r.next(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (r *reader) i32() int32 {
	return int32(r.u32())
}

func (r *reader) f32() float32 {
	return math.Float32frombits(r.u32())
}

func (r *reader) vec3() [3]float32 {
	return [3]float32{r.f32(), r.f32(), r.f32()}
}

func (r *reader) vec4() [4]float32 {
	return [4]float32{r.f32(), r.f32(), r.f32(), r.f32()}
}

// str reads a fixed-size EUC-KR field.
func (r *reader) str(size int) string {
	b := r.next(size)
	if b == nil {
		return ""
	}
	return encoding.FixedString(b)
}

// count reads an int32 element count and rejects values outside [0, limit].
func (r *reader) count(limit int32) int {
	n := r.i32()
	if r.err == nil && (n < 0 || n > limit) {
		r.err = errBadCount
		return 0
	}
	return int(n)
}
