package vector

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Bytes encodes v as a little-endian FLOAT32 blob, the layout Redis vector fields expect.
func (v Vector) Bytes() []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// FromBytes decodes a little-endian FLOAT32 blob.
func FromBytes(data []byte) (Vector, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("vector blob length %d is not a multiple of 4", len(data))
	}
	v := make(Vector, len(data)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return v, nil
}
