package storage

import (
	"encoding/binary"
	"fmt"
	"math"
)

// AppendFloat32s appends v to buf as little-endian IEEE-754 float32 values.
func AppendFloat32s(buf []byte, v []float32) []byte {
	for _, f := range v {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	return buf
}

// DecodeFloat32s converts little-endian float32 bytes back to a slice.
func DecodeFloat32s(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("vector blob length %d is not a multiple of 4", len(data))
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats, nil
}
