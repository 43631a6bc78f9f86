package stdlayout

import (
	"encoding/binary"
	"math"
	"reflect"
)

// Codec moves one field type between its host form and its device bytes.
// Facts are trusted as-is: a codec reporting a non-power-of-two alignment
// produces an undefined layout. Encode must write exactly Facts().Size
// bytes at the start of dst; Decode must never inspect padding bytes.
//
// All device bytes are little-endian, matching WebGPU buffer semantics.
type Codec interface {
	Facts() TypeFacts
	Encode(dst []byte, src reflect.Value) error
	Decode(src []byte, dst reflect.Value) error
}

// leafRules captures how a variant's provider set differs for vectors,
// matrices and arrays. The std140 rule rounds array elements and matrix
// columns up to 16 bytes; the packed rule drops vector over-alignment.
type leafRules struct {
	roundTo16     bool
	packedVectors bool
}

func rulesFor(v Variant) leafRules {
	switch v.Name {
	case Std140.Name:
		return leafRules{roundTo16: true}
	case Packed.Name:
		return leafRules{packedVectors: true}
	default:
		return leafRules{}
	}
}

type scalarKind int

const (
	scalarF32 scalarKind = iota
	scalarI32
	scalarU32
	scalarF64
	scalarBool // encoded as a 4-byte unsigned integer
)

type scalarCodec struct {
	kind scalarKind
}

func (c scalarCodec) Facts() TypeFacts {
	if c.kind == scalarF64 {
		return TypeFacts{Size: 8, Alignment: 8}
	}
	return TypeFacts{Size: 4, Alignment: 4}
}

func (c scalarCodec) Encode(dst []byte, src reflect.Value) error {
	switch c.kind {
	case scalarF32:
		binary.LittleEndian.PutUint32(dst, math.Float32bits(float32(src.Float())))
	case scalarI32:
		binary.LittleEndian.PutUint32(dst, uint32(int32(src.Int())))
	case scalarU32:
		binary.LittleEndian.PutUint32(dst, uint32(src.Uint()))
	case scalarF64:
		binary.LittleEndian.PutUint64(dst, math.Float64bits(src.Float()))
	case scalarBool:
		var u uint32
		if src.Bool() {
			u = 1
		}
		binary.LittleEndian.PutUint32(dst, u)
	}
	return nil
}

func (c scalarCodec) Decode(src []byte, dst reflect.Value) error {
	switch c.kind {
	case scalarF32:
		dst.SetFloat(float64(math.Float32frombits(binary.LittleEndian.Uint32(src))))
	case scalarI32:
		dst.SetInt(int64(int32(binary.LittleEndian.Uint32(src))))
	case scalarU32:
		dst.SetUint(uint64(binary.LittleEndian.Uint32(src)))
	case scalarF64:
		dst.SetFloat(math.Float64frombits(binary.LittleEndian.Uint64(src)))
	case scalarBool:
		dst.SetBool(binary.LittleEndian.Uint32(src) != 0)
	}
	return nil
}
