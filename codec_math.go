package stdlayout

import (
	"encoding/binary"
	"math"
	"reflect"
)

// Codecs for the mgl32 vector and matrix types. Vectors keep the GLSL
// over-alignment (vec3 occupies 12 bytes but starts on a 16-byte
// boundary) unless the packed rule is active. Matrices are laid out as
// arrays of column vectors; the reported size includes the trailing
// column pad, so matrices never request end padding themselves.

type vecCodec struct {
	comps  int
	packed bool
}

func (c vecCodec) Facts() TypeFacts {
	if c.packed {
		return TypeFacts{Size: c.comps * 4, Alignment: 4}
	}
	switch c.comps {
	case 2:
		return TypeFacts{Size: 8, Alignment: 8}
	case 3:
		return TypeFacts{Size: 12, Alignment: 16}
	default:
		return TypeFacts{Size: 16, Alignment: 16}
	}
}

func (c vecCodec) Encode(dst []byte, src reflect.Value) error {
	for i := 0; i < c.comps; i++ {
		bits := math.Float32bits(float32(src.Index(i).Float()))
		binary.LittleEndian.PutUint32(dst[i*4:], bits)
	}
	return nil
}

func (c vecCodec) Decode(src []byte, dst reflect.Value) error {
	for i := 0; i < c.comps; i++ {
		bits := binary.LittleEndian.Uint32(src[i*4:])
		dst.Index(i).SetFloat(float64(math.Float32frombits(bits)))
	}
	return nil
}

type matCodec struct {
	cols   int
	rows   int
	col    vecCodec
	stride int
	align  int
}

func newMatCodec(cols, rows int, rules leafRules) matCodec {
	col := vecCodec{comps: rows, packed: rules.packedVectors}
	cf := col.Facts()
	align := cf.Alignment
	if rules.roundTo16 {
		align = max(align, 16)
	}
	return matCodec{
		cols:   cols,
		rows:   rows,
		col:    col,
		stride: AlignUp(cf.Size, align),
		align:  align,
	}
}

func (c matCodec) Facts() TypeFacts {
	return TypeFacts{Size: c.cols * c.stride, Alignment: c.align}
}

// mgl32 matrices are flat column-major arrays: element col*rows+row.
func (c matCodec) Encode(dst []byte, src reflect.Value) error {
	for col := 0; col < c.cols; col++ {
		base := col * c.stride
		for row := 0; row < c.rows; row++ {
			bits := math.Float32bits(float32(src.Index(col*c.rows + row).Float()))
			binary.LittleEndian.PutUint32(dst[base+row*4:], bits)
		}
	}
	return nil
}

func (c matCodec) Decode(src []byte, dst reflect.Value) error {
	for col := 0; col < c.cols; col++ {
		base := col * c.stride
		for row := 0; row < c.rows; row++ {
			bits := binary.LittleEndian.Uint32(src[base+row*4:])
			dst.Index(col*c.rows + row).SetFloat(float64(math.Float32frombits(bits)))
		}
	}
	return nil
}
