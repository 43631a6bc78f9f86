// Package stdlayout computes GPU-compatible memory layouts (std140,
// std430 and tightly packed vertex conventions) for Go structs, and
// converts values between their host form and the padded device form
// expected by uniform and storage buffers.
package stdlayout

import (
	"golang.org/x/exp/constraints"
)

// Variant names a layout convention. A variant only changes the minimum
// struct alignment and which leaf codec rules apply; the offset algorithm
// itself is the same for every variant.
type Variant struct {
	Name           string
	MinStructAlign int
}

var (
	// Std140 is the uniform buffer convention: structs are aligned to at
	// least 16 bytes and array/matrix column strides round up to 16.
	Std140 = Variant{Name: "std140", MinStructAlign: 16}

	// Std430 is the storage buffer convention: no 16-byte rounding of
	// array strides, structs align to their largest member.
	Std430 = Variant{Name: "std430", MinStructAlign: 1}

	// Packed is the tight vertex-buffer convention: vectors align to
	// their component type and no padding is inserted beyond that.
	Packed = Variant{Name: "packed", MinStructAlign: 1}
)

// TypeFacts are the three facts a device type exposes to the layout
// algorithm. Alignment must be a positive power of two; the algorithm
// trusts these values and does not re-validate them.
type TypeFacts struct {
	Size      int
	Alignment int
	PadAtEnd  bool
}

// FieldLayout places one field inside its struct. Offset is always
// Offset of the previous field plus its size plus PaddingBefore.
type FieldLayout struct {
	Name          string
	Facts         TypeFacts
	Offset        int
	PaddingBefore int

	codec Codec
}

// StructLayout is the computed device layout of one record type. It is
// immutable after construction and safe to share between goroutines.
//
// Size is the tight sum of field sizes and paddings with no trailing
// rounding; consumers placing the struct in an array should use Stride.
type StructLayout struct {
	Name      string
	Variant   Variant
	Fields    []FieldLayout
	Alignment int
	Size      int
	PadAtEnd  bool
}

// Stride returns Size rounded up to the struct's own alignment, the
// distance between consecutive elements in an array of this struct.
func (l *StructLayout) Stride() int {
	return AlignUp(l.Size, l.Alignment)
}

// Field returns the layout of the named field.
func (l *StructLayout) Field(name string) (FieldLayout, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldLayout{}, false
}

// AlignOffset returns the smallest non-negative padding that makes
// offset a multiple of alignment. Alignment must be a positive power
// of two.
func AlignOffset[T constraints.Integer](offset, alignment T) T {
	return (alignment - offset%alignment) % alignment
}

// AlignUp rounds n up to the next multiple of alignment.
func AlignUp[T constraints.Integer](n, alignment T) T {
	return n + AlignOffset(n, alignment)
}

// paddingBefore computes the padding inserted in front of a field given
// the facts of all fields that precede it, in order. A preceding field
// whose type pads at its end forces this field onto that type's own
// alignment boundary, even when the field's own alignment is smaller;
// this is what gives nested structs and arrays their stride behavior.
func paddingBefore(preceding []TypeFacts, field TypeFacts) int {
	offset := 0
	trailing := 0
	for _, prev := range preceding {
		offset += AlignOffset(offset, max(prev.Alignment, trailing))
		offset += prev.Size
		trailing = 0
		if prev.PadAtEnd {
			trailing = prev.Alignment
		}
	}
	return AlignOffset(offset, max(field.Alignment, trailing))
}
