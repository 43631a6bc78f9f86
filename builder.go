package stdlayout

import (
	"fmt"
	"reflect"
)

// Field describes one record field for BuildLayout: a name and the codec
// that supplies the field type's device facts and conversions.
type Field struct {
	Name  string
	Codec Codec
}

// UnsupportedShapeError is returned when a candidate record is not a
// plain field-named struct: interface (sum-like) types, non-struct
// kinds, unexported fields, or field types no codec covers. It is the
// only error raised while defining a layout; once a layout exists the
// offset computation itself cannot fail.
type UnsupportedShapeError struct {
	Type  reflect.Type
	Shape string
}

func (e *UnsupportedShapeError) Error() string {
	if e.Type == nil {
		return fmt.Sprintf("stdlayout: unsupported shape: %s", e.Shape)
	}
	return fmt.Sprintf("stdlayout: cannot lay out %v: %s", e.Type, e.Shape)
}

// BuildLayout assembles a StructLayout from an ordered field description.
// Fields are placed left to right: each field starts at the previous
// offset rounded up to the larger of its own alignment and the trailing
// alignment demanded by the preceding field's type. The result is byte
// exact: every byte in [0, Size) belongs to exactly one field or to an
// explicit padding region.
//
// A zero-field record is legal and yields Size 0 with the variant's
// minimum struct alignment.
func BuildLayout(name string, fields []Field, variant Variant) (*StructLayout, error) {
	layout := &StructLayout{
		Name:      name,
		Variant:   variant,
		Alignment: variant.MinStructAlign,
		PadAtEnd:  true,
	}

	offset := 0
	trailing := 0
	for i, f := range fields {
		if f.Name == "" {
			return nil, &UnsupportedShapeError{Shape: fmt.Sprintf("record %q has an unnamed field at index %d", name, i)}
		}
		if f.Codec == nil {
			return nil, &UnsupportedShapeError{Shape: fmt.Sprintf("record %q field %q has no codec", name, f.Name)}
		}

		facts := f.Codec.Facts()
		pad := AlignOffset(offset, max(facts.Alignment, trailing))
		offset += pad

		layout.Fields = append(layout.Fields, FieldLayout{
			Name:          f.Name,
			Facts:         facts,
			Offset:        offset,
			PaddingBefore: pad,
			codec:         f.Codec,
		})

		offset += facts.Size
		trailing = 0
		if facts.PadAtEnd {
			trailing = facts.Alignment
		}
		layout.Alignment = max(layout.Alignment, facts.Alignment)
	}

	layout.Size = offset
	return layout, nil
}
