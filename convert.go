package stdlayout

import (
	"fmt"
	"reflect"
)

// A StructLayout is itself a Codec, so built layouts nest as fields and
// array elements of other layouts. A nested struct always pads at its
// end: the next field starts on the struct's own alignment boundary.

// Facts reports the layout's device facts for use as a nested field.
func (l *StructLayout) Facts() TypeFacts {
	return TypeFacts{Size: l.Size, Alignment: l.Alignment, PadAtEnd: true}
}

// Encode writes the device bytes of src into dst. src must be a struct
// value whose fields match the layout's field names, an ordered []any,
// or a map[string]any. Padding bytes in dst are left untouched, so dst
// should start zeroed for deterministic output (ToDevice guarantees it).
func (l *StructLayout) Encode(dst []byte, src reflect.Value) error {
	for i := range l.Fields {
		f := &l.Fields[i]
		fv, err := hostField(src, f.Name, i)
		if err != nil {
			return fmt.Errorf("stdlayout: %s: %w", l.Name, err)
		}
		if err := f.codec.Encode(dst[f.Offset:f.Offset+f.Facts.Size], fv); err != nil {
			return fmt.Errorf("stdlayout: %s.%s: %w", l.Name, f.Name, err)
		}
	}
	return nil
}

// Decode fills the fields of dst, a settable struct value, from device
// bytes. Padding bytes are never inspected.
func (l *StructLayout) Decode(src []byte, dst reflect.Value) error {
	if dst.Kind() != reflect.Struct {
		return fmt.Errorf("stdlayout: %s: decode target is %s, want struct", l.Name, dst.Kind())
	}
	for i := range l.Fields {
		f := &l.Fields[i]
		fv := dst.FieldByName(f.Name)
		if !fv.IsValid() {
			return fmt.Errorf("stdlayout: %s: decode target has no field %q", l.Name, f.Name)
		}
		if err := f.codec.Decode(src[f.Offset:f.Offset+f.Facts.Size], fv); err != nil {
			return fmt.Errorf("stdlayout: %s.%s: %w", l.Name, f.Name, err)
		}
	}
	return nil
}

// hostField extracts the value for one layout field from a host
// container: struct field by name, []any element by position, or
// map[string]any entry by name.
func hostField(src reflect.Value, name string, index int) (reflect.Value, error) {
	switch src.Kind() {
	case reflect.Struct:
		fv := src.FieldByName(name)
		if !fv.IsValid() {
			return reflect.Value{}, fmt.Errorf("host value has no field %q", name)
		}
		return fv, nil
	case reflect.Slice:
		if index >= src.Len() {
			return reflect.Value{}, fmt.Errorf("host slice has %d values, field %q is index %d", src.Len(), name, index)
		}
		return unwrap(src.Index(index)), nil
	case reflect.Map:
		if src.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, fmt.Errorf("host map must be keyed by field name, got %s keys", src.Type().Key())
		}
		mv := src.MapIndex(reflect.ValueOf(name))
		if !mv.IsValid() {
			return reflect.Value{}, fmt.Errorf("host map has no entry %q", name)
		}
		return unwrap(mv), nil
	default:
		return reflect.Value{}, fmt.Errorf("host value kind %s is not a struct, []any or map[string]any", src.Kind())
	}
}

// unwrap removes one level of interface boxing, as found in []any and
// map[string]any containers.
func unwrap(v reflect.Value) reflect.Value {
	if v.Kind() == reflect.Interface {
		return v.Elem()
	}
	return v
}

// ToDevice converts a host value into a freshly allocated device byte
// buffer of exactly Size bytes. All padding is zero, so two equal host
// values always produce bit-identical buffers.
func (l *StructLayout) ToDevice(host any) ([]byte, error) {
	buf := make([]byte, l.Size)
	if err := l.ToDeviceInto(buf, host); err != nil {
		return nil, err
	}
	return buf, nil
}

// ToDeviceInto encodes host into the first Size bytes of dst. The caller
// is responsible for dst being zeroed where determinism matters.
func (l *StructLayout) ToDeviceInto(dst []byte, host any) error {
	if len(dst) < l.Size {
		return fmt.Errorf("stdlayout: %s: buffer is %d bytes, layout needs %d", l.Name, len(dst), l.Size)
	}
	v := reflect.ValueOf(host)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return fmt.Errorf("stdlayout: %s: host value is a nil pointer", l.Name)
		}
		v = v.Elem()
	}
	return l.Encode(dst[:l.Size], v)
}

// FromDevice converts device bytes back into host, which must be a
// non-nil pointer to a struct. FromDevice(ToDevice(v)) restores every
// field of v exactly.
func (l *StructLayout) FromDevice(data []byte, host any) error {
	if len(data) < l.Size {
		return fmt.Errorf("stdlayout: %s: buffer is %d bytes, layout needs %d", l.Name, len(data), l.Size)
	}
	v := reflect.ValueOf(host)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return fmt.Errorf("stdlayout: %s: decode target must be a non-nil pointer, got %T", l.Name, host)
	}
	return l.Decode(data[:l.Size], v.Elem())
}
