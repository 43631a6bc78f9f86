package stdlayout

import (
	"fmt"
	"reflect"

	"github.com/go-gl/mathgl/mgl32"
)

// Exact-type matches for the mgl32 leaf types. These must be checked
// before the generic array case: mgl32.Mat2 and mgl32.Vec4 share the
// underlying type [4]float32 but lay out differently.
var (
	vec2Type = reflect.TypeOf(mgl32.Vec2{})
	vec3Type = reflect.TypeOf(mgl32.Vec3{})
	vec4Type = reflect.TypeOf(mgl32.Vec4{})
	mat2Type = reflect.TypeOf(mgl32.Mat2{})
	mat3Type = reflect.TypeOf(mgl32.Mat3{})
	mat4Type = reflect.TypeOf(mgl32.Mat4{})
)

// structFields derives the ordered field description of a struct type,
// rejecting shapes the layout algorithm cannot handle. Fields tagged
// `gpu:"-"` stay host-only and never reach the device layout.
func (r *Registry) structFields(t reflect.Type, variant Variant) ([]Field, error) {
	switch t.Kind() {
	case reflect.Interface:
		return nil, &UnsupportedShapeError{Type: t, Shape: "interface types have no single layout"}
	case reflect.Struct:
	default:
		return nil, &UnsupportedShapeError{Type: t, Shape: fmt.Sprintf("kind %s is not a struct", t.Kind())}
	}

	var fields []Field
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Tag.Get("gpu") == "-" {
			continue
		}
		if f.PkgPath != "" {
			return nil, &UnsupportedShapeError{Type: t, Shape: fmt.Sprintf("unexported field %q cannot be converted", f.Name)}
		}

		codec, err := r.codecForLocked(f.Type, variant)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: f.Name, Codec: codec})
	}
	return fields, nil
}

// codecForLocked resolves the device codec for one field type under a
// variant: custom registrations first, then the mgl32 leaf set, scalars,
// fixed arrays and nested structs. Must be called with r.mu held.
func (r *Registry) codecForLocked(t reflect.Type, variant Variant) (Codec, error) {
	if c, ok := r.codecs[registryKey{t, variant.Name}]; ok {
		return c, nil
	}

	rules := rulesFor(variant)
	switch t {
	case vec2Type:
		return vecCodec{comps: 2, packed: rules.packedVectors}, nil
	case vec3Type:
		return vecCodec{comps: 3, packed: rules.packedVectors}, nil
	case vec4Type:
		return vecCodec{comps: 4, packed: rules.packedVectors}, nil
	case mat2Type:
		return newMatCodec(2, 2, rules), nil
	case mat3Type:
		return newMatCodec(3, 3, rules), nil
	case mat4Type:
		return newMatCodec(4, 4, rules), nil
	}

	switch t.Kind() {
	case reflect.Float32:
		return scalarCodec{kind: scalarF32}, nil
	case reflect.Int32:
		return scalarCodec{kind: scalarI32}, nil
	case reflect.Uint32:
		return scalarCodec{kind: scalarU32}, nil
	case reflect.Float64:
		return scalarCodec{kind: scalarF64}, nil
	case reflect.Bool:
		return scalarCodec{kind: scalarBool}, nil
	case reflect.Array:
		elem, err := r.codecForLocked(t.Elem(), variant)
		if err != nil {
			return nil, err
		}
		return newArrayCodec(elem, t.Len(), rules), nil
	case reflect.Struct:
		return r.layoutLocked(t, variant)
	case reflect.Interface:
		return nil, &UnsupportedShapeError{Type: t, Shape: "interface fields have no single layout"}
	default:
		return nil, &UnsupportedShapeError{Type: t, Shape: fmt.Sprintf("no %s codec for kind %s (use a sized type such as int32 or float32)", variant.Name, t.Kind())}
	}
}
