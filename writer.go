package stdlayout

import (
	"fmt"
	"io"
	"reflect"
)

// Writer appends device-encoded values to an io.Writer, inserting the
// zero padding each value's alignment demands. It covers the dynamic
// case a single StructLayout cannot: buffers built from a sequence of
// values whose count is only known at runtime.
type Writer struct {
	dst      io.Writer
	reg      *Registry
	variant  Variant
	offset   int
	trailing int
}

// NewWriter returns a Writer using the default registry's codecs.
func NewWriter(dst io.Writer, variant Variant) *Writer {
	return defaultRegistry.NewWriter(dst, variant)
}

func (r *Registry) NewWriter(dst io.Writer, variant Variant) *Writer {
	return &Writer{dst: dst, reg: r, variant: variant}
}

// Offset returns the number of bytes emitted so far, padding included.
func (w *Writer) Offset() int { return w.offset }

// Write encodes one value at the next properly aligned position and
// returns the offset the value landed at. Values follow the same rule as
// struct fields: a preceding value that pads at its end forces the next
// value onto that type's alignment boundary.
func (w *Writer) Write(value any) (int, error) {
	v := reflect.ValueOf(value)
	if !v.IsValid() {
		return 0, fmt.Errorf("stdlayout: cannot write nil value")
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return 0, fmt.Errorf("stdlayout: cannot write nil pointer")
		}
		v = v.Elem()
	}

	codec, err := w.reg.codecForType(v.Type(), w.variant)
	if err != nil {
		return 0, err
	}
	facts := codec.Facts()

	pad := AlignOffset(w.offset, max(facts.Alignment, w.trailing))
	if pad > 0 {
		if _, err := w.dst.Write(make([]byte, pad)); err != nil {
			return 0, err
		}
	}

	buf := make([]byte, facts.Size)
	if err := codec.Encode(buf, v); err != nil {
		return 0, err
	}
	if _, err := w.dst.Write(buf); err != nil {
		return 0, err
	}

	at := w.offset + pad
	w.offset = at + facts.Size
	w.trailing = 0
	if facts.PadAtEnd {
		w.trailing = facts.Alignment
	}
	return at, nil
}

// Sizer computes the size a Writer-produced buffer would have without
// encoding anything. Useful for allocating GPU buffers up front.
type Sizer struct {
	reg      *Registry
	variant  Variant
	offset   int
	trailing int
}

// NewSizer returns a Sizer using the default registry's codecs.
func NewSizer(variant Variant) *Sizer {
	return defaultRegistry.NewSizer(variant)
}

func (r *Registry) NewSizer(variant Variant) *Sizer {
	return &Sizer{reg: r, variant: variant}
}

// Size returns the byte count accumulated so far.
func (s *Sizer) Size() int { return s.offset }

// Add accounts for one value of the same type a Writer.Write call would
// encode, returning the offset it would land at.
func (s *Sizer) Add(value any) (int, error) {
	t := reflect.TypeOf(value)
	if t == nil {
		return 0, fmt.Errorf("stdlayout: cannot size nil value")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	codec, err := s.reg.codecForType(t, s.variant)
	if err != nil {
		return 0, err
	}
	facts := codec.Facts()

	at := s.offset + AlignOffset(s.offset, max(facts.Alignment, s.trailing))
	s.offset = at + facts.Size
	s.trailing = 0
	if facts.PadAtEnd {
		s.trailing = facts.Alignment
	}
	return at, nil
}
