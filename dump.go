package stdlayout

import (
	"fmt"
	"strings"
)

// String renders a fixed-width table of the layout for debugging:
// per-field offset, size and preceding padding, plus the struct totals.
func (l *StructLayout) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (size=%d align=%d stride=%d)\n",
		l.Variant.Name, l.Name, l.Size, l.Alignment, l.Stride())
	for _, f := range l.Fields {
		fmt.Fprintf(&b, "  %-20s offset=%-5d size=%-5d pad_before=%d\n",
			f.Name, f.Offset, f.Facts.Size, f.PaddingBefore)
	}
	return b.String()
}

// WGSL emits a WGSL struct declaration matching the layout, for
// eyeballing against shader source. Field alignment is made explicit
// with @align so the declaration is convention-independent.
func (l *StructLayout) WGSL() string {
	var b strings.Builder
	fmt.Fprintf(&b, "struct %s {\n", l.Name)
	for i := range l.Fields {
		f := &l.Fields[i]
		fmt.Fprintf(&b, "    @align(%d) %s: %s,\n", f.Facts.Alignment, wgslFieldName(f.Name), wgslType(f.codec))
	}
	b.WriteString("}\n")
	return b.String()
}

// wgslFieldName lowercases the leading rune, turning exported Go field
// names into conventional WGSL ones.
func wgslFieldName(name string) string {
	return strings.ToLower(name[:1]) + name[1:]
}

func wgslType(c Codec) string {
	switch c := c.(type) {
	case scalarCodec:
		switch c.kind {
		case scalarF32:
			return "f32"
		case scalarI32:
			return "i32"
		case scalarF64:
			return "f64"
		default:
			return "u32"
		}
	case vecCodec:
		return fmt.Sprintf("vec%d<f32>", c.comps)
	case matCodec:
		return fmt.Sprintf("mat%dx%d<f32>", c.cols, c.rows)
	case arrayCodec:
		return fmt.Sprintf("array<%s, %d>", wgslType(c.elem), c.count)
	case *StructLayout:
		return c.Name
	default:
		// Custom codec: only the byte size is known.
		return fmt.Sprintf("array<u32, %d>", c.Facts().Size/4)
	}
}
