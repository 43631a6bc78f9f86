package stdlayout

import (
	"reflect"
)

// arrayCodec lays out a fixed-size array. Element stride is the element
// size rounded up to the element alignment, with the std140 rule lifting
// that alignment to at least 16. Arrays pad at their end so a following
// field lands on the next full stride boundary.
type arrayCodec struct {
	elem     Codec
	count    int
	stride   int
	elemSize int
	facts    TypeFacts
}

func newArrayCodec(elem Codec, count int, rules leafRules) arrayCodec {
	ef := elem.Facts()
	align := ef.Alignment
	if rules.roundTo16 {
		align = max(align, 16)
	}
	stride := AlignUp(ef.Size, align)
	return arrayCodec{
		elem:     elem,
		count:    count,
		stride:   stride,
		elemSize: ef.Size,
		facts: TypeFacts{
			Size:      count * stride,
			Alignment: align,
			PadAtEnd:  true,
		},
	}
}

func (c arrayCodec) Facts() TypeFacts { return c.facts }

func (c arrayCodec) Encode(dst []byte, src reflect.Value) error {
	for i := 0; i < c.count; i++ {
		base := i * c.stride
		if err := c.elem.Encode(dst[base:base+c.elemSize], src.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func (c arrayCodec) Decode(src []byte, dst reflect.Value) error {
	for i := 0; i < c.count; i++ {
		base := i * c.stride
		if err := c.elem.Decode(src[base:base+c.elemSize], dst.Index(i)); err != nil {
			return err
		}
	}
	return nil
}
