package stdlayout

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// VertexLayout maps a computed struct layout onto a wgpu vertex buffer
// layout. Fields are assigned shader locations in declaration order and
// the array stride is the struct stride, so the same layout drives both
// the Go-side encoding and the pipeline's vertex state. Usually combined
// with the Packed variant, which matches how vertex data is interleaved.
func VertexLayout(l *StructLayout) (wgpu.VertexBufferLayout, error) {
	var attributes []wgpu.VertexAttribute
	location := 0
	for i := range l.Fields {
		f := &l.Fields[i]
		format, ok := vertexFormat(f.codec)
		if !ok {
			return wgpu.VertexBufferLayout{}, fmt.Errorf("stdlayout: %s.%s has no vertex format", l.Name, f.Name)
		}
		attributes = append(attributes, wgpu.VertexAttribute{
			ShaderLocation: uint32(location),
			Offset:         uint64(f.Offset),
			Format:         format,
		})
		location++
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(l.Stride()),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attributes,
	}, nil
}

func vertexFormat(c Codec) (wgpu.VertexFormat, bool) {
	switch c := c.(type) {
	case scalarCodec:
		switch c.kind {
		case scalarF32:
			return wgpu.VertexFormatFloat32, true
		case scalarI32:
			return wgpu.VertexFormatSint32, true
		case scalarU32:
			return wgpu.VertexFormatUint32, true
		}
	case vecCodec:
		switch c.comps {
		case 2:
			return wgpu.VertexFormatFloat32x2, true
		case 3:
			return wgpu.VertexFormatFloat32x3, true
		case 4:
			return wgpu.VertexFormatFloat32x4, true
		}
	}
	return 0, false
}

// UniformBufferDescriptor encodes host with the layout and wraps the
// bytes in a descriptor ready for device.CreateBufferInit.
func UniformBufferDescriptor(label string, l *StructLayout, host any) (*wgpu.BufferInitDescriptor, error) {
	data, err := l.ToDevice(host)
	if err != nil {
		return nil, err
	}
	return &wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: data,
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	}, nil
}

// StorageBufferDescriptor is UniformBufferDescriptor for storage usage;
// pair it with a Std430 layout.
func StorageBufferDescriptor(label string, l *StructLayout, host any) (*wgpu.BufferInitDescriptor, error) {
	data, err := l.ToDevice(host)
	if err != nil {
		return nil, err
	}
	return &wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: data,
		Usage:    wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	}, nil
}
