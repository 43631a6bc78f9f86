package stdlayout

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

func TestVertexLayout(t *testing.T) {
	layout, err := LayoutOf(vertex{}, Packed)
	require.NoError(t, err)
	require.Equal(t, 32, layout.Size, "packed vertices are tight")

	vbl, err := VertexLayout(layout)
	require.NoError(t, err)

	assert.Equal(t, uint64(32), vbl.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, vbl.StepMode)
	require.Len(t, vbl.Attributes, 3)

	assert.Equal(t, uint32(0), vbl.Attributes[0].ShaderLocation)
	assert.Equal(t, uint64(0), vbl.Attributes[0].Offset)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, vbl.Attributes[0].Format)

	assert.Equal(t, uint64(12), vbl.Attributes[1].Offset)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, vbl.Attributes[1].Format)

	assert.Equal(t, uint32(2), vbl.Attributes[2].ShaderLocation)
	assert.Equal(t, uint64(24), vbl.Attributes[2].Offset)
	assert.Equal(t, wgpu.VertexFormatFloat32x2, vbl.Attributes[2].Format)
}

func TestVertexLayout_RejectsNonVertexFields(t *testing.T) {
	type bad struct {
		Model mgl32.Mat4
	}
	layout, err := LayoutOf(bad{}, Packed)
	require.NoError(t, err)

	_, err = VertexLayout(layout)
	assert.Error(t, err)
}

func TestUniformBufferDescriptor(t *testing.T) {
	layout, err := Std140Of(pointLight{})
	require.NoError(t, err)

	desc, err := UniformBufferDescriptor("light", layout, pointLight{Intensity: 1})
	require.NoError(t, err)

	assert.Equal(t, "light", desc.Label)
	assert.Len(t, desc.Contents, layout.Size)
	assert.Equal(t, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst, desc.Usage)
}

func TestStorageBufferDescriptor(t *testing.T) {
	layout, err := Std430Of(pointLight{})
	require.NoError(t, err)

	desc, err := StorageBufferDescriptor("lights", layout, pointLight{Intensity: 2})
	require.NoError(t, err)

	assert.Len(t, desc.Contents, layout.Size)
	assert.Equal(t, wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst, desc.Usage)
}
