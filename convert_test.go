package stdlayout

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type material struct {
	Ambient mgl32.Vec3
	Shine   float32
	Diffuse mgl32.Vec4
	Flags   uint32
	Enabled bool
	Model   mgl32.Mat4
	Weights [3]float32
	Bias    float64
}

func sampleMaterial() material {
	return material{
		Ambient: mgl32.Vec3{0.1, 0.2, 0.3},
		Shine:   32,
		Diffuse: mgl32.Vec4{1, 0.5, 0.25, 1},
		Flags:   0xBEEF,
		Enabled: true,
		Model:   mgl32.Translate3D(1, 2, 3),
		Weights: [3]float32{0.5, 0.25, 0.25},
		Bias:    0.0005,
	}
}

func TestToDevice_MaterialOffsets(t *testing.T) {
	layout, err := Std140Of(material{})
	require.NoError(t, err)

	want := map[string]int{
		"Ambient": 0,
		"Shine":   12,
		"Diffuse": 16,
		"Flags":   32,
		"Enabled": 36,
		"Model":   48,
		"Weights": 112,
		"Bias":    160,
	}
	for name, offset := range want {
		f, ok := layout.Field(name)
		require.True(t, ok, "missing field %s", name)
		assert.Equal(t, offset, f.Offset, "offset of %s", name)
	}
	assert.Equal(t, 168, layout.Size)
	assert.Equal(t, 16, layout.Alignment)
}

func TestRoundTrip(t *testing.T) {
	layout, err := Std140Of(material{})
	require.NoError(t, err)

	in := sampleMaterial()
	data, err := layout.ToDevice(in)
	require.NoError(t, err)
	require.Len(t, data, layout.Size)

	var out material
	require.NoError(t, layout.FromDevice(data, &out))
	assert.Equal(t, in, out)
}

func TestRoundTrip_Std430(t *testing.T) {
	layout, err := Std430Of(material{})
	require.NoError(t, err)

	in := sampleMaterial()
	data, err := layout.ToDevice(&in)
	require.NoError(t, err)

	var out material
	require.NoError(t, layout.FromDevice(data, &out))
	assert.Equal(t, in, out)
}

func TestRoundTrip_Nested(t *testing.T) {
	type sphere struct {
		Center mgl32.Vec3
		Radius float32
	}
	type scene struct {
		Spheres [2]sphere
		Count   uint32
	}

	layout, err := Std140Of(scene{})
	require.NoError(t, err)

	in := scene{
		Spheres: [2]sphere{
			{Center: mgl32.Vec3{1, 2, 3}, Radius: 4},
			{Center: mgl32.Vec3{-1, -2, -3}, Radius: 0.5},
		},
		Count: 2,
	}
	data, err := layout.ToDevice(in)
	require.NoError(t, err)

	var out scene
	require.NoError(t, layout.FromDevice(data, &out))
	assert.Equal(t, in, out)
}

func TestDeterminism(t *testing.T) {
	layout, err := Std140Of(material{})
	require.NoError(t, err)

	a, err := layout.ToDevice(sampleMaterial())
	require.NoError(t, err)
	b, err := layout.ToDevice(sampleMaterial())
	require.NoError(t, err)

	if !bytes.Equal(a, b) {
		t.Error("structurally equal values produced different device bytes")
	}
}

func TestToDevice_PaddingIsZero(t *testing.T) {
	layout, err := Std140Of(pointLight{})
	require.NoError(t, err)

	data, err := layout.ToDevice(pointLight{Intensity: 5, Color: mgl32.Vec3{1, 1, 1}})
	require.NoError(t, err)

	// Bytes 4..16 are the pad between the scalar and the vec3.
	for i := 4; i < 16; i++ {
		assert.Zero(t, data[i], "padding byte %d", i)
	}
}

func TestToDevice_Mat3ColumnPadding(t *testing.T) {
	type model struct {
		M mgl32.Mat3
	}
	layout, err := Std140Of(model{})
	require.NoError(t, err)
	require.Equal(t, 48, layout.Size)

	m := mgl32.Ident3()
	data, err := layout.ToDevice(model{M: m})
	require.NoError(t, err)

	// Columns land on 16-byte strides; the 4th float of each is pad.
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			bits := binary.LittleEndian.Uint32(data[col*16+row*4:])
			assert.Equal(t, m[col*3+row], math.Float32frombits(bits), "col %d row %d", col, row)
		}
		assert.Zero(t, binary.LittleEndian.Uint32(data[col*16+12:]), "column %d pad", col)
	}
}

func TestToDevice_SliceAndMapHosts(t *testing.T) {
	layout, err := BuildLayout("Params", []Field{
		{Name: "Scale", Codec: scalarCodec{kind: scalarF32}},
		{Name: "Tint", Codec: vecCodec{comps: 3}},
	}, Std140)
	require.NoError(t, err)
	require.Equal(t, 28, layout.Size)

	fromSlice, err := layout.ToDevice([]any{float32(2), mgl32.Vec3{1, 0, 1}})
	require.NoError(t, err)

	fromMap, err := layout.ToDevice(map[string]any{
		"Scale": float32(2),
		"Tint":  mgl32.Vec3{1, 0, 1},
	})
	require.NoError(t, err)

	assert.Equal(t, fromSlice, fromMap)
	assert.Equal(t, float32(2), math.Float32frombits(binary.LittleEndian.Uint32(fromSlice)))

	_, err = layout.ToDevice([]any{float32(2)})
	assert.Error(t, err, "short value slice")

	_, err = layout.ToDevice(map[string]any{"Scale": float32(2)})
	assert.Error(t, err, "missing map entry")
}

func TestFromDevice_Errors(t *testing.T) {
	layout, err := Std140Of(pointLight{})
	require.NoError(t, err)

	var out pointLight
	assert.Error(t, layout.FromDevice(make([]byte, 4), &out), "short buffer")
	assert.Error(t, layout.FromDevice(make([]byte, layout.Size), out), "non-pointer target")

	var nilOut *pointLight
	assert.Error(t, layout.FromDevice(make([]byte, layout.Size), nilOut), "nil pointer target")
}

func TestToDeviceInto_ShortBuffer(t *testing.T) {
	layout, err := Std140Of(pointLight{})
	require.NoError(t, err)

	err = layout.ToDeviceInto(make([]byte, 8), pointLight{})
	assert.Error(t, err)
}
