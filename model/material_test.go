package model

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/relo/endian"
	"github.com/arloliu/relo/errs"
)

func sampleMaterial() *Material {
	return &Material{
		Name:   "metal",
		Shader: "phong",
		Parameters: []*Parameter{
			{Name: "specular", Values: []float32{0.9, 0.9, 0.9}},
			{Name: "power", Values: []float32{32}},
			{Name: "empty"},
		},
		Textures: []*Texture{
			{Name: "metal_d.dds", Unit: 0, WrapU: WrapRepeat, WrapV: WrapMirror, MinFilter: FilterAnisotropic, MagFilter: FilterLinear},
			{Name: "metal_n.dds", Unit: 1, WrapU: WrapClamp, WrapV: WrapClamp, MinFilter: FilterPoint, MagFilter: FilterPoint},
		},
	}
}

func TestMaterial_RoundTrip(t *testing.T) {
	for _, engine := range []endian.EndianEngine{endian.GetLittleEndianEngine(), endian.GetBigEndianEngine()} {
		c, _ := newRootedCursor(t, engine)
		m := sampleMaterial()

		addr, err := m.Write(c)
		require.NoError(t, err)

		// parameter table follows the header, name and shader strings
		require.NoError(t, c.Seek(addr+12))
		table, err := c.ReadAddress()
		require.NoError(t, err)
		require.Zero(t, table%4)

		require.NoError(t, c.Seek(addr))
		got, err := ReadMaterial(c)
		require.NoError(t, err)
		require.Equal(t, m, got)
	}
}

func TestTexture_Layout(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	c, buf := newRootedCursor(t, engine)

	tex := &Texture{Name: "t", Unit: 2, WrapU: WrapClamp, WrapV: WrapMirror, MinFilter: FilterLinear, MagFilter: FilterAnisotropic}
	addr, err := tex.Write(c)
	require.NoError(t, err)

	data := buf.Bytes()
	require.Equal(t, uint32(2), engine.Uint32(data[addr+4:]))
	require.Equal(t, []byte{1, 2, 1, 2}, data[addr+8:addr+12])
}

func TestMaterial_Truncated(t *testing.T) {
	c, _ := newRootedCursor(t, endian.GetLittleEndianEngine())
	m := sampleMaterial()

	addr, err := m.Write(c)
	require.NoError(t, err)

	// claim more parameters than the file holds
	require.NoError(t, c.Seek(addr+8))
	require.NoError(t, c.WriteU32(1 << 20))

	require.NoError(t, c.Seek(addr))
	_, err = ReadMaterial(c)
	require.ErrorIs(t, err, errs.ErrTruncated)
}

func TestModeStrings(t *testing.T) {
	require.Equal(t, "mirror", WrapMirror.String())
	require.Equal(t, "wrap(9)", WrapMode(9).String())
	require.Equal(t, "anisotropic", FilterAnisotropic.String())
	require.Equal(t, "filter(7)", FilterMode(7).String())
	require.Equal(t, "scale", TrackScale.String())
	require.Equal(t, "dec3n", KindDec3N.String())
	require.Equal(t, "texcoord", SemanticTexCoord.String())
}
