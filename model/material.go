package model

import (
	"fmt"

	"github.com/arloliu/relo/cursor"
	"github.com/arloliu/relo/record"
)

// On-disk record sizes.
const (
	MaterialSize  = 24
	ParameterSize = 12
	TextureSize   = 12
)

// Parameter is a named shader constant.
type Parameter struct {
	Name   string
	Values []float32
}

// WrapMode is a texture addressing mode.
type WrapMode uint8

const (
	WrapRepeat WrapMode = iota
	WrapClamp
	WrapMirror
)

var wrapNames = [...]string{"repeat", "clamp", "mirror"}

func (w WrapMode) String() string {
	if int(w) >= len(wrapNames) {
		return fmt.Sprintf("wrap(%d)", uint8(w))
	}

	return wrapNames[w]
}

// FilterMode is a texture sampling filter.
type FilterMode uint8

const (
	FilterPoint FilterMode = iota
	FilterLinear
	FilterAnisotropic
)

var filterNames = [...]string{"point", "linear", "anisotropic"}

func (f FilterMode) String() string {
	if int(f) >= len(filterNames) {
		return fmt.Sprintf("filter(%d)", uint8(f))
	}

	return filterNames[f]
}

// Texture binds a texture to a sampler unit.
type Texture struct {
	Name      string
	Unit      uint32
	WrapU     WrapMode
	WrapV     WrapMode
	MinFilter FilterMode
	MagFilter FilterMode
}

// Material is a shader with its parameters and texture bindings.
type Material struct {
	Name       string
	Shader     string
	Parameters []*Parameter
	Textures   []*Texture
}

// ReadParameter reads a parameter at the cursor.
func ReadParameter(c *cursor.Cursor) (*Parameter, error) {
	f := record.NewFields(c)
	nameAddr := f.Address()
	count := f.U32()
	valuesAddr := f.Address()
	if err := f.Err(); err != nil {
		return nil, err
	}

	p := &Parameter{}

	var err error
	if p.Name, err = record.ReadStringAt(c, nameAddr); err != nil {
		return nil, err
	}

	if p.Values, err = record.ReadF32s(c, valuesAddr, count); err != nil {
		return nil, err
	}

	return p, nil
}

// Write appends the parameter and returns its address.
func (p *Parameter) Write(c *cursor.Cursor) (cursor.Address, error) {
	h, err := record.Reserve(c, ParameterSize)
	if err != nil {
		return 0, err
	}

	name, err := record.WriteString(c, p.Name)
	if err != nil {
		return 0, err
	}

	values, err := record.WriteF32s(c, p.Values)
	if err != nil {
		return 0, err
	}

	if err := h.Address(0, name); err != nil {
		return 0, err
	}

	if err := h.U32(4, uint32(len(p.Values))); err != nil {
		return 0, err
	}

	if err := h.Address(8, values); err != nil {
		return 0, err
	}

	return h.Base(), h.Done()
}

// ReadTexture reads a texture binding at the cursor.
func ReadTexture(c *cursor.Cursor) (*Texture, error) {
	f := record.NewFields(c)
	nameAddr := f.Address()
	t := &Texture{
		Unit:      f.U32(),
		WrapU:     WrapMode(f.U8()),
		WrapV:     WrapMode(f.U8()),
		MinFilter: FilterMode(f.U8()),
		MagFilter: FilterMode(f.U8()),
	}
	if err := f.Err(); err != nil {
		return nil, err
	}

	var err error
	if t.Name, err = record.ReadStringAt(c, nameAddr); err != nil {
		return nil, err
	}

	return t, nil
}

// Write appends the texture binding and returns its address.
func (t *Texture) Write(c *cursor.Cursor) (cursor.Address, error) {
	h, err := record.Reserve(c, TextureSize)
	if err != nil {
		return 0, err
	}

	name, err := record.WriteString(c, t.Name)
	if err != nil {
		return 0, err
	}

	if err := h.Address(0, name); err != nil {
		return 0, err
	}

	if err := h.U32(4, t.Unit); err != nil {
		return 0, err
	}

	for i, v := range []uint8{uint8(t.WrapU), uint8(t.WrapV), uint8(t.MinFilter), uint8(t.MagFilter)} {
		if err := h.U8(8+i, v); err != nil {
			return 0, err
		}
	}

	return h.Base(), h.Done()
}

// ReadMaterial reads a material with its parameter and texture tables.
func ReadMaterial(c *cursor.Cursor) (*Material, error) {
	f := record.NewFields(c)
	nameAddr := f.Address()
	shaderAddr := f.Address()
	paramCount := f.U32()
	paramTable := f.Address()
	textureCount := f.U32()
	textureTable := f.Address()
	if err := f.Err(); err != nil {
		return nil, err
	}

	m := &Material{}

	var err error
	if m.Name, err = record.ReadStringAt(c, nameAddr); err != nil {
		return nil, err
	}

	if m.Shader, err = record.ReadStringAt(c, shaderAddr); err != nil {
		return nil, err
	}

	if m.Parameters, err = record.ReadTable(c, paramTable, paramCount, ReadParameter); err != nil {
		return nil, err
	}

	if m.Textures, err = record.ReadTable(c, textureTable, textureCount, ReadTexture); err != nil {
		return nil, err
	}

	return m, nil
}

// Write appends the material and returns its address.
func (m *Material) Write(c *cursor.Cursor) (cursor.Address, error) {
	h, err := record.Reserve(c, MaterialSize)
	if err != nil {
		return 0, err
	}

	name, err := record.WriteString(c, m.Name)
	if err != nil {
		return 0, err
	}

	shader, err := record.WriteString(c, m.Shader)
	if err != nil {
		return 0, err
	}

	params, err := record.WriteTable(c, m.Parameters, (*Parameter).Write)
	if err != nil {
		return 0, err
	}

	textures, err := record.WriteTable(c, m.Textures, (*Texture).Write)
	if err != nil {
		return 0, err
	}

	fields := []struct {
		off  int
		addr cursor.Address
	}{{0, name}, {4, shader}, {12, params}, {20, textures}}

	for _, fd := range fields {
		if err := h.Address(fd.off, fd.addr); err != nil {
			return 0, err
		}
	}

	if err := h.U32(8, uint32(len(m.Parameters))); err != nil {
		return 0, err
	}

	if err := h.U32(16, uint32(len(m.Textures))); err != nil {
		return 0, err
	}

	return h.Base(), h.Done()
}
