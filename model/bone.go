package model

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/arloliu/relo/cursor"
	"github.com/arloliu/relo/record"
)

// BoneSize is the on-disk size of a bone record.
const BoneSize = 136

// NoParent marks a root bone.
const NoParent int16 = -1

// Bone is one joint of a skeleton.
type Bone struct {
	Name        string
	Parent      int16
	Flags       uint16
	Transform   mgl32.Mat4
	InverseBind mgl32.Mat4
}

// ReadBone reads a bone at the cursor.
func ReadBone(c *cursor.Cursor) (*Bone, error) {
	b := &Bone{}

	f := record.NewFields(c)
	nameAddr := f.Address()
	b.Parent = f.I16()
	b.Flags = f.U16()
	f.F32s(b.Transform[:])
	f.F32s(b.InverseBind[:])
	if err := f.Err(); err != nil {
		return nil, err
	}

	name, err := record.ReadStringAt(c, nameAddr)
	if err != nil {
		return nil, err
	}
	b.Name = name

	return b, nil
}

// Write appends the bone and returns its address.
func (b *Bone) Write(c *cursor.Cursor) (cursor.Address, error) {
	p, err := record.Reserve(c, BoneSize)
	if err != nil {
		return 0, err
	}

	name, err := record.WriteString(c, b.Name)
	if err != nil {
		return 0, err
	}

	if err := p.Address(0, name); err != nil {
		return 0, err
	}

	if err := p.I16(4, b.Parent); err != nil {
		return 0, err
	}

	if err := p.U16(6, b.Flags); err != nil {
		return 0, err
	}

	if err := p.F32s(8, b.Transform[:]); err != nil {
		return 0, err
	}

	if err := p.F32s(72, b.InverseBind[:]); err != nil {
		return 0, err
	}

	return p.Base(), p.Done()
}
