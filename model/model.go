package model

import (
	"fmt"

	"github.com/arloliu/relo/cursor"
	"github.com/arloliu/relo/errs"
	"github.com/arloliu/relo/format"
	"github.com/arloliu/relo/record"
)

// ModelSize is the on-disk size of the model root record.
const ModelSize = 36

// Model is the root node of a model file.
type Model struct {
	Name       string
	Bones      []*Bone
	Meshes     []*Mesh
	Materials  []*Material
	Animations []*Animation
}

// NodeType returns the root node type id of model files.
func (m *Model) NodeType() format.NodeType {
	return format.NodeModel
}

// ReadModel reads a model rooted at the cursor position.
func ReadModel(c *cursor.Cursor) (*Model, error) {
	f := record.NewFields(c)
	nameAddr := f.Address()
	boneCount := f.U32()
	boneTable := f.Address()
	meshCount := f.U32()
	meshTable := f.Address()
	materialCount := f.U32()
	materialTable := f.Address()
	animationCount := f.U32()
	animationTable := f.Address()
	if err := f.Err(); err != nil {
		return nil, err
	}

	m := &Model{}

	var err error
	if m.Name, err = record.ReadStringAt(c, nameAddr); err != nil {
		return nil, err
	}

	if m.Bones, err = record.ReadTable(c, boneTable, boneCount, ReadBone); err != nil {
		return nil, fmt.Errorf("bones: %w", err)
	}

	if m.Meshes, err = record.ReadTable(c, meshTable, meshCount, ReadMesh); err != nil {
		return nil, fmt.Errorf("meshes: %w", err)
	}

	if m.Materials, err = record.ReadTable(c, materialTable, materialCount, ReadMaterial); err != nil {
		return nil, fmt.Errorf("materials: %w", err)
	}

	if m.Animations, err = record.ReadTable(c, animationTable, animationCount, ReadAnimation); err != nil {
		return nil, fmt.Errorf("animations: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return m, nil
}

// Validate checks the cross-record indices of the model: bone parents,
// submesh materials and animated bones.
func (m *Model) Validate() error {
	for i, b := range m.Bones {
		if b.Parent == NoParent {
			continue
		}

		if b.Parent < 0 || int(b.Parent) >= len(m.Bones) || int(b.Parent) == i {
			return fmt.Errorf("%w: bone %d parent %d", errs.ErrMalformedFormat, i, b.Parent)
		}
	}

	for i, mesh := range m.Meshes {
		for j, s := range mesh.Submeshes {
			if len(m.Materials) > 0 && int(s.MaterialIndex) >= len(m.Materials) {
				return fmt.Errorf("%w: mesh %d submesh %d material %d", errs.ErrMalformedFormat, i, j, s.MaterialIndex)
			}
		}
	}

	for i, a := range m.Animations {
		for j, t := range a.Tracks {
			if int(t.Bone) >= len(m.Bones) {
				return fmt.Errorf("%w: animation %d track %d bone %d", errs.ErrMalformedFormat, i, j, t.Bone)
			}
		}
	}

	return nil
}

// Write appends the model. When the model is the root node, the cursor's end
// of file must be the root address.
func (m *Model) Write(c *cursor.Cursor, opts WriteOptions) (cursor.Address, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}

	h, err := record.Reserve(c, ModelSize)
	if err != nil {
		return 0, err
	}

	name, err := record.WriteString(c, m.Name)
	if err != nil {
		return 0, err
	}

	bones, err := record.WriteTable(c, m.Bones, (*Bone).Write)
	if err != nil {
		return 0, err
	}

	meshes, err := record.WriteTable(c, m.Meshes, func(mesh *Mesh, c *cursor.Cursor) (cursor.Address, error) {
		return mesh.Write(c, opts)
	})
	if err != nil {
		return 0, err
	}

	materials, err := record.WriteTable(c, m.Materials, (*Material).Write)
	if err != nil {
		return 0, err
	}

	animations, err := record.WriteTable(c, m.Animations, (*Animation).Write)
	if err != nil {
		return 0, err
	}

	if err := h.Address(0, name); err != nil {
		return 0, err
	}

	tables := []struct {
		count int
		addr  cursor.Address
	}{
		{len(m.Bones), bones},
		{len(m.Meshes), meshes},
		{len(m.Materials), materials},
		{len(m.Animations), animations},
	}

	for i, t := range tables {
		if err := h.U32(4+8*i, uint32(t.count)); err != nil {
			return 0, err
		}

		if err := h.Address(8+8*i, t.addr); err != nil {
			return 0, err
		}
	}

	return h.Base(), h.Done()
}
