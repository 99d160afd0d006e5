// Package effect implements the particle effect records: an EffectSet root
// holding emitters and particles that refer to each other by id.
//
// Cross references are staged as raw ids while reading and turned into slice
// handles by a single Resolve call once the whole set is in memory.
package effect

import (
	"fmt"

	"github.com/arloliu/relo/cursor"
	"github.com/arloliu/relo/errs"
	"github.com/arloliu/relo/format"
	"github.com/arloliu/relo/record"
)

// On-disk record sizes.
const (
	SetSize      = 20
	EmitterSize  = 20
	ParticleSize = 20
)

// Emitter spawns particles.
type Emitter struct {
	ID          uint32
	Name        string
	Rate        float32
	ParticleIDs []uint32

	particles []int
}

// Particle is a particle definition that may start child emitters.
type Particle struct {
	ID              uint32
	Name            string
	Lifetime        float32
	ChildEmitterIDs []uint32

	children []int
}

// EffectSet is the root node of an effect file.
type EffectSet struct {
	Name      string
	Emitters  []*Emitter
	Particles []*Particle

	resolved bool
}

// NodeType returns the root node type id of effect files.
func (s *EffectSet) NodeType() format.NodeType {
	return format.NodeEffect
}

// ReadEmitter reads an emitter at the cursor. Particle ids stay unresolved.
func ReadEmitter(c *cursor.Cursor) (*Emitter, error) {
	f := record.NewFields(c)
	e := &Emitter{ID: f.U32()}
	nameAddr := f.Address()
	e.Rate = f.F32()
	idCount := f.U32()
	idsAddr := f.Address()
	if err := f.Err(); err != nil {
		return nil, err
	}

	var err error
	if e.Name, err = record.ReadStringAt(c, nameAddr); err != nil {
		return nil, err
	}

	if e.ParticleIDs, err = record.ReadU32s(c, idsAddr, idCount); err != nil {
		return nil, err
	}

	return e, nil
}

// Write appends the emitter and returns its address.
func (e *Emitter) Write(c *cursor.Cursor) (cursor.Address, error) {
	return writeEntry(c, e.ID, e.Name, e.Rate, e.ParticleIDs)
}

// ReadParticle reads a particle at the cursor. Child emitter ids stay unresolved.
func ReadParticle(c *cursor.Cursor) (*Particle, error) {
	f := record.NewFields(c)
	p := &Particle{ID: f.U32()}
	nameAddr := f.Address()
	p.Lifetime = f.F32()
	idCount := f.U32()
	idsAddr := f.Address()
	if err := f.Err(); err != nil {
		return nil, err
	}

	var err error
	if p.Name, err = record.ReadStringAt(c, nameAddr); err != nil {
		return nil, err
	}

	if p.ChildEmitterIDs, err = record.ReadU32s(c, idsAddr, idCount); err != nil {
		return nil, err
	}

	return p, nil
}

// Write appends the particle and returns its address.
func (p *Particle) Write(c *cursor.Cursor) (cursor.Address, error) {
	return writeEntry(c, p.ID, p.Name, p.Lifetime, p.ChildEmitterIDs)
}

// writeEntry writes the layout shared by emitters and particles:
// id, A name, f32, id count, A ids.
func writeEntry(c *cursor.Cursor, id uint32, name string, value float32, ids []uint32) (cursor.Address, error) {
	h, err := record.Reserve(c, EmitterSize)
	if err != nil {
		return 0, err
	}

	nameAddr, err := record.WriteString(c, name)
	if err != nil {
		return 0, err
	}

	idsAddr, err := record.WriteU32s(c, ids)
	if err != nil {
		return 0, err
	}

	if err := h.U32(0, id); err != nil {
		return 0, err
	}

	if err := h.Address(4, nameAddr); err != nil {
		return 0, err
	}

	if err := h.F32(8, value); err != nil {
		return 0, err
	}

	if err := h.U32(12, uint32(len(ids))); err != nil {
		return 0, err
	}

	if err := h.Address(16, idsAddr); err != nil {
		return 0, err
	}

	return h.Base(), h.Done()
}

// ReadSet reads an effect set at the cursor. The caller resolves cross
// references with Resolve once reading has finished.
func ReadSet(c *cursor.Cursor) (*EffectSet, error) {
	f := record.NewFields(c)
	nameAddr := f.Address()
	emitterCount := f.U32()
	emitterTable := f.Address()
	particleCount := f.U32()
	particleTable := f.Address()
	if err := f.Err(); err != nil {
		return nil, err
	}

	s := &EffectSet{}

	var err error
	if s.Name, err = record.ReadStringAt(c, nameAddr); err != nil {
		return nil, err
	}

	if s.Emitters, err = record.ReadTable(c, emitterTable, emitterCount, ReadEmitter); err != nil {
		return nil, fmt.Errorf("emitters: %w", err)
	}

	if s.Particles, err = record.ReadTable(c, particleTable, particleCount, ReadParticle); err != nil {
		return nil, fmt.Errorf("particles: %w", err)
	}

	return s, nil
}

// Write appends the effect set and returns its address. A set whose cross
// references would not resolve is rejected before anything is written.
func (s *EffectSet) Write(c *cursor.Cursor) (cursor.Address, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}

	h, err := record.Reserve(c, SetSize)
	if err != nil {
		return 0, err
	}

	name, err := record.WriteString(c, s.Name)
	if err != nil {
		return 0, err
	}

	emitters, err := record.WriteTable(c, s.Emitters, (*Emitter).Write)
	if err != nil {
		return 0, err
	}

	particles, err := record.WriteTable(c, s.Particles, (*Particle).Write)
	if err != nil {
		return 0, err
	}

	if err := h.Address(0, name); err != nil {
		return 0, err
	}

	if err := h.U32(4, uint32(len(s.Emitters))); err != nil {
		return 0, err
	}

	if err := h.Address(8, emitters); err != nil {
		return 0, err
	}

	if err := h.U32(12, uint32(len(s.Particles))); err != nil {
		return 0, err
	}

	if err := h.Address(16, particles); err != nil {
		return 0, err
	}

	return h.Base(), h.Done()
}

// Resolve maps every staged id to the index of the emitter or particle that
// carries it. It may run only once; ids must be unique within their kind and
// every reference must name an existing record. On error the set is left
// unresolved.
func (s *EffectSet) Resolve() error {
	if s.resolved {
		return errs.ErrAlreadyResolved
	}

	emitterRefs, particleRefs, err := s.crossRefs()
	if err != nil {
		return err
	}

	for i, e := range s.Emitters {
		e.particles = emitterRefs[i]
	}

	for i, p := range s.Particles {
		p.children = particleRefs[i]
	}
	s.resolved = true

	return nil
}

// Validate runs the checks of Resolve without resolving: ids are unique
// within their kind and every reference names an existing record.
func (s *EffectSet) Validate() error {
	_, _, err := s.crossRefs()
	return err
}

func (s *EffectSet) crossRefs() ([][]int, [][]int, error) {
	emitterByID, err := indexIDs(s.Emitters, func(e *Emitter) uint32 { return e.ID })
	if err != nil {
		return nil, nil, fmt.Errorf("emitters: %w", err)
	}

	particleByID, err := indexIDs(s.Particles, func(p *Particle) uint32 { return p.ID })
	if err != nil {
		return nil, nil, fmt.Errorf("particles: %w", err)
	}

	emitterRefs := make([][]int, len(s.Emitters))
	for i, e := range s.Emitters {
		if emitterRefs[i], err = lookupIDs(e.ParticleIDs, particleByID); err != nil {
			return nil, nil, fmt.Errorf("emitter %d particles: %w", e.ID, err)
		}
	}

	particleRefs := make([][]int, len(s.Particles))
	for i, p := range s.Particles {
		if particleRefs[i], err = lookupIDs(p.ChildEmitterIDs, emitterByID); err != nil {
			return nil, nil, fmt.Errorf("particle %d child emitters: %w", p.ID, err)
		}
	}

	return emitterRefs, particleRefs, nil
}

// Resolved reports whether Resolve has succeeded.
func (s *EffectSet) Resolved() bool {
	return s.resolved
}

// EmitterParticles returns the particles spawned by emitter i.
func (s *EffectSet) EmitterParticles(i int) ([]*Particle, error) {
	if !s.resolved {
		return nil, errs.ErrNotResolved
	}

	if i < 0 || i >= len(s.Emitters) {
		return nil, fmt.Errorf("emitter index %d out of range", i)
	}

	out := make([]*Particle, len(s.Emitters[i].particles))
	for j, h := range s.Emitters[i].particles {
		out[j] = s.Particles[h]
	}

	return out, nil
}

// ParticleChildren returns the emitters started by particle i.
func (s *EffectSet) ParticleChildren(i int) ([]*Emitter, error) {
	if !s.resolved {
		return nil, errs.ErrNotResolved
	}

	if i < 0 || i >= len(s.Particles) {
		return nil, fmt.Errorf("particle index %d out of range", i)
	}

	out := make([]*Emitter, len(s.Particles[i].children))
	for j, h := range s.Particles[i].children {
		out[j] = s.Emitters[h]
	}

	return out, nil
}

func indexIDs[T any](items []T, id func(T) uint32) (map[uint32]int, error) {
	byID := make(map[uint32]int, len(items))
	for i, item := range items {
		k := id(item)
		if _, dup := byID[k]; dup {
			return nil, fmt.Errorf("%w: %d", errs.ErrDuplicateID, k)
		}
		byID[k] = i
	}

	return byID, nil
}

func lookupIDs(ids []uint32, byID map[uint32]int) ([]int, error) {
	out := make([]int, len(ids))
	for i, id := range ids {
		h, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %d", errs.ErrUnknownReference, id)
		}
		out[i] = h
	}

	return out, nil
}
