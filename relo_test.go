package relo

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arloliu/relo/bixf"
	"github.com/arloliu/relo/compress"
	"github.com/arloliu/relo/cursor"
	"github.com/arloliu/relo/endian"
	"github.com/arloliu/relo/effect"
	"github.com/arloliu/relo/errs"
	"github.com/arloliu/relo/format"
	"github.com/arloliu/relo/model"
	"github.com/arloliu/relo/strip"
)

func sampleModel() *model.Model {
	vertices := make([]model.Vertex, 4)
	for i := range vertices {
		vertices[i].Position = mgl32.Vec3{float32(i % 2), float32(i / 2), 0}
		vertices[i].Normal = mgl32.Vec3{0, 0, 1}
		vertices[i].BlendWeights = mgl32.Vec4{1, 0, 0, 0}
	}

	return &model.Model{
		Name: "crate",
		Bones: []*model.Bone{{
			Name:        "root",
			Parent:      model.NoParent,
			Transform:   mgl32.Ident4(),
			InverseBind: mgl32.Ident4(),
		}},
		Meshes: []*model.Mesh{{
			Name: "box",
			Format: model.VertexFormat{
				{Offset: 0, Kind: model.KindFloat3, Semantic: model.SemanticPosition},
				{Offset: 12, Kind: model.KindFloat3, Semantic: model.SemanticNormal},
				{Offset: 24, Kind: model.KindFloat4, Semantic: model.SemanticBlendWeights},
			},
			Vertices: vertices,
			Submeshes: []*model.Submesh{{
				Triangles:   []strip.Triangle{{0, 1, 2}, {2, 1, 3}},
				BonePalette: []uint16{0},
			}},
		}},
		Materials: []*model.Material{{Name: "wood", Shader: "lit"}},
	}
}

func sampleEffect() *effect.EffectSet {
	return &effect.EffectSet{
		Name:      "smoke",
		Emitters:  []*effect.Emitter{{ID: 1, Name: "puff", Rate: 4, ParticleIDs: []uint32{7}}},
		Particles: []*effect.Particle{{ID: 7, Name: "cloud", Lifetime: 3}},
	}
}

func TestSaveLoad_Model(t *testing.T) {
	variants := []struct {
		name string
		opts []Option
	}{
		{"Default", nil},
		{"BigEndian", []Option{WithBigEndian()}},
		{"BBIN", []Option{WithRelocations(format.RelocationBBIN)}},
		{"Footer", []Option{WithFooter(true)}},
		{"Zstd", []Option{WithCompression(format.CompressionZstd)}},
		{"S2 BigEndian BBIN", []Option{WithCompression(format.CompressionS2), WithBigEndian(), WithRelocations(format.RelocationBBIN)}},
		{"LZ4 Footer", []Option{WithCompression(format.CompressionLZ4), WithFooter(true)}},
		{"Greedy stripper", []Option{WithStripper(strip.GreedyStripper{})}},
	}

	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "crate.mdl")
			original := sampleModel()

			require.NoError(t, Save(original, path, v.opts...))

			rec, err := Load(path, v.opts...)
			require.NoError(t, err)
			require.Equal(t, format.NodeModel, rec.NodeType())
			require.Equal(t, original, rec)
		})
	}
}

func TestSaveLoad_Compressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crate.mdl")
	require.NoError(t, Save(sampleModel(), path, WithCompression(format.CompressionZstd)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, compress.IsEnvelope(data))
}

func TestInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crate.mdl")
	require.NoError(t, Save(sampleModel(), path, WithCompression(format.CompressionLZ4), WithFooter(true)))

	info, err := Inspect(path)
	require.NoError(t, err)
	require.Equal(t, format.CompressionLZ4, info.Compression)
	require.Equal(t, format.NodeModel, info.Header.RootType)
	require.Equal(t, uint32(0x20), info.Header.RootAddress)
	require.Equal(t, uint32(4), info.Header.FooterSize)
	require.NotEmpty(t, info.Relocations)
	require.IsIncreasing(t, info.Relocations)

	stat, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, stat.Size(), info.StoredSize)
	require.Less(t, info.StoredSize, int64(info.Header.FileSize)+compress.EnvelopeHeaderSize+64)
}

func TestLoad_DetectEndian(t *testing.T) {
	dir := t.TempDir()

	for _, comp := range []format.CompressionType{format.CompressionNone, format.CompressionZstd} {
		t.Run(comp.String(), func(t *testing.T) {
			path := filepath.Join(dir, comp.String()+".mdl")
			require.NoError(t, Save(sampleModel(), path, WithBigEndian(), WithCompression(comp)))

			_, err := Load(path)
			require.Error(t, err)

			info, err := Inspect(path, WithDetectEndian())
			require.NoError(t, err)
			require.True(t, endian.IsBigEndian(info.Engine))
			require.Equal(t, sampleModel(), info.Record)
		})
	}

	path := filepath.Join(dir, "le.mdl")
	require.NoError(t, Save(sampleModel(), path))

	info, err := Inspect(path, WithDetectEndian(), WithBigEndian())
	require.NoError(t, err)
	require.False(t, endian.IsBigEndian(info.Engine))
}

func TestReadWrite_InMemory(t *testing.T) {
	engine := endian.GetBigEndianEngine()
	buf := cursor.NewBuffer()
	defer buf.Release()

	header, err := Write(cursor.New(buf, engine), sampleEffect(), WithRelocations(format.RelocationBBIN))
	require.NoError(t, err)
	require.Equal(t, format.NodeEffect, header.RootType)
	require.Equal(t, int(header.FileSize), buf.Len())

	rec, err := Read(cursor.New(cursor.NewBufferFrom(buf.Bytes()), engine), WithRelocations(format.RelocationBBIN))
	require.NoError(t, err)
	require.Equal(t, "smoke", rec.(*effect.EffectSet).Name)
}

func TestSaveLoad_FixForPC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crate.mdl")
	m := sampleModel()
	m.Meshes[0].Format = model.VertexFormat{
		{Offset: 0, Kind: model.KindFloat3, Semantic: model.SemanticPosition},
		{Offset: 12, Kind: model.KindHalf4, Semantic: model.SemanticNormal},
	}
	for i := range m.Meshes[0].Vertices {
		m.Meshes[0].Vertices[i].BlendWeights = mgl32.Vec4{}
	}

	require.NoError(t, Save(m, path, WithFixForPC(true)))

	rec, err := Load(path)
	require.NoError(t, err)

	got := rec.(*model.Model)
	require.Equal(t, model.KindFloat4, got.Meshes[0].Format[1].Kind)
	require.Equal(t, uint32(28), got.Meshes[0].Format.Stride())
	require.Equal(t, m.Meshes[0].Vertices, got.Meshes[0].Vertices)
}

func TestSaveLoad_Effect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smoke.eff")
	require.NoError(t, Save(sampleEffect(), path, WithRelocations(format.RelocationBBIN)))

	rec, err := Load(path, WithRelocations(format.RelocationBBIN))
	require.NoError(t, err)

	s, ok := rec.(*effect.EffectSet)
	require.True(t, ok)
	require.True(t, s.Resolved())

	particles, err := s.EmitterParticles(0)
	require.NoError(t, err)
	require.Equal(t, []*effect.Particle{s.Particles[0]}, particles)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.mdl"))
		require.ErrorIs(t, err, errs.ErrIO)
	})

	t.Run("Too short", func(t *testing.T) {
		path := filepath.Join(dir, "short.mdl")
		require.NoError(t, os.WriteFile(path, []byte{1, 2}, 0o644))

		_, err := Load(path)
		require.ErrorIs(t, err, errs.ErrMalformedFormat)
	})

	t.Run("Unresolvable effect", func(t *testing.T) {
		s := sampleEffect()
		s.Particles[0].ID = 0xA1B2C3D4
		s.Emitters[0].ParticleIDs = []uint32{0xA1B2C3D4}
		path := filepath.Join(dir, "broken.eff")
		require.NoError(t, Save(s, path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		// the emitter's id list precedes the particle record
		id := binary.LittleEndian.AppendUint32(nil, 0xA1B2C3D4)
		at := bytes.Index(data, id)
		require.Positive(t, at)
		binary.LittleEndian.PutUint32(data[at:], 8)
		require.NoError(t, os.WriteFile(path, data, 0o644))

		_, err = Load(path)
		require.ErrorIs(t, err, errs.ErrUnknownReference)
	})

	t.Run("Unknown root type", func(t *testing.T) {
		path := filepath.Join(dir, "unknown.mdl")
		require.NoError(t, Save(sampleModel(), path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		data[4] = 0x7F
		require.NoError(t, os.WriteFile(path, data, 0o644))

		_, err = Load(path)
		require.ErrorIs(t, err, errs.ErrUnsupportedNodeType)
	})

	t.Run("Wrong relocation format", func(t *testing.T) {
		path := filepath.Join(dir, "bbin.mdl")
		require.NoError(t, Save(sampleModel(), path, WithRelocations(format.RelocationBBIN)))

		_, err := Load(path)
		require.ErrorIs(t, err, errs.ErrMalformedFormat)
	})

	t.Run("Corrupt relocation entry", func(t *testing.T) {
		path := filepath.Join(dir, "reloc.mdl")
		require.NoError(t, Save(sampleModel(), path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		// point the first relocation entry at the animation count of the root record, which holds 0
		relocAbs := int(data[16]) | int(data[17])<<8 | int(data[18])<<16 | int(data[19])<<24
		data[relocAbs+4] = 0x1C
		data[relocAbs+5], data[relocAbs+6], data[relocAbs+7] = 0, 0, 0
		require.NoError(t, os.WriteFile(path, data, 0o644))

		_, err = Load(path)
		require.ErrorIs(t, err, errs.ErrMalformedFormat)
	})
}

func TestOptions_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.mdl")

	err := Save(sampleModel(), path, WithRelocations(format.RelocationFormat(9)))
	require.ErrorIs(t, err, errs.ErrInvalidRelocFormat)

	err = Save(sampleModel(), path, WithCompression(format.CompressionType(0)))
	require.ErrorIs(t, err, errs.ErrInvalidCompression)

	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))
}

type notARecord struct{}

func (notARecord) NodeType() format.NodeType { return format.NodeModel }

func TestSave_UnsupportedRecord(t *testing.T) {
	dir := t.TempDir()
	err := Save(notARecord{}, filepath.Join(dir, "x.mdl"))
	require.ErrorIs(t, err, errs.ErrUnsupportedRecord)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestSave_UnresolvableEffect(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *effect.EffectSet)
		err    error
	}{
		{"Dangling particle", func(s *effect.EffectSet) { s.Emitters[0].ParticleIDs = []uint32{99} }, errs.ErrUnknownReference},
		{"Dangling child emitter", func(s *effect.EffectSet) { s.Particles[0].ChildEmitterIDs = []uint32{42} }, errs.ErrUnknownReference},
		{"Duplicate particle", func(s *effect.EffectSet) {
			s.Particles = append(s.Particles, &effect.Particle{ID: 7, Name: "again"})
		}, errs.ErrDuplicateID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			s := sampleEffect()
			tt.mutate(s)

			err := Save(s, filepath.Join(dir, "broken.eff"))
			require.ErrorIs(t, err, tt.err)
			require.False(t, s.Resolved())

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			require.Empty(t, entries)
		})
	}
}

func TestSave_FileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crate.mdl")
	require.NoError(t, Save(sampleModel(), path))

	st, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o644), st.Mode().Perm())
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	path := filepath.Join(t.TempDir(), "crate.mdl")
	require.NoError(t, Save(sampleModel(), path, WithLogger(logger), WithCompression(format.CompressionS2)))
	_, err := Load(path, WithLogger(logger))
	require.NoError(t, err)

	var messages []string
	for _, e := range logs.All() {
		messages = append(messages, e.Message)
	}
	require.Equal(t, []string{"saved", "unwrapped envelope", "read header"}, messages)
	require.Equal(t, "Model", logs.FilterMessage("read header").All()[0].ContextMap()["root_type"])
}

func TestTree(t *testing.T) {
	mat := &model.Material{
		Name:       "glass",
		Shader:     "refract",
		Parameters: []*model.Parameter{{Name: "ior", Values: []float32{1.5}}},
		Textures:   []*model.Texture{{Name: "glass_n", Unit: 2, WrapU: model.WrapMirror, MagFilter: model.FilterLinear}},
	}

	path := filepath.Join(t.TempDir(), "glass.bixf")
	require.NoError(t, SaveTree(ToTree(mat), path))

	doc, err := LoadTree(path)
	require.NoError(t, err)

	got, err := FromTree(doc)
	require.NoError(t, err)
	require.Equal(t, mat, got)

	_, err = FromTree(&bixf.Document{})
	require.ErrorIs(t, err, errs.ErrUnexpectedNode)

	_, err = LoadTree(filepath.Join(t.TempDir(), "missing.bixf"))
	require.ErrorIs(t, err, errs.ErrIO)
}
