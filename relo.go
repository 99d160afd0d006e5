// Package relo reads and writes relocatable pointer-graph asset files and
// BIXF attributed trees.
//
// A pointer-graph file is a 24-byte header, a tree of fixed-size records that
// refer to each other by root-relative address, and a relocation table
// listing every address field. Load turns such a file into a record graph;
// Save writes a graph back, rebuilding every address and the relocation table.
//
// # Basic Usage
//
//	rec, err := relo.Load("hero.mdl", relo.WithBigEndian())
//	if err != nil {
//	    return err
//	}
//	m := rec.(*model.Model)
//
//	err = relo.Save(m, "hero_pc.mdl",
//	    relo.WithFixForPC(true),
//	    relo.WithRelocations(format.RelocationBBIN),
//	    relo.WithCompression(format.CompressionZstd),
//	)
//
// Material and effect descriptions travel as BIXF trees:
//
//	doc, err := relo.LoadTree("skin.bixf")
//	mat, err := relo.FromTree(doc)
//
// # Package Structure
//
// This package wraps the cursor, record codec and bixf packages for the
// common cases. Use those packages directly for fine-grained control.
package relo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/arloliu/relo/bixf"
	"github.com/arloliu/relo/compress"
	"github.com/arloliu/relo/cursor"
	"github.com/arloliu/relo/effect"
	"github.com/arloliu/relo/endian"
	"github.com/arloliu/relo/errs"
	"github.com/arloliu/relo/format"
	"github.com/arloliu/relo/model"
	"github.com/arloliu/relo/section"
)

// Record is the root of a pointer-graph file: *model.Model or *effect.EffectSet.
type Record interface {
	NodeType() format.NodeType
}

var (
	_ Record = (*model.Model)(nil)
	_ Record = (*effect.EffectSet)(nil)
)

// Info describes a pointer-graph file and the record graph it holds.
type Info struct {
	Engine      endian.EndianEngine
	Header      section.FileHeader
	Relocations []uint32
	Compression format.CompressionType
	StoredSize  int64
	Record      Record
}

// Load reads the pointer-graph file at path. Compressed envelopes are
// detected and unwrapped. Effect cross references are resolved before
// returning; nothing of a failed load is returned.
func Load(path string, opts ...Option) (Record, error) {
	info, err := Inspect(path, opts...)
	if err != nil {
		return nil, err
	}

	return info.Record, nil
}

// Inspect is Load that also reports the file header, the relocation table
// and how the file was stored.
func Inspect(path string, opts ...Option) (*Info, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	c, info, err := openAsset(path, cfg)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	if err := read(c, cfg, info); err != nil {
		return nil, err
	}

	return info, nil
}

// Read decodes the pointer-graph file behind c, which must not have a root
// yet. The byte order is the cursor's own; WithBigEndian has no effect here.
func Read(c *cursor.Cursor, opts ...Option) (Record, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	info := &Info{Engine: c.Engine(), Compression: format.CompressionNone}
	if err := read(c, cfg, info); err != nil {
		return nil, err
	}

	return info.Record, nil
}

func read(c *cursor.Cursor, cfg *Config, info *Info) error {
	header, err := c.ReadHeader()
	if err != nil {
		return err
	}

	relocs, err := c.ReadRelocations(header, cfg.relocations)
	if err != nil {
		return fmt.Errorf("relocation table: %w", err)
	}

	if err := checkRelocations(c, header, relocs); err != nil {
		return err
	}

	cfg.logger.Debug("read header",
		zap.Stringer("root_type", header.RootType),
		zap.Uint32("file_size", header.FileSize),
		zap.Uint32("root", header.RootAddress),
		zap.Int("relocations", len(relocs)),
	)

	if err := c.Seek(cursor.Address(header.RootAddress)); err != nil {
		return err
	}

	info.Header = header
	info.Relocations = relocs

	switch header.RootType {
	case format.NodeModel:
		m, err := model.ReadModel(c)
		if err != nil {
			return err
		}

		if err := m.Validate(); err != nil {
			return err
		}
		info.Record = m
	case format.NodeEffect:
		s, err := effect.ReadSet(c)
		if err != nil {
			return err
		}

		if err := s.Resolve(); err != nil {
			return err
		}
		info.Record = s
	default:
		return fmt.Errorf("%w: 0x%x", errs.ErrUnsupportedNodeType, uint32(header.RootType))
	}

	return nil
}

// checkRelocations verifies that every relocated field holds a non-null
// address inside the data area.
func checkRelocations(c *cursor.Cursor, header section.FileHeader, relocs []uint32) error {
	for _, rel := range relocs {
		if err := c.SeekRelative(rel); err != nil {
			return err
		}

		addr, ok, err := c.ReadOptionalAddress()
		if err != nil {
			return err
		}

		if !ok || uint32(addr) >= header.RelocTableAbs {
			return fmt.Errorf("%w: relocated field 0x%x holds 0x%x", errs.ErrAddressOutOfRange, rel, uint32(addr))
		}
	}

	return nil
}

// openAsset returns a cursor over the raw asset bytes at path, unwrapping a
// compressed envelope into memory when present.
func openAsset(path string, cfg *Config) (*cursor.Cursor, *Info, error) {
	c, err := cursor.Open(path, cfg.engine)
	if err != nil {
		return nil, nil, err
	}

	size, err := c.Size()
	if err != nil {
		c.Close()
		return nil, nil, err
	}

	info := &Info{Engine: cfg.engine, Compression: format.CompressionNone, StoredSize: size}

	magic, err := c.ReadBytes(len(compress.EnvelopeMagic))
	if errors.Is(err, errs.ErrTruncated) {
		return c, info, nil
	}

	if err != nil {
		c.Close()
		return nil, nil, err
	}

	if string(magic) != compress.EnvelopeMagic {
		engine := detectEngine(cfg, magic, size)
		if engine == cfg.engine {
			return c, info, nil
		}
		c.Close()

		info.Engine = engine
		cfg.logger.Debug("detected byte order", zap.String("path", path), zap.String("order", endian.Name(engine)))

		if c, err = cursor.Open(path, engine); err != nil {
			return nil, nil, err
		}

		return c, info, nil
	}
	defer c.Close()

	if err := c.Seek(0); err != nil {
		return nil, nil, err
	}

	sealed, err := c.ReadBytes(int(size))
	if err != nil {
		return nil, nil, err
	}

	raw, stats, err := compress.OpenStats(sealed)
	if err != nil {
		return nil, nil, err
	}
	info.Compression = stats.Algorithm
	info.Engine = detectEngine(cfg, raw, int64(len(raw)))

	cfg.logger.Debug("unwrapped envelope",
		zap.String("path", path),
		zap.Stringer("compression", stats.Algorithm),
		zap.Float64("ratio", stats.CompressionRatio()),
	)

	return cursor.New(cursor.NewBufferFrom(raw), info.Engine), info, nil
}

// detectEngine returns the configured engine unless detection is enabled and
// the leading file size field matches size in one byte order.
func detectEngine(cfg *Config, data []byte, size int64) endian.EndianEngine {
	if !cfg.detect || size > int64(^uint32(0)) {
		return cfg.engine
	}

	engine, ok := endian.Detect(data, uint32(size))
	if !ok {
		return cfg.engine
	}

	return engine
}

// Save writes rec to path through a temporary file in the same directory
// that is renamed into place once complete.
func Save(rec Record, path string, opts ...Option) error {
	cfg, err := newConfig(opts)
	if err != nil {
		return err
	}

	buf := cursor.NewBuffer()
	defer buf.Release()

	header, err := write(cursor.New(buf, cfg.engine), rec, cfg)
	if err != nil {
		return err
	}

	data := buf.Bytes()
	if cfg.compression != format.CompressionNone {
		if data, err = compress.Seal(cfg.compression, data); err != nil {
			return err
		}
	}

	if err := writeFileAtomic(path, data); err != nil {
		return err
	}

	cfg.logger.Debug("saved",
		zap.String("path", path),
		zap.Stringer("root_type", header.RootType),
		zap.Uint32("file_size", header.FileSize),
		zap.Stringer("compression", cfg.compression),
		zap.Int("stored_size", len(data)),
	)

	return nil
}

// Write emits rec as a complete file into c, which must be empty. The byte
// order is the cursor's own and WithCompression has no effect here.
func Write(c *cursor.Cursor, rec Record, opts ...Option) (section.FileHeader, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return section.FileHeader{}, err
	}

	return write(c, rec, cfg)
}

func write(c *cursor.Cursor, rec Record, cfg *Config) (section.FileHeader, error) {
	if err := c.WriteZeros(section.DefaultRootAddress); err != nil {
		return section.FileHeader{}, err
	}

	if err := c.SetRoot(section.DefaultRootAddress); err != nil {
		return section.FileHeader{}, err
	}

	switch r := rec.(type) {
	case *model.Model:
		if _, err := r.Write(c, model.WriteOptions{FixForPC: cfg.fixForPC, Stripper: cfg.stripper}); err != nil {
			return section.FileHeader{}, err
		}
	case *effect.EffectSet:
		if _, err := r.Write(c); err != nil {
			return section.FileHeader{}, err
		}
	default:
		return section.FileHeader{}, fmt.Errorf("%w: %T", errs.ErrUnsupportedRecord, rec)
	}

	return c.Finalize(rec.NodeType(), cursor.FinalizeOptions{
		Relocations: cfg.relocations,
		Footer:      cfg.footer,
	})
}

// LoadTree decodes the BIXF file at path.
func LoadTree(path string) (*bixf.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrIO, err)
	}

	return bixf.Decode(data)
}

// SaveTree encodes doc as BIXF and writes it to path.
func SaveTree(doc *bixf.Document, path string) error {
	data, err := bixf.Encode(doc)
	if err != nil {
		return err
	}

	return writeFileAtomic(path, data)
}

// ToTree converts a material into a BIXF document with a single <material> root.
func ToTree(m *model.Material) *bixf.Document {
	return &bixf.Document{Nodes: []*bixf.Node{model.MaterialToTree(m)}}
}

// FromTree converts a document with a single <material> root back into a material.
func FromTree(doc *bixf.Document) (*model.Material, error) {
	if len(doc.Nodes) != 1 {
		return nil, fmt.Errorf("%w: %d top-level nodes, want 1", errs.ErrUnexpectedNode, len(doc.Nodes))
	}

	return model.MaterialFromTree(doc.Nodes[0])
}

func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrIO, err)
	}

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrIO, err)
	}

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrIO, err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrIO, err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrIO, err)
	}

	return nil
}
