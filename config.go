package relo

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/relo/endian"
	"github.com/arloliu/relo/errs"
	"github.com/arloliu/relo/format"
	"github.com/arloliu/relo/internal/options"
	"github.com/arloliu/relo/strip"
)

// Config holds the settings shared by Load and Save. Load ignores the
// save-only fields.
type Config struct {
	engine      endian.EndianEngine
	relocations format.RelocationFormat
	logger      *zap.Logger

	// load only
	detect bool

	// save only
	footer      bool
	compression format.CompressionType
	fixForPC    bool
	stripper    strip.Stripper
}

func defaultConfig() *Config {
	return &Config{
		engine:      endian.GetLittleEndianEngine(),
		relocations: format.RelocationPlain,
		logger:      zap.NewNop(),
		compression: format.CompressionNone,
		stripper:    strip.ListStripper{},
	}
}

func newConfig(opts []Option) (*Config, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Option configures Load and Save.
type Option = options.Option[*Config]

// WithLittleEndian selects the little-endian PC variant. It is the default.
func WithLittleEndian() Option {
	return options.NoError(func(c *Config) {
		c.engine = endian.GetLittleEndianEngine()
	})
}

// WithBigEndian selects the big-endian console variant.
func WithBigEndian() Option {
	return options.NoError(func(c *Config) {
		c.engine = endian.GetBigEndianEngine()
	})
}

// WithDetectEndian makes Load pick the byte order whose file size field
// matches the file length, falling back to the configured order.
func WithDetectEndian() Option {
	return options.NoError(func(c *Config) {
		c.detect = true
	})
}

// WithRelocations selects the relocation table encoding of the variant.
// Plain is the default.
func WithRelocations(r format.RelocationFormat) Option {
	return options.Named("relocations", func(c *Config) error {
		if r != format.RelocationPlain && r != format.RelocationBBIN {
			return fmt.Errorf("%w: %d", errs.ErrInvalidRelocFormat, r)
		}
		c.relocations = r

		return nil
	})
}

// WithLogger sets the logger for debug events. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return options.NoError(func(c *Config) {
		if l == nil {
			l = zap.NewNop()
		}
		c.logger = l
	})
}

// WithFooter appends the 4-byte footer on save.
func WithFooter(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.footer = enabled
	})
}

// WithCompression wraps the saved file in a compressed envelope. Load detects
// envelopes on its own.
func WithCompression(comp format.CompressionType) Option {
	return options.Named("compression", func(c *Config) error {
		switch comp {
		case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
			c.compression = comp
			return nil
		default:
			return fmt.Errorf("%w: %d", errs.ErrInvalidCompression, comp)
		}
	})
}

// WithFixForPC widens packed vertex elements of every mesh on save.
func WithFixForPC(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.fixForPC = enabled
	})
}

// WithStripper sets the triangle stripping strategy. Nil restores the
// one-strip-per-triangle default.
func WithStripper(s strip.Stripper) Option {
	return options.NoError(func(c *Config) {
		if s == nil {
			s = strip.ListStripper{}
		}
		c.stripper = s
	})
}
