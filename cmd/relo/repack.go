package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arloliu/relo"
	"github.com/arloliu/relo/format"
	"github.com/arloliu/relo/strip"
)

type repackFlags struct {
	compression string
	relocs      string
	footer      bool
	fixForPC    bool
	greedy      bool
	bigEndian   bool
}

func newRepackCommand(g *globalFlags) *cobra.Command {
	f := &repackFlags{}

	cmd := &cobra.Command{
		Use:   "repack IN OUT",
		Short: "Load an asset file and write it back in another variant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			loadOpts, err := g.loadOptions()
			if err != nil {
				return err
			}

			saveOpts, err := f.saveOptions(g)
			if err != nil {
				return err
			}

			rec, err := relo.Load(args[0], loadOpts...)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			if err := relo.Save(rec, args[1], saveOpts...); err != nil {
				return fmt.Errorf("%s: %w", args[1], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", args[1], rec.NodeType())

			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.compression, "compress", "none", "wrap the output in a compressed envelope: none, zstd, s2 or lz4")
	fl.StringVar(&f.relocs, "relocs", "plain", "relocation table format of the output: plain or bbin")
	fl.BoolVar(&f.footer, "footer", false, "append the 4-byte footer")
	fl.BoolVar(&f.fixForPC, "fix-for-pc", false, "widen packed vertex elements")
	fl.BoolVar(&f.greedy, "greedy-strips", false, "join triangles into longer strips")
	fl.BoolVar(&f.bigEndian, "to-big-endian", false, "write the big-endian console variant")

	return cmd
}

func (f *repackFlags) saveOptions(g *globalFlags) ([]relo.Option, error) {
	comp, ok := format.ParseCompression(f.compression)
	if !ok {
		return nil, fmt.Errorf("unknown compression %q", f.compression)
	}

	r, ok := format.ParseRelocationFormat(f.relocs)
	if !ok {
		return nil, fmt.Errorf("unknown relocation format %q", f.relocs)
	}

	opts := []relo.Option{
		relo.WithCompression(comp),
		relo.WithRelocations(r),
		relo.WithFooter(f.footer),
		relo.WithFixForPC(f.fixForPC),
		relo.WithLogger(g.logger),
	}

	if f.greedy {
		opts = append(opts, relo.WithStripper(strip.GreedyStripper{}))
	}

	if f.bigEndian {
		opts = append(opts, relo.WithBigEndian())
	}

	return opts, nil
}
