package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/arloliu/relo"
	"github.com/arloliu/relo/effect"
	"github.com/arloliu/relo/endian"
	"github.com/arloliu/relo/model"
)

func newInspectCommand(g *globalFlags) *cobra.Command {
	var showRelocs bool

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print the header, relocation table and record summary of an asset file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := g.loadOptions()
			if err != nil {
				return err
			}

			info, err := relo.Inspect(args[0], opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			printInfo(cmd.OutOrStdout(), info, showRelocs)

			return nil
		},
	}
	cmd.Flags().BoolVar(&showRelocs, "relocations", false, "list every relocation entry")

	return cmd
}

func printInfo(w io.Writer, info *relo.Info, showRelocs bool) {
	h := info.Header
	fmt.Fprintf(w, "byte order:   %s\n", endian.Name(info.Engine))
	fmt.Fprintf(w, "root type:    %s\n", h.RootType)
	fmt.Fprintf(w, "file size:    %d\n", h.FileSize)
	fmt.Fprintf(w, "stored:       %d bytes, compression %s\n", info.StoredSize, info.Compression)
	fmt.Fprintf(w, "root address: 0x%x\n", h.RootAddress)
	fmt.Fprintf(w, "relocations:  %d at 0x%x\n", len(info.Relocations), h.RelocTableAbs)
	fmt.Fprintf(w, "footer:       %d\n", h.FooterSize)

	if showRelocs {
		for _, rel := range info.Relocations {
			fmt.Fprintf(w, "  0x%08x\n", rel)
		}
	}

	switch r := info.Record.(type) {
	case *model.Model:
		fmt.Fprintf(w, "model %q: %d bones, %d meshes, %d materials, %d animations\n",
			r.Name, len(r.Bones), len(r.Meshes), len(r.Materials), len(r.Animations))
		for _, m := range r.Meshes {
			fmt.Fprintf(w, "  mesh %q: %d vertices, stride %d, %d submeshes\n",
				m.Name, len(m.Vertices), m.Format.Stride(), len(m.Submeshes))
		}
	case *effect.EffectSet:
		fmt.Fprintf(w, "effect %q: %d emitters, %d particles\n", r.Name, len(r.Emitters), len(r.Particles))
	}
}
