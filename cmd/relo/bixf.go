package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/relo"
	"github.com/arloliu/relo/bixf"
)

func newBIXFCommand(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bixf",
		Short: "Convert between BIXF trees and XML text",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "decode IN.bixf OUT.xml",
			Short: "Decode a BIXF file into XML",
			Args:  cobra.ExactArgs(2),
			RunE: func(_ *cobra.Command, args []string) error {
				doc, err := relo.LoadTree(args[0])
				if err != nil {
					return fmt.Errorf("%s: %w", args[0], err)
				}

				text, err := bixf.ToXML(doc)
				if err != nil {
					return err
				}

				g.logger.Debug("decoded tree", zap.String("path", args[0]), zap.Int("nodes", countNodes(doc)))

				return os.WriteFile(args[1], text, 0o644)
			},
		},
		&cobra.Command{
			Use:   "encode IN.xml OUT.bixf",
			Short: "Encode an XML file as BIXF",
			Args:  cobra.ExactArgs(2),
			RunE: func(_ *cobra.Command, args []string) error {
				text, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}

				doc, err := bixf.FromXML(text)
				if err != nil {
					return fmt.Errorf("%s: %w", args[0], err)
				}

				g.logger.Debug("encoding tree", zap.String("path", args[1]), zap.Int("nodes", countNodes(doc)))

				return relo.SaveTree(doc, args[1])
			},
		},
	)

	return cmd
}

func countNodes(doc *bixf.Document) int {
	n := 0
	doc.Walk(func(*bixf.Node, int) bool {
		n++
		return true
	})

	return n
}
