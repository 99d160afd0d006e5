// Command relo inspects and converts relocatable pointer-graph asset files
// and BIXF trees.
//
// Usage:
//
//	relo inspect hero.mdl
//	relo repack hero.mdl hero_pc.mdl --fix-for-pc --relocs bbin --compress zstd
//	relo bixf decode skin.bixf skin.xml
//	relo bixf encode skin.xml skin.bixf
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
