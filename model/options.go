package model

import (
	"github.com/arloliu/relo/strip"
)

// WriteOptions tunes how geometry is emitted.
type WriteOptions struct {
	// FixForPC widens packed vertex elements before the stride is computed.
	FixForPC bool
	// Stripper groups submesh triangles into strips. Nil emits one strip per triangle.
	Stripper strip.Stripper
}
