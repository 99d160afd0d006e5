// Package strip converts between triangle lists and the 16-bit triangle-strip
// face streams stored in submesh records.
//
// A face stream is a flat index list. 0xFFFF restarts the strip. Inside a
// strip every new index forms a triangle with the two before it, alternating
// winding so all triangles keep the same orientation. Triangles with a
// repeated index are degenerate and dropped.
package strip

import (
	"fmt"

	"github.com/arloliu/relo/errs"
)

// Restart is the strip reset sentinel.
const Restart uint16 = 0xFFFF

// Triangle is three vertex indices in winding order.
type Triangle [3]uint16

// Degenerate reports whether two corners share an index.
func (t Triangle) Degenerate() bool {
	return t[0] == t[1] || t[1] == t[2] || t[0] == t[2]
}

// Decode expands a face stream into triangles.
//
// The decoder keeps the last three indices in a shift register. It emits a
// triangle once three indices of the current strip have been seen; even
// triangles are (r0, r1, r2), odd ones (r1, r0, r2).
func Decode(stream []uint16) []Triangle {
	out := make([]Triangle, 0, len(stream))

	var r [3]uint16
	newStrip := 3
	parity := 0

	for _, idx := range stream {
		if idx == Restart {
			newStrip = 3
			parity = 0
			continue
		}

		r[0], r[1], r[2] = r[1], r[2], idx

		newStrip--
		if newStrip > 0 {
			continue
		}
		newStrip = 1

		var tri Triangle
		if parity%2 == 0 {
			tri = Triangle{r[0], r[1], r[2]}
		} else {
			tri = Triangle{r[1], r[0], r[2]}
		}
		parity++

		if !tri.Degenerate() {
			out = append(out, tri)
		}
	}

	return out
}

// Encode turns triangles into a face stream using s, joining strips with
// Restart. The stream never ends with Restart. A nil s uses ListStripper.
func Encode(tris []Triangle, s Stripper) ([]uint16, error) {
	if s == nil {
		s = ListStripper{}
	}

	for i, tri := range tris {
		for _, idx := range tri {
			if idx == Restart {
				return nil, fmt.Errorf("%w: triangle %d uses reserved index 0x%x", errs.ErrIndexOverflow, i, idx)
			}
		}
	}

	strips, err := s.Strip(tris)
	if err != nil {
		return nil, err
	}

	stream := make([]uint16, 0, len(tris)*4)
	for i, st := range strips {
		if len(st) < 3 {
			return nil, fmt.Errorf("%w: strip %d has %d indices", errs.ErrInvalidStrip, i, len(st))
		}

		stream = append(stream, st...)
		stream = append(stream, Restart)
	}

	for len(stream) > 0 && stream[len(stream)-1] == Restart {
		stream = stream[:len(stream)-1]
	}

	return stream, nil
}
