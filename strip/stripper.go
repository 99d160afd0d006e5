package strip

// Stripper groups triangles into strips. Each returned strip must hold at
// least three indices and decode back to its triangles with Decode.
type Stripper interface {
	Strip(tris []Triangle) ([][]uint16, error)
}

// StripperFunc adapts a function to the Stripper interface.
type StripperFunc func(tris []Triangle) ([][]uint16, error)

// Strip calls f(tris).
func (f StripperFunc) Strip(tris []Triangle) ([][]uint16, error) {
	return f(tris)
}

// ListStripper emits every non-degenerate triangle as its own strip.
type ListStripper struct{}

// Strip implements Stripper.
func (ListStripper) Strip(tris []Triangle) ([][]uint16, error) {
	out := make([][]uint16, 0, len(tris))
	for _, t := range tris {
		if t.Degenerate() {
			continue
		}
		out = append(out, []uint16{t[0], t[1], t[2]})
	}

	return out, nil
}

// GreedyStripper extends the current strip with the next input triangle
// whenever the strip would decode to that exact triangle. Triangle order and
// vertex order are preserved.
type GreedyStripper struct{}

// Strip implements Stripper.
func (GreedyStripper) Strip(tris []Triangle) ([][]uint16, error) {
	var (
		out    [][]uint16
		cur    []uint16
		parity int
	)

	for _, t := range tris {
		if t.Degenerate() {
			continue
		}

		if len(cur) >= 3 {
			if idx, ok := continues(cur[len(cur)-2], cur[len(cur)-1], parity, t); ok {
				cur = append(cur, idx)
				parity++

				continue
			}
			out = append(out, cur)
		}

		cur = []uint16{t[0], t[1], t[2]}
		parity = 1
	}

	if len(cur) >= 3 {
		out = append(out, cur)
	}

	return out, nil
}

// continues reports whether appending one index to a strip ending in a, b
// decodes to exactly t. parity is the index of that next triangle within the
// strip. Rotations of t are not matched since Decode would return them rotated.
func continues(a, b uint16, parity int, t Triangle) (uint16, bool) {
	x, y := a, b
	if parity%2 != 0 {
		x, y = b, a
	}

	if t[0] == x && t[1] == y {
		return t[2], true
	}

	return 0, false
}
