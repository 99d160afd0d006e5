package strip

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/relo/errs"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		stream []uint16
		want   []Triangle
	}{
		{
			name:   "Two strips with resets",
			stream: []uint16{0, 1, 2, 0xFFFF, 3, 4, 5, 6, 0xFFFF},
			want:   []Triangle{{0, 1, 2}, {3, 4, 5}, {5, 4, 6}},
		},
		{
			name:   "Long strip alternates winding",
			stream: []uint16{0, 1, 2, 3, 4},
			want:   []Triangle{{0, 1, 2}, {2, 1, 3}, {2, 3, 4}},
		},
		{
			name:   "Degenerate dropped, parity kept",
			stream: []uint16{0, 1, 1, 2, 3},
			want:   []Triangle{{1, 2, 3}},
		},
		{
			name:   "Too short",
			stream: []uint16{0, 1},
			want:   []Triangle{},
		},
		{
			name:   "Reset before three indices",
			stream: []uint16{0, 1, 0xFFFF, 2, 3, 4},
			want:   []Triangle{{2, 3, 4}},
		},
		{
			name:   "Empty",
			stream: nil,
			want:   []Triangle{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Decode(tt.stream))
		})
	}
}

func TestEncode_ListStripper(t *testing.T) {
	tris := []Triangle{{0, 1, 2}, {2, 1, 3}, {4, 4, 5}}

	stream, err := Encode(tris, nil)
	require.NoError(t, err)
	require.Equal(t, []uint16{0, 1, 2, 0xFFFF, 2, 1, 3}, stream)
	require.Equal(t, []Triangle{{0, 1, 2}, {2, 1, 3}}, Decode(stream))

	stream, err = Encode(nil, ListStripper{})
	require.NoError(t, err)
	require.Empty(t, stream)
}

func TestEncode_GreedyStripper(t *testing.T) {
	// a quad grid row: consecutive triangles share an edge in strip order
	tris := []Triangle{{0, 1, 2}, {2, 1, 3}, {2, 3, 4}, {4, 3, 5}, {10, 11, 12}}

	stream, err := Encode(tris, GreedyStripper{})
	require.NoError(t, err)
	require.Equal(t, []uint16{0, 1, 2, 3, 4, 5, 0xFFFF, 10, 11, 12}, stream)
	require.Equal(t, tris, Decode(stream))

	tests := []struct {
		name   string
		tris   []Triangle
		stream []uint16
	}{
		{
			name:   "Rotated continuation starts a new strip",
			tris:   []Triangle{{0, 1, 2}, {1, 3, 2}},
			stream: []uint16{0, 1, 2, 0xFFFF, 1, 3, 2},
		},
		{
			name:   "Rotated first triangle",
			tris:   []Triangle{{1, 2, 0}, {2, 3, 0}},
			stream: []uint16{1, 2, 0, 0xFFFF, 2, 3, 0},
		},
		{
			name:   "Odd parity swaps the shared edge",
			tris:   []Triangle{{0, 1, 2}, {2, 1, 3}},
			stream: []uint16{0, 1, 2, 3},
		},
		{
			name:   "Even parity keeps the shared edge",
			tris:   []Triangle{{0, 1, 2}, {1, 2, 3}},
			stream: []uint16{0, 1, 2, 0xFFFF, 1, 2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stream, err := Encode(tt.tris, GreedyStripper{})
			require.NoError(t, err)
			require.Equal(t, tt.stream, stream)
			require.Equal(t, tt.tris, Decode(stream))
		})
	}
}

func TestEncode_RandomRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for _, s := range []Stripper{ListStripper{}, GreedyStripper{}} {
		for range 50 {
			n := rng.IntN(40)
			tris := make([]Triangle, 0, n)
			for len(tris) < n {
				tri := Triangle{uint16(rng.IntN(8)), uint16(rng.IntN(8)), uint16(rng.IntN(8))}
				if !tri.Degenerate() {
					tris = append(tris, tri)
				}
			}

			stream, err := Encode(tris, s)
			require.NoError(t, err)
			if len(stream) > 0 {
				require.NotEqual(t, Restart, stream[len(stream)-1])
			}
			require.Equal(t, tris, Decode(stream))
		}
	}
}

func TestEncode_Errors(t *testing.T) {
	_, err := Encode([]Triangle{{0, 1, 0xFFFF}}, nil)
	require.ErrorIs(t, err, errs.ErrIndexOverflow)

	short := StripperFunc(func([]Triangle) ([][]uint16, error) {
		return [][]uint16{{1, 2}}, nil
	})
	_, err = Encode([]Triangle{{0, 1, 2}}, short)
	require.ErrorIs(t, err, errs.ErrInvalidStrip)

	boom := errors.New("boom")
	failing := StripperFunc(func([]Triangle) ([][]uint16, error) {
		return nil, boom
	})
	_, err = Encode([]Triangle{{0, 1, 2}}, failing)
	require.ErrorIs(t, err, boom)
}
