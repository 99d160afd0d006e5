package model

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/arloliu/relo/cursor"
	"github.com/arloliu/relo/errs"
	"github.com/arloliu/relo/record"
)

// On-disk record sizes.
const (
	AnimationSize    = 16
	TrackSize        = 12
	KeyframeSize     = 20
	HalfKeyframeSize = 12
)

// trackFlagHalf marks keyframe values stored as half floats.
const trackFlagHalf = 1 << 0

// TrackKind selects which bone channel a track animates.
type TrackKind uint8

const (
	TrackRotation TrackKind = iota
	TrackTranslation
	TrackScale
)

var trackKindNames = [...]string{"rotation", "translation", "scale"}

func (k TrackKind) String() string {
	if int(k) >= len(trackKindNames) {
		return fmt.Sprintf("track(%d)", uint8(k))
	}

	return trackKindNames[k]
}

// Keyframe is one sample of a track. Rotations are quaternions (x, y, z, w);
// translations and scales use the first three components.
type Keyframe struct {
	Time  float32
	Value mgl32.Vec4
}

// Track animates one channel of one bone.
type Track struct {
	Bone uint16
	Kind TrackKind
	// Half stores keyframe values as half floats.
	Half bool
	Keys []Keyframe
}

// Animation is a named set of tracks.
type Animation struct {
	Name     string
	Duration float32
	Tracks   []*Track
}

func (t *Track) keySize() uint32 {
	if t.Half {
		return HalfKeyframeSize
	}

	return KeyframeSize
}

// ReadTrack reads a track and its keyframes.
func ReadTrack(c *cursor.Cursor) (*Track, error) {
	f := record.NewFields(c)
	t := &Track{
		Bone: f.U16(),
		Kind: TrackKind(f.U8()),
	}
	flags := f.U8()
	keyCount := f.U32()
	keysAddr := f.Address()
	if err := f.Err(); err != nil {
		return nil, err
	}

	if t.Kind > TrackScale {
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedVariant, t.Kind)
	}
	t.Half = flags&trackFlagHalf != 0

	if keyCount == 0 {
		return t, nil
	}

	if err := record.CheckSpan(c, keysAddr, uint64(keyCount)*uint64(t.keySize())); err != nil {
		return nil, err
	}

	if err := c.Seek(keysAddr); err != nil {
		return nil, err
	}

	t.Keys = make([]Keyframe, keyCount)
	kf := record.NewFields(c)
	for i := range t.Keys {
		t.Keys[i].Time = kf.F32()
		for j := range t.Keys[i].Value {
			if t.Half {
				t.Keys[i].Value[j] = kf.F16()
			} else {
				t.Keys[i].Value[j] = kf.F32()
			}
		}
	}

	return t, kf.Err()
}

// Write appends the track with its keyframes and returns its address.
func (t *Track) Write(c *cursor.Cursor) (cursor.Address, error) {
	h, err := record.Reserve(c, TrackSize)
	if err != nil {
		return 0, err
	}

	var keys cursor.Address
	if len(t.Keys) > 0 {
		kp, err := record.Reserve(c, len(t.Keys)*int(t.keySize()))
		if err != nil {
			return 0, err
		}
		keys = kp.Base()

		if err := c.Seek(keys); err != nil {
			return 0, err
		}

		for _, k := range t.Keys {
			if err := c.WriteF32(k.Time); err != nil {
				return 0, err
			}

			for _, v := range k.Value {
				if t.Half {
					err = c.WriteF16(v)
				} else {
					err = c.WriteF32(v)
				}
				if err != nil {
					return 0, err
				}
			}
		}
	}

	var flags uint8
	if t.Half {
		flags |= trackFlagHalf
	}

	if err := h.U16(0, t.Bone); err != nil {
		return 0, err
	}

	if err := h.U8(2, uint8(t.Kind)); err != nil {
		return 0, err
	}

	if err := h.U8(3, flags); err != nil {
		return 0, err
	}

	if err := h.U32(4, uint32(len(t.Keys))); err != nil {
		return 0, err
	}

	if err := h.Address(8, keys); err != nil {
		return 0, err
	}

	return h.Base(), h.Done()
}

// ReadAnimation reads an animation and its tracks.
func ReadAnimation(c *cursor.Cursor) (*Animation, error) {
	f := record.NewFields(c)
	nameAddr := f.Address()
	a := &Animation{Duration: f.F32()}
	trackCount := f.U32()
	trackTable := f.Address()
	if err := f.Err(); err != nil {
		return nil, err
	}

	var err error
	if a.Name, err = record.ReadStringAt(c, nameAddr); err != nil {
		return nil, err
	}

	if a.Tracks, err = record.ReadTable(c, trackTable, trackCount, ReadTrack); err != nil {
		return nil, err
	}

	return a, nil
}

// Write appends the animation and returns its address.
func (a *Animation) Write(c *cursor.Cursor) (cursor.Address, error) {
	h, err := record.Reserve(c, AnimationSize)
	if err != nil {
		return 0, err
	}

	name, err := record.WriteString(c, a.Name)
	if err != nil {
		return 0, err
	}

	tracks, err := record.WriteTable(c, a.Tracks, (*Track).Write)
	if err != nil {
		return 0, err
	}

	if err := h.Address(0, name); err != nil {
		return 0, err
	}

	if err := h.F32(4, a.Duration); err != nil {
		return 0, err
	}

	if err := h.U32(8, uint32(len(a.Tracks))); err != nil {
		return 0, err
	}

	if err := h.Address(12, tracks); err != nil {
		return 0, err
	}

	return h.Base(), h.Done()
}
