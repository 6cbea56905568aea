package surface

import "sync"

// Fake is an in-memory Surface for tests and for running the daemon
// without a compositor attached. It records every mask and activation
// write so tests can assert on the exact sequence.
type Fake struct {
	mu   sync.Mutex
	geom Geometry

	mask      uint32
	activated bool

	maskWrites []uint32
	subs       []*Fake
	offsets    [][2]int32
}

// NewFake creates a fake surface with the given geometry, shown by
// default.
func NewFake(geom Geometry) *Fake {
	return &Fake{geom: geom, mask: MaskShown}
}

// NewFakeOutput creates a fake output surface with the given resolution
// at origin.
func NewFakeOutput(width, height uint32) *Fake {
	return NewFake(Geometry{Width: width, Height: height})
}

// AddSub attaches a sub-surface at the given offset.
func (f *Fake) AddSub(sub *Fake, dx, dy int32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, sub)
	f.offsets = append(f.offsets, [2]int32{dx, dy})
}

func (f *Fake) Geometry() Geometry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.geom
}

// SetGeometry moves or resizes the fake surface.
func (f *Fake) SetGeometry(geom Geometry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.geom = geom
}

func (f *Fake) SetActivated(activated bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activated = activated
}

// Activated reports the last activation state written.
func (f *Fake) Activated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.activated
}

func (f *Fake) SetVisibleMask(mask uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mask = mask
	f.maskWrites = append(f.maskWrites, mask)
}

// Mask reports the current visibility mask.
func (f *Fake) Mask() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mask
}

// MaskWrites returns every mask value written, in order.
func (f *Fake) MaskWrites() []uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]uint32, len(f.maskWrites))
	copy(out, f.maskWrites)
	return out
}

func (f *Fake) ForEachSurface(fn func(s Surface, dx, dy int32)) {
	f.mu.Lock()
	subs := make([]*Fake, len(f.subs))
	copy(subs, f.subs)
	offsets := make([][2]int32, len(f.offsets))
	copy(offsets, f.offsets)
	f.mu.Unlock()

	fn(f, 0, 0)
	for i, sub := range subs {
		fn(sub, offsets[i][0], offsets[i][1])
	}
}
