// Package surface defines the boundary to the compositor protocol layer.
// The layout tree never talks to the display server directly; it holds
// opaque Surface capabilities and issues activation and visibility-mask
// writes through them.
package surface

// Geometry is a position and size in the global coordinate space.
type Geometry struct {
	X      int32
	Y      int32
	Width  uint32
	Height uint32
}

// Visibility masks passed to SetVisibleMask. The compositor composites a
// surface only when its mask is non-zero.
const (
	MaskHidden uint32 = 0
	MaskShown  uint32 = 1
)

// Surface is an opaque reference to a displayable unit: an output
// (monitor) or a window's surface. Implementations live in the
// compositor integration, outside this module.
type Surface interface {
	// Geometry returns the surface's current position and size. This may
	// cross into the display layer and should not be called while
	// holding the layout tree lock.
	Geometry() Geometry

	// SetActivated marks the surface as the active (focused) one.
	SetActivated(activated bool)

	// SetVisibleMask controls whether the surface is composited.
	SetVisibleMask(mask uint32)

	// ForEachSurface visits the primary surface and all of its
	// sub-surfaces, calling fn once per surface with the sub-surface's
	// offset relative to the root surface.
	ForEachSurface(fn func(s Surface, dx, dy int32))
}
