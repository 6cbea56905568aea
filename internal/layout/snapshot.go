package layout

import (
	"github.com/alderwm/alder/internal/surface"
)

// Node is a point-in-time copy of one container, safe to serialize and
// hand to the control socket or the presentation layer without holding
// any tree lock.
type Node struct {
	ID       string            `json:"id"`
	Type     string            `json:"type"`
	Layout   string            `json:"layout"`
	Label    string            `json:"label,omitempty"`
	Focused  bool              `json:"focused"`
	Visible  bool              `json:"visible"`
	Floating bool              `json:"floating"`
	Geometry *surface.Geometry `json:"geometry,omitempty"`
	Children []*Node           `json:"children,omitempty"`
}

// Snapshot copies the whole tree into a Node hierarchy. The structure
// is captured under the read lock; view surface geometry is queried
// afterwards, so a slow display layer never extends the lock hold time.
func (m *Manager) Snapshot() *Node {
	type pending struct {
		node *Node
		s    surface.Surface
	}
	var views []pending

	m.mu.RLock()
	var walk func(c *Container) *Node
	walk = func(c *Container) *Node {
		n := &Node{
			ID:       c.id.String(),
			Type:     c.nodeType.String(),
			Layout:   c.layout.String(),
			Label:    c.label,
			Focused:  c.focused,
			Visible:  c.visible,
			Floating: c.floating,
		}
		switch c.nodeType {
		case NodeOutput:
			n.Geometry = &surface.Geometry{Width: c.width, Height: c.height}
		case NodeView:
			if c.handle != nil {
				views = append(views, pending{node: n, s: c.handle.Surface})
			}
		}
		for _, child := range c.children {
			n.Children = append(n.Children, walk(child))
		}
		return n
	}
	root := walk(m.root)
	m.mu.RUnlock()

	for _, p := range views {
		geom := p.s.Geometry()
		p.node.Geometry = &geom
	}
	return root
}

// BorderGeometry returns the outer and inner rectangles the
// presentation layer needs to redraw a view's border: the view's
// surface geometry expanded by thickness on each side, and the surface
// geometry itself.
func BorderGeometry(view *Container, thickness uint32) (outer, inner surface.Geometry, ok bool) {
	if view.Type() != NodeView || view.Handle() == nil {
		return outer, inner, false
	}
	inner = view.Handle().Surface.Geometry()
	t := int32(thickness)
	outer = surface.Geometry{
		X:      inner.X - t,
		Y:      inner.Y - t,
		Width:  inner.Width + 2*thickness,
		Height: inner.Height + 2*thickness,
	}
	return outer, inner, true
}
