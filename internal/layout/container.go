// Package layout implements the container tree of the window manager:
// the node hierarchy root → output → workspace → container → view, the
// structural invariants under which nodes may be linked, and the
// workspace manager that mutates the tree on behalf of external
// callers.
package layout

import (
	"github.com/google/uuid"

	"github.com/alderwm/alder/internal/surface"
)

// NodeType tags what a container represents in the tree.
type NodeType int

const (
	// NodeRoot is the single root of the tree. Exactly one exists.
	NodeRoot NodeType = iota
	// NodeOutput is a physical display. Children of root only.
	NodeOutput
	// NodeWorkspace is a virtual desktop on an output.
	NodeWorkspace
	// NodeContainer groups views and other containers inside a workspace.
	NodeContainer
	// NodeView is a single window. Views never have children.
	NodeView
)

func (t NodeType) String() string {
	switch t {
	case NodeRoot:
		return "root"
	case NodeOutput:
		return "output"
	case NodeWorkspace:
		return "workspace"
	case NodeContainer:
		return "container"
	case NodeView:
		return "view"
	default:
		return "unknown"
	}
}

// LayoutMode is the tiling mode tag stored on a container. The tree
// stores and reports it; geometry computation from the mode happens in
// a later layer.
type LayoutMode int

const (
	LayoutNone LayoutMode = iota
	LayoutHorizontal
	LayoutVertical
	LayoutStacked
	LayoutTabbed
	LayoutFloating
)

func (l LayoutMode) String() string {
	switch l {
	case LayoutHorizontal:
		return "horizontal"
	case LayoutVertical:
		return "vertical"
	case LayoutStacked:
		return "stacked"
	case LayoutTabbed:
		return "tabbed"
	case LayoutFloating:
		return "floating"
	default:
		return "none"
	}
}

// ParseLayoutMode maps a config string to a LayoutMode. Unknown strings
// map to LayoutNone.
func ParseLayoutMode(s string) LayoutMode {
	switch s {
	case "horizontal":
		return LayoutHorizontal
	case "vertical":
		return LayoutVertical
	case "stacked":
		return LayoutStacked
	case "tabbed":
		return LayoutTabbed
	case "floating":
		return LayoutFloating
	default:
		return LayoutNone
	}
}

// HandleKind distinguishes what a container's surface capability points
// at.
type HandleKind int

const (
	// HandleOutput wraps a monitor's surface.
	HandleOutput HandleKind = iota
	// HandleView wraps a window's surface.
	HandleView
)

// Handle is the external surface capability a node wraps. Root and
// plain containers have none; workspaces and containers inherit their
// output's handle for geometry queries.
type Handle struct {
	Kind    HandleKind
	Surface surface.Surface
}

// canAttach declares, in one place, which node types may be linked
// under which parents. Every constructor and AddChild checks it, so
// the legal tree shape cannot drift between call sites.
var canAttach = map[NodeType][]NodeType{
	NodeRoot:      nil,
	NodeOutput:    {NodeRoot},
	NodeWorkspace: {NodeOutput},
	NodeContainer: {NodeWorkspace, NodeContainer},
	NodeView:      {NodeWorkspace, NodeContainer},
}

func attachable(child, parent NodeType) bool {
	for _, p := range canAttach[child] {
		if p == parent {
			return true
		}
	}
	return false
}

// Container is a node in the layout tree. A parent exclusively owns its
// children; the parent link is a back-reference that is severed when
// the subtree is destroyed, so resolving it on a destroyed node yields
// nil rather than a dangling node.
//
// Containers are not internally locked. All concurrent access goes
// through the Manager, which guards the whole tree with one lock.
type Container struct {
	id       uuid.UUID
	nodeType NodeType
	handle   *Handle
	parent   *Container
	children []*Container

	layout   LayoutMode
	label    string
	visible  bool
	focused  bool
	floating bool

	// Output resolution captured at creation. Outputs report their
	// dimensions from this snapshot so geometry queries never cross
	// into the display layer while the tree lock is held.
	width  uint32
	height uint32
}

func newContainer(t NodeType) *Container {
	return &Container{
		id:       uuid.New(),
		nodeType: t,
	}
}

// NewRoot allocates the root container. There should be exactly one per
// tree; the Manager enforces that by constructing it once.
func NewRoot() *Container {
	return newContainer(NodeRoot)
}

// NewOutput creates an output under the root. Panics with an invariant
// error if parent is not the root: outputs hang directly off the root,
// nowhere else. The output's current resolution is captured at
// creation.
func NewOutput(parent *Container, s surface.Surface) *Container {
	return newOutput(parent, s, s.Geometry())
}

// newOutput links an output using a resolution snapshot taken by the
// caller, so the Manager can query the display layer before taking the
// tree lock.
func newOutput(parent *Container, s surface.Surface, geom surface.Geometry) *Container {
	if parent.nodeType != NodeRoot {
		invariant("NewOutput", "output must be a child of root, got %s", parent.nodeType)
	}
	c := newContainer(NodeOutput)
	c.handle = &Handle{Kind: HandleOutput, Surface: s}
	c.width = geom.Width
	c.height = geom.Height
	link(parent, c)
	return c
}

// NewWorkspace creates a workspace under an output. Panics with an
// invariant error for any other parent type. The workspace inherits
// the output's handle.
func NewWorkspace(parent *Container) *Container {
	if parent.nodeType != NodeOutput {
		invariant("NewWorkspace", "workspace must be a child of an output, got %s", parent.nodeType)
	}
	c := newContainer(NodeWorkspace)
	c.handle = parent.handle
	link(parent, c)
	return c
}

// NewContainer creates a grouping container under a workspace or
// another container. Panics with an invariant error otherwise. The
// container inherits the nearest ancestor output's handle so later
// geometry queries have somewhere to go.
func NewContainer(parent *Container) *Container {
	if parent.nodeType != NodeContainer && parent.nodeType != NodeWorkspace {
		invariant("NewContainer", "container must be a child of a workspace or container, got %s", parent.nodeType)
	}
	c := newContainer(NodeContainer)
	c.handle = parent.outputHandle()
	link(parent, c)
	return c
}

// NewView creates a view for a mapped window. Under a workspace the
// view becomes a direct child. Under a container the view is promoted
// one level and inserted as a sibling of that container: new windows
// tile next to the focused container, they do not nest inside it.
// Panics with an invariant error for a root, output, or view parent.
func NewView(parent *Container, s surface.Surface) *Container {
	c := newContainer(NodeView)
	c.handle = &Handle{Kind: HandleView, Surface: s}

	switch parent.nodeType {
	case NodeWorkspace:
		link(parent, c)
	case NodeContainer:
		gp := parent.Parent()
		if gp == nil {
			invariant("NewView", "container parent is orphaned, cannot promote view to sibling")
		}
		link(gp, c)
	default:
		invariant("NewView", "view cannot be a child of %s", parent.nodeType)
	}
	return c
}

// link appends child to parent's children after the attach table has
// been consulted by the caller.
func link(parent, child *Container) {
	child.parent = parent
	parent.children = append(parent.children, child)
}

// AddChild appends child to this container's children, at the end of
// the stacking order. Returns an invariant error if the edge is
// illegal: views cannot gain children, workspaces cannot nest, and a
// node still linked under another parent must be detached first, or it
// would appear in two child sequences at once.
func (c *Container) AddChild(child *Container) error {
	if c.nodeType == NodeView {
		return invariantErr("AddChild", "view cannot have children")
	}
	if c.nodeType == NodeWorkspace && child.nodeType == NodeWorkspace {
		return invariantErr("AddChild", "workspace cannot be nested under a workspace")
	}
	if !attachable(child.nodeType, c.nodeType) {
		return invariantErr("AddChild", "%s cannot be a child of %s", child.nodeType, c.nodeType)
	}
	if child.parent != nil {
		return invariantErr("AddChild", "%s is still attached to a parent, detach it first", child.nodeType)
	}
	link(c, child)
	return nil
}

// AddSibling inserts node next to this container, under its parent.
// Returns an invariant error on the root (the root has no parent to
// insert relative to) and a not-found error when the parent has been
// destroyed in the meantime.
func (c *Container) AddSibling(node *Container) error {
	if c.nodeType == NodeRoot {
		return invariantErr("AddSibling", "root has no siblings")
	}
	parent := c.Parent()
	if parent == nil {
		return notFoundErr("AddSibling", "parent already destroyed")
	}
	return parent.AddChild(node)
}

// RemoveContainer detaches this container from its parent and destroys
// the entire subtree below it. The root and workspaces are not
// removable this way; a workspace only goes away with its output.
func (c *Container) RemoveContainer() error {
	switch c.nodeType {
	case NodeRoot:
		return invariantErr("RemoveContainer", "cannot remove root")
	case NodeWorkspace:
		return invariantErr("RemoveContainer", "workspace is only removed with its output")
	}
	parent := c.Parent()
	if parent == nil {
		return notFoundErr("RemoveContainer", "parent already destroyed")
	}
	if !parent.detach(c) {
		return notFoundErr("RemoveContainer", "%s not present in parent's children", c.nodeType)
	}
	c.destroy()
	return nil
}

// destroy severs the whole subtree: every node loses its parent link
// and its children. A reference held to any of these nodes afterwards
// resolves its parent to nil, never to a stale tree.
func (c *Container) destroy() {
	for _, child := range c.children {
		child.destroy()
	}
	c.parent = nil
	c.children = nil
}

// detach removes child from c's children by pointer identity.
func (c *Container) detach(child *Container) bool {
	for i, cur := range c.children {
		if cur == child {
			c.children = append(c.children[:i], c.children[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveChildAt detaches and returns the child at index. The detached
// node keeps its own subtree and becomes an independently rooted tree.
// Removing a workspace by index is an invariant error; an out-of-range
// index is a not-found error.
func (c *Container) RemoveChildAt(index int) (*Container, error) {
	if index < 0 || index >= len(c.children) {
		return nil, notFoundErr("RemoveChildAt", "index %d out of range (%d children)", index, len(c.children))
	}
	child := c.children[index]
	if child.nodeType == NodeWorkspace {
		return nil, invariantErr("RemoveChildAt", "workspace is only removed with its output")
	}
	c.children = append(c.children[:index], c.children[index+1:]...)
	child.parent = nil
	return child, nil
}

// RemoveChild detaches and returns the first child structurally equal
// to node. Structural equality is node-type equality only: callers that
// need to remove one exact node must locate it by pointer identity
// (RemoveChildAt with a known index, or RemoveContainer on the node
// itself).
func (c *Container) RemoveChild(node *Container) (*Container, error) {
	for i, child := range c.children {
		if child.nodeType != node.nodeType {
			continue
		}
		if child.nodeType == NodeWorkspace {
			return nil, invariantErr("RemoveChild", "workspace is only removed with its output")
		}
		c.children = append(c.children[:i], c.children[i+1:]...)
		child.parent = nil
		return child, nil
	}
	return nil, notFoundErr("RemoveChild", "no %s child found", node.nodeType)
}

// Parent returns the container this one sits in: nil for the root and
// nil when the parent has been destroyed. Callers must treat a nil
// parent on a non-root node as "orphaned", not as corruption.
func (c *Container) Parent() *Container {
	if c.nodeType == NodeRoot {
		return nil
	}
	return c.parent
}

// Children returns a copy of the child sequence in stacking order, or
// nil for views: a view has no children by definition, which is not an
// error.
func (c *Container) Children() []*Container {
	if c.nodeType == NodeView {
		return nil
	}
	out := make([]*Container, len(c.children))
	copy(out, c.children)
	return out
}

// ID returns the container's stable identifier.
func (c *Container) ID() uuid.UUID { return c.id }

// Type returns the container's node type.
func (c *Container) Type() NodeType { return c.nodeType }

// Handle returns the surface capability this node wraps, or nil for
// node types without one.
func (c *Container) Handle() *Handle { return c.handle }

// IsRoot reports whether this is the root container.
func (c *Container) IsRoot() bool { return c.nodeType == NodeRoot }

// IsFocused reports whether this container currently has focus.
func (c *Container) IsFocused() bool { return c.focused }

// SetFocused updates the focus flag. Focus propagation across the tree
// is the Manager's job.
func (c *Container) SetFocused(focused bool) { c.focused = focused }

// IsFloating reports whether the container is floating rather than
// tiled.
func (c *Container) IsFloating() bool { return c.floating }

// SetFloating updates the floating flag.
func (c *Container) SetFloating(floating bool) { c.floating = floating }

// Visibility reports the cached visibility of the container.
func (c *Container) Visibility() bool { return c.visible }

// SetVisibility sets the cached visibility of the container.
func (c *Container) SetVisibility(visible bool) { c.visible = visible }

// Layout returns the container's layout mode tag.
func (c *Container) Layout() LayoutMode { return c.layout }

// SetLayout sets the container's layout mode tag.
func (c *Container) SetLayout(mode LayoutMode) { c.layout = mode }

// Label returns the display label (set on workspaces).
func (c *Container) Label() string { return c.label }

// SetLabel sets the display label.
func (c *Container) SetLabel(label string) { c.label = label }

// Dimensions returns the node's size: the captured resolution for an
// output, the surface geometry for a view, and the owning output's
// current geometry for workspaces and containers, resolved through the
// handle they inherited at creation. The root has no dimensions.
func (c *Container) Dimensions() (width, height uint32, ok bool) {
	switch c.nodeType {
	case NodeOutput:
		return c.width, c.height, true
	case NodeView:
		geom := c.handle.Surface.Geometry()
		return geom.Width, geom.Height, true
	case NodeWorkspace, NodeContainer:
		if c.handle == nil {
			return 0, 0, false
		}
		geom := c.handle.Surface.Geometry()
		return geom.Width, geom.Height, true
	default:
		return 0, 0, false
	}
}

// Position returns the node's position on screen. Only views have one:
// an output has no position within itself, and handle-less node types
// have no geometry at all.
func (c *Container) Position() (x, y int32, ok bool) {
	if c.nodeType != NodeView {
		return 0, 0, false
	}
	geom := c.handle.Surface.Geometry()
	return geom.X, geom.Y, true
}

// IsParentOf reports whether c is an ancestor of candidate. The root is
// vacuously an ancestor of everything.
func (c *Container) IsParentOf(candidate *Container) bool {
	if c.nodeType == NodeRoot {
		return true
	}
	for p := candidate.Parent(); p != nil; p = p.Parent() {
		if p == c {
			return true
		}
	}
	return false
}

// IsChildOf reports whether c is a descendant of candidate.
func (c *Container) IsChildOf(candidate *Container) bool {
	return candidate.IsParentOf(c)
}

// ParentByType walks the parent chain upward and returns the first
// ancestor of the given type, or nil when the chain ends without a
// match.
func (c *Container) ParentByType(t NodeType) *Container {
	for p := c.Parent(); p != nil; p = p.Parent() {
		if p.nodeType == t {
			return p
		}
	}
	return nil
}

// outputHandle resolves the handle of the nearest ancestor output, or
// this node's own handle when it already carries the output's.
func (c *Container) outputHandle() *Handle {
	if c.handle != nil && c.handle.Kind == HandleOutput {
		return c.handle
	}
	if out := c.ParentByType(NodeOutput); out != nil {
		return out.handle
	}
	return nil
}
