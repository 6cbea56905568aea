package layout

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/alderwm/alder/internal/logger"
	"github.com/alderwm/alder/internal/surface"
)

// Manager owns the layout tree and the active workspace index. It is
// the single entry point for every external caller: the compositor
// event loop, the control socket, and the scripting runtime all mutate
// the tree through it, concurrently.
//
// One RWMutex guards both the tree and the index. Every public
// operation acquires, mutates, and releases within one call, and the
// index is only ever updated inside the same critical section as the
// tree edit it belongs to, so readers never observe a torn state.
type Manager struct {
	mu sync.RWMutex

	root   *Container
	active int

	workspacesPerOutput int
	defaultLayout       LayoutMode
}

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithWorkspacesPerOutput sets how many workspaces are created for each
// new output. The default is two.
func WithWorkspacesPerOutput(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.workspacesPerOutput = n
		}
	}
}

// WithDefaultLayout sets the layout mode assigned to new workspaces.
func WithDefaultLayout(mode LayoutMode) Option {
	return func(m *Manager) {
		m.defaultLayout = mode
	}
}

// NewManager creates a manager with a fresh root. Each instance owns an
// independent tree; tests construct their own.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		root:                NewRoot(),
		workspacesPerOutput: 2,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Root returns the root container. Exposed for traversal; mutation must
// go through the manager's operations.
func (m *Manager) Root() *Container {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.root
}

// AddOutput creates an output under the root and populates it with the
// configured number of default workspaces. The output's resolution is
// snapshotted before the tree lock is taken.
func (m *Manager) AddOutput(s surface.Surface) *Container {
	geom := s.Geometry()

	m.mu.Lock()
	defer m.mu.Unlock()

	out := newOutput(m.root, s, geom)
	for i := 0; i < m.workspacesPerOutput; i++ {
		m.addWorkspaceLocked(out)
	}
	logger.Info("output added", "resolution", fmt.Sprintf("%dx%d", geom.Width, geom.Height), "workspaces", m.workspacesPerOutput)
	return out
}

// AddWorkspace creates a workspace under the first output. Returns a
// not-found error when no output is attached yet.
func (m *Manager) AddWorkspace() (*Container, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.firstOutputLocked()
	if out == nil {
		return nil, notFoundErr("AddWorkspace", "no output attached")
	}
	ws := m.addWorkspaceLocked(out)
	logger.Debug("workspace added", "label", ws.Label())
	return ws, nil
}

// addWorkspaceLocked creates one workspace under out, labeled by the
// post-creation workspace count.
func (m *Manager) addWorkspaceLocked(out *Container) *Container {
	ws := NewWorkspace(out)
	ws.SetLayout(m.defaultLayout)
	ws.SetLabel(strconv.Itoa(len(out.children)))
	return ws
}

// AddView creates a view for a newly mapped window under the active
// workspace of the first output.
func (m *Manager) AddView(s surface.Surface) (*Container, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ws, err := m.activeWorkspaceLocked()
	if err != nil {
		return nil, err
	}
	view := NewView(ws, s)
	logger.Debug("view added", "workspace", ws.Label(), "id", view.ID())
	return view, nil
}

// RemoveView locates the view whose handle wraps s and removes it from
// its parent. A second unmap for the same surface finds nothing and is
// a silent no-op: a view can only be unmapped once.
func (m *Manager) RemoveView(s surface.Surface) {
	m.mu.Lock()
	defer m.mu.Unlock()

	view := findView(m.root, s)
	if view == nil {
		logger.Debug("remove view: no view for surface, already unmapped")
		return
	}
	if parent := view.Parent(); parent != nil {
		parent.detach(view)
	}
	view.destroy()
	logger.Debug("view removed", "id", view.ID())
}

// findView walks the subtree under c looking for the view wrapping s.
func findView(c *Container, s surface.Surface) *Container {
	if c.nodeType == NodeView && c.handle != nil && c.handle.Surface == s {
		return c
	}
	for _, child := range c.children {
		if found := findView(child, s); found != nil {
			return found
		}
	}
	return nil
}

// SwitchWorkspace hides every view on the active workspace, shows every
// view on the target one, and updates the active index, all inside a
// single critical section, so no reader observes the switch half done.
// Switching to the already-active index re-applies the same masks and
// is a legal no-op.
func (m *Manager) SwitchWorkspace(target int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.firstOutputLocked()
	if out == nil {
		return notFoundErr("SwitchWorkspace", "no output attached")
	}
	workspaces := out.children
	if target < 0 || target >= len(workspaces) {
		return notFoundErr("SwitchWorkspace", "workspace %d does not exist (%d workspaces)", target, len(workspaces))
	}
	if m.active < len(workspaces) {
		setWorkspaceMask(workspaces[m.active], surface.MaskHidden)
	}
	setWorkspaceMask(workspaces[target], surface.MaskShown)
	m.active = target
	logger.Info("switched workspace", "workspace", workspaces[target].Label())
	return nil
}

// setWorkspaceMask applies mask to every view directly under ws and
// updates the cached visibility flags.
func setWorkspaceMask(ws *Container, mask uint32) {
	visible := mask != surface.MaskHidden
	ws.SetVisibility(visible)
	for _, child := range ws.children {
		child.SetVisibility(visible)
		if child.nodeType == NodeView && child.handle != nil {
			child.handle.Surface.SetVisibleMask(mask)
		}
	}
}

// FocusedWorkspace returns the workspace marked focused on the focused
// output, or nil when no focused output/workspace chain exists.
func (m *Manager) FocusedWorkspace() *Container {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, out := range m.root.children {
		if !out.IsFocused() {
			continue
		}
		for _, ws := range out.children {
			if ws.IsFocused() {
				return ws
			}
		}
	}
	return nil
}

// FocusView marks view and its ancestor chain focused, clears the
// previous focus, and activates the view's surface. The surface
// activation happens after the critical section: the compositor may
// re-enter the tree from its activation path.
func (m *Manager) FocusView(view *Container) error {
	if view.Type() != NodeView {
		return invariantErr("FocusView", "can only focus a view, got %s", view.Type())
	}

	m.mu.Lock()
	clearFocus(m.root)
	for c := view; c != nil; c = c.Parent() {
		c.SetFocused(true)
	}
	s := view.handle.Surface
	m.mu.Unlock()

	s.SetActivated(true)
	return nil
}

func clearFocus(c *Container) {
	c.SetFocused(false)
	for _, child := range c.children {
		clearFocus(child)
	}
}

// ActiveWorkspace returns the index of the active workspace.
func (m *Manager) ActiveWorkspace() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// WorkspaceCount returns the number of workspaces on the first output.
func (m *Manager) WorkspaceCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := m.firstOutputLocked()
	if out == nil {
		return 0
	}
	return len(out.children)
}

// ViewCount returns the number of views in the whole tree.
func (m *Manager) ViewCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return countViews(m.root)
}

func countViews(c *Container) int {
	n := 0
	if c.nodeType == NodeView {
		n++
	}
	for _, child := range c.children {
		n += countViews(child)
	}
	return n
}

func (m *Manager) firstOutputLocked() *Container {
	for _, child := range m.root.children {
		if child.nodeType == NodeOutput {
			return child
		}
	}
	return nil
}

func (m *Manager) activeWorkspaceLocked() (*Container, error) {
	out := m.firstOutputLocked()
	if out == nil {
		return nil, notFoundErr("AddView", "no output attached")
	}
	if m.active >= len(out.children) {
		return nil, notFoundErr("AddView", "active workspace %d does not exist", m.active)
	}
	return out.children[m.active], nil
}
