package layout

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alderwm/alder/internal/surface"
)

// checkInvariants walks the whole tree and fails the test if any
// structural invariant is violated.
func checkInvariants(t *testing.T, root *Container) {
	t.Helper()

	require.Equal(t, NodeRoot, root.Type())
	require.Nil(t, root.Parent())
	require.Nil(t, root.Handle())

	seen := map[*Container]bool{root: true}
	var walk func(c *Container)
	walk = func(c *Container) {
		for i, child := range c.children {
			assert.Truef(t, attachable(child.nodeType, c.nodeType),
				"%s must not be a child of %s", child.nodeType, c.nodeType)
			assert.Same(t, c, child.parent, "child's parent back-reference must resolve to its parent")
			assert.Falsef(t, seen[child], "node reachable from two parents")
			seen[child] = true

			// No duplicate membership in the same child sequence.
			for j := i + 1; j < len(c.children); j++ {
				assert.NotSame(t, child, c.children[j])
			}

			if child.nodeType == NodeView {
				assert.Nil(t, child.Children(), "views have no child sequence")
			}
			walk(child)
		}
	}
	walk(root)
}

func buildTestTree(t *testing.T) (root, output, ws0, ws1 *Container) {
	t.Helper()
	root = NewRoot()
	output = NewOutput(root, surface.NewFakeOutput(1920, 1080))
	ws0 = NewWorkspace(output)
	ws1 = NewWorkspace(output)
	return root, output, ws0, ws1
}

func TestConstructorEdges(t *testing.T) {
	root, output, ws0, _ := buildTestTree(t)

	t.Run("legal edges", func(t *testing.T) {
		c := NewContainer(ws0)
		assert.Equal(t, NodeContainer, c.Type())
		nested := NewContainer(c)
		assert.Same(t, c, nested.Parent())

		v := NewView(ws0, surface.NewFake(surface.Geometry{Width: 640, Height: 480}))
		assert.Same(t, ws0, v.Parent())

		checkInvariants(t, root)
	})

	t.Run("output captures resolution at creation", func(t *testing.T) {
		w, h, ok := output.Dimensions()
		require.True(t, ok)
		assert.Equal(t, uint32(1920), w)
		assert.Equal(t, uint32(1080), h)
	})

	t.Run("workspace inherits output handle", func(t *testing.T) {
		require.NotNil(t, ws0.Handle())
		assert.Equal(t, HandleOutput, ws0.Handle().Kind)
		assert.Same(t, output.Handle().Surface, ws0.Handle().Surface)
	})

	t.Run("container inherits nearest output handle", func(t *testing.T) {
		c := NewContainer(ws0)
		inner := NewContainer(c)
		require.NotNil(t, inner.Handle())
		assert.Same(t, output.Handle().Surface, inner.Handle().Surface)
	})
}

func TestConstructorIllegalEdgesPanic(t *testing.T) {
	root, output, ws0, _ := buildTestTree(t)
	view := NewView(ws0, surface.NewFake(surface.Geometry{}))

	tests := []struct {
		name string
		fn   func()
	}{
		{"output under workspace", func() { NewOutput(ws0, surface.NewFakeOutput(1, 1)) }},
		{"workspace under root", func() { NewWorkspace(root) }},
		{"workspace under workspace", func() { NewWorkspace(ws0) }},
		{"container under root", func() { NewContainer(root) }},
		{"container under output", func() { NewContainer(output) }},
		{"view under root", func() { NewView(root, surface.NewFake(surface.Geometry{})) }},
		{"view under output", func() { NewView(output, surface.NewFake(surface.Geometry{})) }},
		{"view under view", func() { NewView(view, surface.NewFake(surface.Geometry{})) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				require.NotNil(t, r, "expected invariant panic")
				err, ok := r.(*TreeError)
				require.True(t, ok, "panic value must be a TreeError")
				assert.ErrorIs(t, err, ErrInvariant)
			}()
			tt.fn()
		})
	}
}

func TestViewSiblingPromotion(t *testing.T) {
	_, _, ws0, _ := buildTestTree(t)
	c := NewContainer(ws0)

	t.Run("under a container the view is promoted", func(t *testing.T) {
		v := NewView(c, surface.NewFake(surface.Geometry{}))
		assert.Same(t, ws0, v.Parent(), "view must land beside the container, not inside it")
		assert.Empty(t, c.Children())
	})

	t.Run("under a workspace the view is a direct child", func(t *testing.T) {
		v := NewView(ws0, surface.NewFake(surface.Geometry{}))
		assert.Same(t, ws0, v.Parent())
	})
}

func TestAddChild(t *testing.T) {
	root, _, ws0, ws1 := buildTestTree(t)

	t.Run("view rejects children", func(t *testing.T) {
		v := NewView(ws0, surface.NewFake(surface.Geometry{}))
		err := v.AddChild(newContainer(NodeContainer))
		assert.ErrorIs(t, err, ErrInvariant)
	})

	t.Run("workspace rejects nested workspace", func(t *testing.T) {
		err := ws0.AddChild(newContainer(NodeWorkspace))
		assert.ErrorIs(t, err, ErrInvariant)
	})

	t.Run("root rejects container", func(t *testing.T) {
		err := root.AddChild(newContainer(NodeContainer))
		assert.ErrorIs(t, err, ErrInvariant)
	})

	t.Run("append keeps stacking order", func(t *testing.T) {
		a := newContainer(NodeContainer)
		b := newContainer(NodeContainer)
		require.NoError(t, ws1.AddChild(a))
		require.NoError(t, ws1.AddChild(b))
		children := ws1.Children()
		require.Len(t, children, 2)
		assert.Same(t, a, children[0])
		assert.Same(t, b, children[1])
	})

	checkInvariants(t, root)
}

func TestAddChildRejectsAttachedNode(t *testing.T) {
	root, _, ws0, ws1 := buildTestTree(t)
	c := NewContainer(ws0)

	t.Run("still-linked child is rejected", func(t *testing.T) {
		err := ws1.AddChild(c)
		assert.ErrorIs(t, err, ErrInvariant)
		assert.Same(t, ws0, c.Parent(), "the failed attach must not rewrite the parent link")
		assert.Empty(t, ws1.Children())
		require.Len(t, ws0.Children(), 1)
		assert.Same(t, c, ws0.Children()[0])
	})

	t.Run("same holds through AddSibling", func(t *testing.T) {
		other := NewContainer(ws1)
		err := other.AddSibling(c)
		assert.ErrorIs(t, err, ErrInvariant)
		assert.Same(t, ws0, c.Parent())
	})

	t.Run("detached node can be re-attached", func(t *testing.T) {
		idx := -1
		for i, child := range ws0.Children() {
			if child == c {
				idx = i
			}
		}
		require.GreaterOrEqual(t, idx, 0)

		detached, err := ws0.RemoveChildAt(idx)
		require.NoError(t, err)
		require.NoError(t, ws1.AddChild(detached))
		assert.Same(t, ws1, detached.Parent())
	})

	checkInvariants(t, root)
}

func TestAddSibling(t *testing.T) {
	root, _, ws0, _ := buildTestTree(t)
	c := NewContainer(ws0)

	t.Run("root has no siblings", func(t *testing.T) {
		err := root.AddSibling(newContainer(NodeContainer))
		assert.ErrorIs(t, err, ErrInvariant)
	})

	t.Run("sibling lands under the shared parent", func(t *testing.T) {
		sib := newContainer(NodeContainer)
		require.NoError(t, c.AddSibling(sib))
		assert.Same(t, ws0, sib.Parent())
	})

	t.Run("orphan parent is a not-found error", func(t *testing.T) {
		orphan := newContainer(NodeContainer)
		err := orphan.AddSibling(newContainer(NodeContainer))
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRemoveContainerCascade(t *testing.T) {
	root, _, ws0, _ := buildTestTree(t)

	c := NewContainer(ws0)
	inner := NewContainer(c)
	v1 := NewView(inner, surface.NewFake(surface.Geometry{})) // promoted beside inner
	v2 := NewView(ws0, surface.NewFake(surface.Geometry{}))

	require.NoError(t, c.RemoveContainer())

	t.Run("subtree unreachable from root", func(t *testing.T) {
		var all []*Container
		var walk func(n *Container)
		walk = func(n *Container) {
			all = append(all, n)
			for _, ch := range n.children {
				walk(ch)
			}
		}
		walk(root)
		for _, n := range all {
			assert.NotSame(t, c, n)
			assert.NotSame(t, inner, n)
			assert.NotSame(t, v1, n)
		}
	})

	t.Run("unrelated nodes survive", func(t *testing.T) {
		assert.Same(t, ws0, v2.Parent())
	})

	t.Run("orphan tolerance", func(t *testing.T) {
		// Previously-resolved references into the destroyed subtree
		// resolve their parent to nil, they do not crash.
		assert.Nil(t, inner.Parent())
		assert.Nil(t, v1.Parent())
		assert.Empty(t, c.Children())
	})

	checkInvariants(t, root)
}

func TestRemoveContainerRejections(t *testing.T) {
	root, _, ws0, _ := buildTestTree(t)

	assert.ErrorIs(t, root.RemoveContainer(), ErrInvariant)
	assert.ErrorIs(t, ws0.RemoveContainer(), ErrInvariant)

	detached := newContainer(NodeContainer)
	assert.ErrorIs(t, detached.RemoveContainer(), ErrNotFound)
}

func TestRemoveChildAt(t *testing.T) {
	_, output, ws0, _ := buildTestTree(t)

	t.Run("workspace not removable by index", func(t *testing.T) {
		_, err := output.RemoveChildAt(0)
		assert.ErrorIs(t, err, ErrInvariant)
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := output.RemoveChildAt(7)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("detached node is an independent tree", func(t *testing.T) {
		c := NewContainer(ws0)
		v := NewView(c, surface.NewFake(surface.Geometry{})) // sibling of c under ws0
		_ = v

		idx := -1
		for i, child := range ws0.Children() {
			if child == c {
				idx = i
			}
		}
		require.GreaterOrEqual(t, idx, 0)

		detached, err := ws0.RemoveChildAt(idx)
		require.NoError(t, err)
		assert.Same(t, c, detached)
		assert.Nil(t, detached.Parent())
	})
}

func TestRemoveChildStructuralEquality(t *testing.T) {
	_, output, ws0, _ := buildTestTree(t)

	t.Run("matches first child of the same type", func(t *testing.T) {
		a := NewContainer(ws0)
		b := NewContainer(ws0)

		// Passing b removes a: structural equality is type equality.
		removed, err := ws0.RemoveChild(b)
		require.NoError(t, err)
		assert.Same(t, a, removed)
		assert.Nil(t, removed.Parent())
	})

	t.Run("workspace not removable", func(t *testing.T) {
		_, err := output.RemoveChild(newContainer(NodeWorkspace))
		assert.ErrorIs(t, err, ErrInvariant)
	})

	t.Run("no matching child", func(t *testing.T) {
		_, err := ws0.RemoveChild(newContainer(NodeOutput))
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestQueries(t *testing.T) {
	root, output, ws0, ws1 := buildTestTree(t)
	c := NewContainer(ws0)
	v := NewView(ws0, surface.NewFake(surface.Geometry{X: 10, Y: 20, Width: 640, Height: 480}))

	t.Run("children is nil for views, copy for others", func(t *testing.T) {
		assert.Nil(t, v.Children())
		kids := output.Children()
		require.Len(t, kids, 2)
		kids[0] = nil // mutating the copy must not touch the tree
		assert.NotNil(t, output.Children()[0])
	})

	t.Run("dimensions and position derive from handles", func(t *testing.T) {
		w, h, ok := v.Dimensions()
		require.True(t, ok)
		assert.Equal(t, uint32(640), w)
		assert.Equal(t, uint32(480), h)

		x, y, ok := v.Position()
		require.True(t, ok)
		assert.Equal(t, int32(10), x)
		assert.Equal(t, int32(20), y)

		_, _, ok = output.Position()
		assert.False(t, ok, "an output has no position within itself")

		// Workspaces and containers resolve their size through the
		// inherited output handle.
		w, h, ok = ws0.Dimensions()
		require.True(t, ok)
		assert.Equal(t, uint32(1920), w)
		assert.Equal(t, uint32(1080), h)

		w, h, ok = c.Dimensions()
		require.True(t, ok)
		assert.Equal(t, uint32(1920), w)
		assert.Equal(t, uint32(1080), h)

		_, _, ok = root.Dimensions()
		assert.False(t, ok)
		_, _, ok = newContainer(NodeContainer).Dimensions()
		assert.False(t, ok, "a hand-built node without a handle has no dimensions")
	})

	t.Run("ancestry", func(t *testing.T) {
		assert.True(t, root.IsParentOf(v))
		assert.True(t, ws0.IsParentOf(v))
		assert.True(t, output.IsParentOf(c))
		assert.False(t, ws1.IsParentOf(v))
		assert.True(t, v.IsChildOf(ws0))
		assert.False(t, ws0.IsChildOf(v))
	})

	t.Run("parent by type", func(t *testing.T) {
		assert.Same(t, output, v.ParentByType(NodeOutput))
		assert.Same(t, ws0, c.ParentByType(NodeWorkspace))
		assert.Same(t, root, c.ParentByType(NodeRoot))
		assert.Nil(t, root.ParentByType(NodeOutput))
		assert.Nil(t, ws1.ParentByType(NodeContainer))
	})

	t.Run("flags", func(t *testing.T) {
		assert.True(t, root.IsRoot())
		assert.False(t, v.IsRoot())

		assert.False(t, c.IsFocused())
		c.SetFocused(true)
		assert.True(t, c.IsFocused())

		assert.False(t, c.Visibility())
		c.SetVisibility(true)
		assert.True(t, c.Visibility())

		c.SetFloating(true)
		assert.True(t, c.IsFloating())

		c.SetLayout(LayoutTabbed)
		assert.Equal(t, LayoutTabbed, c.Layout())
	})
}

// TestRandomOperationSequences drives the constructors with random but
// legal operations and checks every invariant after each step.
func TestRandomOperationSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 20; trial++ {
		root := NewRoot()
		outputs := []*Container{}
		workspaces := []*Container{}
		containers := []*Container{}

		for step := 0; step < 60; step++ {
			switch op := rng.Intn(6); {
			case op == 0 && len(outputs) < 3:
				outputs = append(outputs, NewOutput(root, surface.NewFakeOutput(1920, 1080)))
			case op == 1 && len(outputs) > 0:
				workspaces = append(workspaces, NewWorkspace(outputs[rng.Intn(len(outputs))]))
			case op == 2 && len(workspaces) > 0:
				containers = append(containers, NewContainer(workspaces[rng.Intn(len(workspaces))]))
			case op == 3 && len(containers) > 0:
				containers = append(containers, NewContainer(containers[rng.Intn(len(containers))]))
			case op == 4 && len(workspaces) > 0:
				NewView(workspaces[rng.Intn(len(workspaces))], surface.NewFake(surface.Geometry{}))
			case op == 5 && len(containers) > 0:
				// Remove a random container; drop destroyed nodes from
				// our tracking lists.
				idx := rng.Intn(len(containers))
				victim := containers[idx]
				if err := victim.RemoveContainer(); err != nil {
					assert.ErrorIs(t, err, ErrNotFound)
				}
				kept := containers[:0]
				for _, c := range containers {
					if c != victim && c.Parent() != nil {
						kept = append(kept, c)
					}
				}
				containers = kept
			}
			checkInvariants(t, root)
		}
	}
}

func TestTreeErrorMessage(t *testing.T) {
	err := invariantErr("AddChild", "view cannot have children")
	assert.Contains(t, err.Error(), "AddChild")
	assert.Contains(t, err.Error(), "view cannot have children")
	assert.True(t, errors.Is(err, ErrInvariant))
	assert.False(t, errors.Is(err, ErrNotFound))
}
