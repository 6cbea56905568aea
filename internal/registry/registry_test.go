package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryGetSet(t *testing.T) {
	reg := New()

	reg.Set("windows.border_color", FlagRead, "#4c7899")

	flags, data, err := reg.Get("windows.border_color")
	require.NoError(t, err)
	assert.Equal(t, FlagRead, flags)
	assert.Equal(t, "#4c7899", data)
}

func TestRegistryGetMissingKey(t *testing.T) {
	reg := New()

	_, _, err := reg.Get("nope")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestRegistrySetReplaces(t *testing.T) {
	reg := New()

	reg.Set("mouse.coords", FlagRead|FlagWrite, []int{0, 0})
	reg.Set("mouse.coords", FlagRead|FlagWrite, []int{10, 20})

	_, data, err := reg.Get("mouse.coords")
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20}, data)
}

func TestRegistryContainsAndKeys(t *testing.T) {
	reg := New()

	assert.False(t, reg.Contains("a"))
	reg.Set("a", FlagRead, 1)
	reg.Set("b", FlagRead, 2)

	assert.True(t, reg.Contains("a"))
	assert.ElementsMatch(t, []string{"a", "b"}, reg.Keys())
}

func TestRegistryConcurrentAccess(t *testing.T) {
	reg := New()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				reg.Set("shared", FlagRead|FlagWrite, j)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				reg.Contains("shared")
				reg.Get("shared")
			}
		}()
	}
	wg.Wait()

	assert.True(t, reg.Contains("shared"))
}

func TestClientPermissions(t *testing.T) {
	reg := New()
	reg.Set("windows.title_bar", FlagRead|FlagWrite, true)

	t.Run("reader can read but not write", func(t *testing.T) {
		client := NewClient(reg, AccessMapping{"windows": PermRead})

		data, err := client.Get("windows", "title_bar")
		require.NoError(t, err)
		assert.Equal(t, true, data)

		err = client.Set("windows", "title_bar", false)
		assert.ErrorIs(t, err, ErrPermission)
	})

	t.Run("writer can read and write", func(t *testing.T) {
		client := NewClient(reg, AccessMapping{"windows": PermWrite})

		require.NoError(t, client.Set("windows", "title_bar", false))

		data, err := client.Get("windows", "title_bar")
		require.NoError(t, err)
		assert.Equal(t, false, data)
	})

	t.Run("unknown category is invisible", func(t *testing.T) {
		client := NewClient(reg, AccessMapping{"mouse": PermWrite})

		_, err := client.Get("windows", "title_bar")
		assert.ErrorIs(t, err, ErrCategoryUnknown)

		err = client.Set("windows", "title_bar", false)
		assert.ErrorIs(t, err, ErrCategoryUnknown)

		assert.False(t, client.Contains("windows", "title_bar"))
	})
}

func TestClientMissingKeyInGrantedCategory(t *testing.T) {
	reg := New()
	client := NewClient(reg, AccessMapping{"windows": PermRead})

	_, err := client.Get("windows", "no_such_key")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}
