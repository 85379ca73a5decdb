package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlotFor_MemoizedAndDeterministic(t *testing.T) {
	a := SlotFor("name")
	b := SlotFor("name")
	require.Equal(t, a, b)
	require.Contains(t, a.String(), "name#")
	require.NotEqual(t, a, SlotFor("other"))
}

func TestSlotFor_ConcurrentDerivationAgrees(t *testing.T) {
	const n = 32
	got := make([]Slot, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = SlotFor("concurrent")
		}(i)
	}
	wg.Wait()
	for _, s := range got {
		require.Equal(t, got[0], s)
	}
}

func TestStore_NamespacesAreSeparate(t *testing.T) {
	var s Store
	s.Set(map[string]any{"a": 1}, false)
	s.Set(map[string]any{"a": 2, "b": 3}, true)

	v, ok := s.Get("a", false)
	require.True(t, ok)
	require.Equal(t, 1, v)

	v, ok = s.Get("a", true)
	require.True(t, ok)
	require.Equal(t, 2, v)

	_, ok = s.Get("b", false)
	require.False(t, ok)

	require.Equal(t, []string{"a"}, s.Keys())
}

func TestStore_ZeroValueReads(t *testing.T) {
	var s Store
	_, ok := s.Get("missing", false)
	require.False(t, ok)
	_, ok = s.Get("missing", true)
	require.False(t, ok)
	require.Empty(t, s.Keys())
}

func TestStore_SetOverwrites(t *testing.T) {
	var s Store
	s.Set(map[string]any{"a": 1}, false)
	s.Set(map[string]any{"a": nil}, false)
	v, ok := s.Get("a", false)
	require.True(t, ok)
	require.Nil(t, v)
}
