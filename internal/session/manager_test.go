package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_CreateGetDelete(t *testing.T) {
	m := NewManager(testCatalog(), newFakeLookup(), Options{})

	s := m.Create()
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, 1, m.Len())

	got, err := m.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, m.Delete(s.ID()))
	assert.Equal(t, 0, m.Len())

	_, err = m.Get(s.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, m.Delete(s.ID()), ErrSessionNotFound)
}

func TestManager_SessionsAreIndependent(t *testing.T) {
	m := NewManager(testCatalog(), newFakeLookup(), Options{})

	a := m.Create()
	b := m.Create()
	assert.NotEqual(t, a.ID(), b.ID())

	a.SelectCuisine("Mexican")
	assert.Len(t, a.Visible(), 1)
	assert.Len(t, b.Visible(), 2)
}

func TestManager_ShutdownWaitsForLookups(t *testing.T) {
	lookup := newFakeLookup()
	lookup.prices["Cheese"] = map[string]float64{"StoreA": 1}
	release := lookup.hold("Cheese")
	m := NewManager(testCatalog(), lookup, Options{})

	s := m.Create()
	s.OnAccept(0)
	require.NoError(t, s.SelectIngredient(context.Background(), "Cheese"))
	<-lookup.started

	done := make(chan struct{})
	go func() {
		m.Shutdown()
		close(done)
	}()
	close(release)
	<-done

	assert.Nil(t, s.Snapshot().Prices)
	assert.Equal(t, m.Catalog().Len(), 2)
}
