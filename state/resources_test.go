package state

import (
	"context"
	"testing"

	"go-reliefdesk/db"
	"go-reliefdesk/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertMirrored(t *testing.T, rs []types.Resource) {
	t.Helper()
	for _, r := range rs {
		assert.Equal(t, r.Quantity, r.Stock, "resource %q", r.Name)
		assert.GreaterOrEqual(t, r.Quantity, 0, "resource %q", r.Name)
	}
}

func TestStockMirrorsQuantityOnEveryPath(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, db.NewMemoryStore())
	d, err := m.AddDisaster(ctx, types.NewDisaster{Type: types.Wildfire, Name: "Ridge"})
	require.NoError(t, err)
	assertMirrored(t, d.Resources)

	_, err = m.SetResourceQuantity(ctx, d.ID, 1, 42)
	require.NoError(t, err)
	_, err = m.SetResourceQuantity(ctx, d.ID, 2, -3)
	require.NoError(t, err)
	_, err = m.ReduceResource(ctx, d.ID, 3)
	require.NoError(t, err)
	_, err = m.AddResource(ctx, d.ID, "Radios", 6)
	require.NoError(t, err)

	got, _ := m.DisasterByID(d.ID)
	assertMirrored(t, got.Resources)
	assert.Equal(t, 42, got.Resources[0].Quantity)
	assert.Equal(t, 0, got.Resources[1].Quantity)
	assert.Equal(t, 9, got.Resources[2].Quantity)

	_, err = m.UpdateDisasterResources(ctx, d.ID, []types.Resource{{ID: 1, Name: "Water", Quantity: 7, Stock: 1}})
	require.NoError(t, err)
	got, _ = m.DisasterByID(d.ID)
	assertMirrored(t, got.Resources)
	assert.Equal(t, 7, got.Resources[0].Stock)

	global, err := m.SetGlobalResources(ctx, []types.Resource{{ID: 1, Name: "Food", Quantity: -1, Stock: 5}})
	require.NoError(t, err)
	assertMirrored(t, global)
}

func TestAddResourceAssignsNextID(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, db.NewMemoryStore())
	d, err := m.AddDisaster(ctx, types.NewDisaster{Type: types.Flood, Name: "A"})
	require.NoError(t, err)

	r, err := m.AddResource(ctx, d.ID, " Pumps ", 2)
	require.NoError(t, err)
	assert.Equal(t, 5, r.ID)
	assert.Equal(t, "Pumps", r.Name)
	assert.Equal(t, "General", r.Category)

	_, err = m.AddResource(ctx, d.ID, "", 2)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = m.AddResource(ctx, d.ID, "Fuel", 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = m.AddResource(ctx, "missing", "Fuel", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReduceResourceStopsAtZero(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, db.NewMemoryStore())
	d, err := m.AddDisaster(ctx, types.NewDisaster{Type: types.Flood, Name: "A"})
	require.NoError(t, err)
	_, err = m.SetResourceQuantity(ctx, d.ID, 1, 1)
	require.NoError(t, err)

	r, err := m.ReduceResource(ctx, d.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Quantity)

	r, err = m.ReduceResource(ctx, d.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Quantity)
	assert.Equal(t, 0, r.Stock)

	_, err = m.ReduceResource(ctx, d.ID, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteResource(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, db.NewMemoryStore())
	d, err := m.AddDisaster(ctx, types.NewDisaster{Type: types.Flood, Name: "A"})
	require.NoError(t, err)

	require.NoError(t, m.DeleteResource(ctx, d.ID, 2))
	got, _ := m.DisasterByID(d.ID)
	require.Len(t, got.Resources, 3)
	assert.Equal(t, []int{1, 3, 4}, []int{got.Resources[0].ID, got.Resources[1].ID, got.Resources[2].ID})

	assert.ErrorIs(t, m.DeleteResource(ctx, d.ID, 2), ErrNotFound)
	// the earlier copy is unaffected
	assert.Len(t, d.Resources, 4)
}

// The global list is independent of the active disaster and may drift from it.
func TestGlobalResourcesDriftFromActiveDisaster(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, db.NewMemoryStore())
	d, err := m.AddDisaster(ctx, types.NewDisaster{Type: types.Flood, Name: "A"})
	require.NoError(t, err)

	selected, err := m.SelectDisaster(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, selected.IsActive)
	assert.Equal(t, "Flood", m.SelectedDisaster())
	assert.Equal(t, d.Resources, m.GlobalResources())

	_, err = m.SetResourceQuantity(ctx, d.ID, 1, 77)
	require.NoError(t, err)
	assert.Equal(t, 10, m.GlobalResources()[0].Quantity)

	_, err = m.SelectDisaster(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSelectDisasterType(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, db.NewMemoryStore())

	rs, err := m.SelectDisasterType(ctx, types.Epidemic)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultResources(types.Epidemic), rs)
	assert.Equal(t, "Epidemic", m.SelectedDisaster())
	assert.Empty(t, m.Disasters())

	_, err = m.SelectDisasterType(ctx, "Drought")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDuplicateResourceIDsAreRejected(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, db.NewMemoryStore())
	dupes := []types.Resource{{ID: 1, Name: "Water", Quantity: 1}, {ID: 1, Name: "Food", Quantity: 2}}

	_, err := m.AddDisaster(ctx, types.NewDisaster{Type: types.Flood, Name: "A", Resources: dupes})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, m.Disasters())

	d, err := m.AddDisaster(ctx, types.NewDisaster{Type: types.Flood, Name: "A"})
	require.NoError(t, err)
	_, err = m.UpdateDisasterResources(ctx, d.ID, dupes)
	assert.ErrorIs(t, err, ErrInvalidInput)
	got, _ := m.DisasterByID(d.ID)
	assert.Equal(t, d.Resources, got.Resources)

	_, err = m.SetGlobalResources(ctx, dupes)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, m.GlobalResources())
}

func TestApplyToActiveKeepsConcurrentChanges(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, db.NewMemoryStore())
	d, err := m.AddDisaster(ctx, types.NewDisaster{Type: types.Flood, Name: "A"})
	require.NoError(t, err)
	_, err = m.AddResource(ctx, d.ID, "Generators", 3)
	require.NoError(t, err)

	updated, err := m.ApplyToActive(ctx, func(rs []types.Resource) []types.Resource {
		for i := range rs {
			rs[i] = rs[i].WithQuantity(50)
		}
		return rs
	})
	require.NoError(t, err)
	require.Len(t, updated.Resources, 5)
	assert.Equal(t, "Generators", updated.Resources[4].Name)
	assertMirrored(t, updated.Resources)
	for _, r := range updated.Resources {
		assert.Equal(t, 50, r.Quantity, r.Name)
	}
}

func TestApplyToActiveWithoutActiveDisaster(t *testing.T) {
	m := newTestManager(t, db.NewMemoryStore())
	_, err := m.ApplyToActive(context.Background(), func(rs []types.Resource) []types.Resource { return rs })
	assert.ErrorIs(t, err, ErrNotFound)
}
