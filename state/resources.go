package state

import (
	"context"
	"fmt"
	"strings"

	"go-reliefdesk/types"
)

const addedResourceCategory = "General"

// checkResourceIDs rejects lists where two resources share an id.
func checkResourceIDs(rs []types.Resource) error {
	seen := make(map[int]bool, len(rs))
	for _, r := range rs {
		if seen[r.ID] {
			return fmt.Errorf("%w: duplicate resource id %d", ErrInvalidInput, r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}

func resourceIndex(rs []types.Resource, id int) int {
	for i := range rs {
		if rs[i].ID == id {
			return i
		}
	}
	return -1
}

// disasterFor returns the disaster at id or ErrNotFound. Callers hold m.mu.
func (m *Manager) disasterFor(id string) (*types.Disaster, error) {
	i := m.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("disaster %s: %w", id, ErrNotFound)
	}
	return &m.disasters[i], nil
}

// AddResource appends a resource to the disaster with the next free id.
func (m *Manager) AddResource(ctx context.Context, disasterID, name string, quantity int) (types.Resource, error) {
	name = strings.TrimSpace(name)
	if name == "" || quantity <= 0 {
		return types.Resource{}, fmt.Errorf("%w: a resource needs a name and a positive quantity", ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	d, err := m.disasterFor(disasterID)
	if err != nil {
		return types.Resource{}, err
	}

	next := 1
	for _, r := range d.Resources {
		if r.ID >= next {
			next = r.ID + 1
		}
	}
	r := types.Resource{
		ID:       next,
		Name:     name,
		Category: addedResourceCategory,
	}.WithQuantity(quantity)
	d.Resources = append(types.CloneResources(d.Resources), r)

	m.commit(ctx, "add_resource")
	return r, nil
}

// SetResourceQuantity sets quantity and stock; negative values are stored as zero.
func (m *Manager) SetResourceQuantity(ctx context.Context, disasterID string, resourceID, quantity int) (types.Resource, error) {
	return m.changeResource(ctx, disasterID, resourceID, "set_resource_quantity", func(r types.Resource) types.Resource {
		return r.WithQuantity(quantity)
	})
}

// ReduceResource takes one unit off the resource, stopping at zero.
func (m *Manager) ReduceResource(ctx context.Context, disasterID string, resourceID int) (types.Resource, error) {
	return m.changeResource(ctx, disasterID, resourceID, "reduce_resource", func(r types.Resource) types.Resource {
		if r.Quantity > 0 {
			return r.WithQuantity(r.Quantity - 1)
		}
		return r.Normalize()
	})
}

func (m *Manager) changeResource(ctx context.Context, disasterID string, resourceID int, op string, fn func(types.Resource) types.Resource) (types.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, err := m.disasterFor(disasterID)
	if err != nil {
		return types.Resource{}, err
	}
	j := resourceIndex(d.Resources, resourceID)
	if j < 0 {
		return types.Resource{}, fmt.Errorf("resource %d: %w", resourceID, ErrNotFound)
	}

	rs := types.CloneResources(d.Resources)
	rs[j] = fn(rs[j])
	d.Resources = rs

	m.commit(ctx, op)
	return rs[j], nil
}

func (m *Manager) DeleteResource(ctx context.Context, disasterID string, resourceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, err := m.disasterFor(disasterID)
	if err != nil {
		return err
	}
	j := resourceIndex(d.Resources, resourceID)
	if j < 0 {
		return fmt.Errorf("resource %d: %w", resourceID, ErrNotFound)
	}

	rs := make([]types.Resource, 0, len(d.Resources)-1)
	rs = append(rs, d.Resources[:j]...)
	d.Resources = append(rs, d.Resources[j+1:]...)

	m.commit(ctx, "delete_resource")
	return nil
}

// The global resource list and selected disaster label predate per-disaster
// resources. They are stored as given and never derived from the active disaster.

func (m *Manager) GlobalResources() []types.Resource {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := types.CloneResources(m.resources)
	if out == nil {
		out = []types.Resource{}
	}
	return out
}

func (m *Manager) SetGlobalResources(ctx context.Context, resources []types.Resource) ([]types.Resource, error) {
	if err := checkResourceIDs(resources); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.resources = types.NormalizeResources(resources)
	m.commit(ctx, "set_global_resources")
	return types.CloneResources(m.resources), nil
}

func (m *Manager) SelectedDisaster() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selectedDisaster
}

func (m *Manager) SetSelectedDisaster(ctx context.Context, label string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.selectedDisaster = label
	m.commit(ctx, "set_selected_disaster")
}

// SelectDisasterType prepares the setup form for a type: the label becomes the
// type and the global list is replaced by the type's default resources.
func (m *Manager) SelectDisasterType(ctx context.Context, t types.DisasterType) ([]types.Resource, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown disaster type %q", ErrInvalidInput, t)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.selectedDisaster = string(t)
	m.resources = types.DefaultResources(t)
	m.commit(ctx, "select_disaster_type")
	return types.CloneResources(m.resources), nil
}

// SelectDisaster activates an existing disaster and copies its type and
// resources into the legacy label and global list.
func (m *Manager) SelectDisaster(ctx context.Context, id string) (types.Disaster, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, err := m.disasterFor(id)
	if err != nil {
		return types.Disaster{}, err
	}
	m.activate(id)
	m.selectedDisaster = string(d.Type)
	m.resources = types.CloneResources(d.Resources)
	if m.resources == nil {
		m.resources = []types.Resource{}
	}

	m.commit(ctx, "select_disaster")
	return d.Clone(), nil
}
