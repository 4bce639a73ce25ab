package state

import (
	"context"
	"fmt"
	"strings"

	"go-reliefdesk/types"
)

func (m *Manager) indexOf(id string) int {
	for i := range m.disasters {
		if m.disasters[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) activeIndex() int {
	for i := range m.disasters {
		if m.disasters[i].IsActive {
			return i
		}
	}
	return -1
}

// activate flags exactly one disaster as active.
func (m *Manager) activate(id string) {
	for i := range m.disasters {
		m.disasters[i].IsActive = m.disasters[i].ID == id
	}
}

// AddDisaster assigns an id and creation time and appends the disaster.
// With no resources supplied the type's defaults are used. The first disaster,
// or one marked active, becomes the only active disaster.
func (m *Manager) AddDisaster(ctx context.Context, in types.NewDisaster) (types.Disaster, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return types.Disaster{}, fmt.Errorf("%w: disaster name is required", ErrInvalidInput)
	}
	if !in.Type.Valid() {
		return types.Disaster{}, fmt.Errorf("%w: unknown disaster type %q", ErrInvalidInput, in.Type)
	}
	if err := checkResourceIDs(in.Resources); err != nil {
		return types.Disaster{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	d := types.Disaster{
		ID:        m.nextDisasterID(),
		Type:      in.Type,
		Name:      name,
		CreatedAt: m.now().UTC(),
	}
	if len(in.Resources) == 0 {
		d.Resources = types.DefaultResources(in.Type)
	} else {
		d.Resources = types.NormalizeResources(in.Resources)
	}

	makeActive := len(m.disasters) == 0 || in.IsActive
	m.disasters = append(m.disasters, d)
	if makeActive {
		m.activate(d.ID)
	}

	m.commit(ctx, "add_disaster")
	return m.disasters[len(m.disasters)-1].Clone(), nil
}

// UpdateDisaster merges the set fields of u into the disaster.
// IsActive=true goes through the same exclusive path as SetActiveDisaster.
func (m *Manager) UpdateDisaster(ctx context.Context, id string, u types.DisasterUpdate) (types.Disaster, error) {
	if u.Type != nil && !u.Type.Valid() {
		return types.Disaster{}, fmt.Errorf("%w: unknown disaster type %q", ErrInvalidInput, *u.Type)
	}
	var name string
	if u.Name != nil {
		name = strings.TrimSpace(*u.Name)
		if name == "" {
			return types.Disaster{}, fmt.Errorf("%w: disaster name is required", ErrInvalidInput)
		}
	}
	if u.Resources != nil {
		if err := checkResourceIDs(*u.Resources); err != nil {
			return types.Disaster{}, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return types.Disaster{}, fmt.Errorf("disaster %s: %w", id, ErrNotFound)
	}

	d := &m.disasters[i]
	if u.Type != nil {
		d.Type = *u.Type
	}
	if u.Name != nil {
		d.Name = name
	}
	if u.Resources != nil {
		d.Resources = types.NormalizeResources(*u.Resources)
	}
	if u.IsActive != nil {
		if *u.IsActive {
			m.activate(id)
		} else {
			d.IsActive = false
		}
	}

	m.commit(ctx, "update_disaster")
	return m.disasters[i].Clone(), nil
}

// SetActiveDisaster makes id the only active disaster. An empty or unknown id
// is a no-op and reports false.
func (m *Manager) SetActiveDisaster(ctx context.Context, id string) bool {
	if id == "" {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexOf(id) < 0 {
		return false
	}
	m.activate(id)
	m.commit(ctx, "set_active_disaster")
	return true
}

func (m *Manager) DisasterByID(id string) (types.Disaster, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return types.Disaster{}, false
	}
	return m.disasters[i].Clone(), true
}

func (m *Manager) Disasters() []types.Disaster {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]types.Disaster, len(m.disasters))
	for i, d := range m.disasters {
		out[i] = d.Clone()
	}
	return out
}

// ActiveDisaster is derived from the isActive flags on every call.
func (m *Manager) ActiveDisaster() (types.Disaster, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.activeIndex()
	if i < 0 {
		return types.Disaster{}, false
	}
	return m.disasters[i].Clone(), true
}

// DeleteDisaster removes the disaster. When it was active the first remaining
// disaster takes over, or nothing is active if none remain.
func (m *Manager) DeleteDisaster(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return fmt.Errorf("disaster %s: %w", id, ErrNotFound)
	}
	wasActive := m.disasters[i].IsActive
	m.disasters = append(m.disasters[:i], m.disasters[i+1:]...)

	if wasActive && len(m.disasters) > 0 {
		m.activate(m.disasters[0].ID)
	}

	m.commit(ctx, "delete_disaster")
	return nil
}

// UpdateDisasterResources replaces the disaster's resource list.
func (m *Manager) UpdateDisasterResources(ctx context.Context, id string, resources []types.Resource) (types.Disaster, error) {
	if resources == nil {
		resources = []types.Resource{}
	}
	return m.UpdateDisaster(ctx, id, types.DisasterUpdate{Resources: &resources})
}

// ApplyToActive rewrites the active disaster's resources with fn under the
// manager lock, so changes made by other operations are never lost.
func (m *Manager) ApplyToActive(ctx context.Context, fn func([]types.Resource) []types.Resource) (types.Disaster, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.activeIndex()
	if i < 0 {
		return types.Disaster{}, fmt.Errorf("active disaster: %w", ErrNotFound)
	}
	d := &m.disasters[i]
	updated := fn(types.CloneResources(d.Resources))
	if err := checkResourceIDs(updated); err != nil {
		return types.Disaster{}, err
	}
	d.Resources = types.NormalizeResources(updated)

	m.commit(ctx, "apply_to_active")
	return d.Clone(), nil
}
