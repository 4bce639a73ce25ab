package state

import "go-reliefdesk/types"

// Stats summarises the state for the analytics view. Resource totals come
// from the global list, with the active disaster's totals alongside.
func (m *Manager) Stats() types.Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := types.Stats{
		TotalResources:         len(m.resources),
		TotalVolunteers:        len(m.volunteers),
		DisasterCount:          len(m.disasters),
		VolunteersBySkill:      make(map[string]int),
		ResourceQuantityByName: make(map[string]int),
	}
	for _, r := range m.resources {
		s.TotalResourceQuantity += r.Quantity
		s.ResourceQuantityByName[r.Name] += r.Quantity
	}
	if i := m.activeIndex(); i >= 0 {
		for _, r := range m.disasters[i].Resources {
			s.ActiveResources++
			s.ActiveResourceQuantity += r.Quantity
		}
	}
	for _, v := range m.volunteers {
		if v.Available {
			s.AvailableVolunteers++
		}
		if v.AssignedDisasterID != "" {
			s.AssignedVolunteers++
		}
		s.VolunteersBySkill[v.Skill]++
	}
	return s
}
