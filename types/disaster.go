package types

import "time"

type DisasterType string

const (
	Flood      DisasterType = "Flood"
	Earthquake DisasterType = "Earthquake"
	Epidemic   DisasterType = "Epidemic"
	Wildfire   DisasterType = "Wildfire"
	Tsunami    DisasterType = "Tsunami"
)

// DisasterTypes lists the supported types in display order.
var DisasterTypes = []DisasterType{Flood, Earthquake, Epidemic, Wildfire, Tsunami}

// DefaultResourcesByType names the resources a disaster starts with when none are supplied.
var DefaultResourcesByType = map[DisasterType][]string{
	Flood:      {"Food", "Water", "Shelter", "Boats"},
	Earthquake: {"Food", "Medicine", "Rescue Tools", "Shelter"},
	Epidemic:   {"Medicine", "PPE", "Sanitizers", "Isolation Tents"},
	Wildfire:   {"Food", "Water", "Medical Kits", "Blankets"},
	Tsunami:    {"Food", "Water", "Life Jackets", "Rescue Boats"},
}

const DefaultResourceQuantity = 10

func (t DisasterType) Valid() bool {
	_, ok := DefaultResourcesByType[t]
	return ok
}

type Disaster struct {
	ID        string       `json:"id"`
	Type      DisasterType `json:"type"`
	Name      string       `json:"name"`
	Resources []Resource   `json:"resources"`
	CreatedAt time.Time    `json:"createdAt"`
	IsActive  bool         `json:"isActive"`
}

// DisplayName is the name if set, otherwise the type.
func (d Disaster) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return string(d.Type)
}

// Clone returns a copy that shares no slices with d.
func (d Disaster) Clone() Disaster {
	d.Resources = CloneResources(d.Resources)
	return d
}

// NewDisaster carries the caller supplied fields of a disaster; id and createdAt are assigned on add.
type NewDisaster struct {
	Type      DisasterType `json:"type"`
	Name      string       `json:"name"`
	Resources []Resource   `json:"resources"`
	IsActive  bool         `json:"isActive"`
}

// DisasterUpdate is a partial update. Nil fields are left untouched.
type DisasterUpdate struct {
	Type      *DisasterType `json:"type,omitempty"`
	Name      *string       `json:"name,omitempty"`
	Resources *[]Resource   `json:"resources,omitempty"`
	IsActive  *bool         `json:"isActive,omitempty"`
}
