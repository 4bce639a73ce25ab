package types

import "time"

// Snapshot is the full persisted application state, written as one JSON blob.
type Snapshot struct {
	Disasters        []Disaster  `json:"disasters"`
	ActiveDisasterID *string     `json:"activeDisasterId"`
	SelectedDisaster string      `json:"selectedDisaster"`
	Resources        []Resource  `json:"resources"`
	Volunteers       []Volunteer `json:"volunteers"`
	LastUpdated      time.Time   `json:"lastUpdated"`
}

// Stats backs the analytics view.
type Stats struct {
	TotalResources         int            `json:"totalResources"`
	TotalResourceQuantity  int            `json:"totalResourceQuantity"`
	ActiveResources        int            `json:"activeResources"`
	ActiveResourceQuantity int            `json:"activeResourceQuantity"`
	TotalVolunteers        int            `json:"totalVolunteers"`
	AvailableVolunteers    int            `json:"availableVolunteers"`
	AssignedVolunteers     int            `json:"assignedVolunteers"`
	VolunteersBySkill      map[string]int `json:"volunteersBySkill"`
	ResourceQuantityByName map[string]int `json:"resourceQuantityByName"`
	DisasterCount          int            `json:"disasterCount"`
}
