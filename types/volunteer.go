package types

import "time"

type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type Coordinates struct {
	Lat              float64 `json:"lat"`
	Long             float64 `json:"long"`
	FormattedAddress string  `json:"formattedAddress,omitempty"`
}

type Volunteer struct {
	ID                  int            `json:"id"`
	Name                string         `json:"name"`
	Skill               string         `json:"skill"`
	Available           bool           `json:"available"`
	Phone               string         `json:"phone,omitempty"` // E.164, e.g. +15551234567
	AssignedDisasterID  string         `json:"assignedDisasterId,omitempty"`
	AssignedLocation    string         `json:"assignedLocation,omitempty"`
	AssignedCoordinates *Coordinates   `json:"assignedCoordinates,omitempty"`
	Notifications       []Notification `json:"notifications,omitempty"`
}

func (v Volunteer) Clone() Volunteer {
	if v.Notifications != nil {
		n := make([]Notification, len(v.Notifications))
		copy(n, v.Notifications)
		v.Notifications = n
	}
	if v.AssignedCoordinates != nil {
		c := *v.AssignedCoordinates
		v.AssignedCoordinates = &c
	}
	return v
}

type NewVolunteer struct {
	Name  string `json:"name"`
	Skill string `json:"skill"`
	Phone string `json:"phone"`
}

type Assignment struct {
	DisasterID string `json:"disasterId"`
	Location   string `json:"location"`
}

// VolunteerSkills are the skills offered when registering a volunteer.
var VolunteerSkills = []string{
	"Medical",
	"Search & Rescue",
	"Logistics",
	"Communications",
	"Engineering",
	"Transportation",
	"Food Distribution",
	"Emergency Response",
	"First Aid",
	"Coordination",
}
