package state

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go-reliefdesk/types"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/sirupsen/logrus"
)

var e164 = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

const (
	notificationIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	notificationIDSize     = 11
)

func (m *Manager) volunteerIndex(id int) int {
	for i := range m.volunteers {
		if m.volunteers[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) Volunteers() []types.Volunteer {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]types.Volunteer, len(m.volunteers))
	for i, v := range m.volunteers {
		out[i] = v.Clone()
	}
	return out
}

func (m *Manager) VolunteerByID(id int) (types.Volunteer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.volunteerIndex(id)
	if i < 0 {
		return types.Volunteer{}, false
	}
	return m.volunteers[i].Clone(), true
}

func (m *Manager) VolunteerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.volunteers)
}

// AddVolunteer registers an available volunteer with the next free id.
func (m *Manager) AddVolunteer(ctx context.Context, in types.NewVolunteer) (types.Volunteer, error) {
	name := strings.TrimSpace(in.Name)
	skill := strings.TrimSpace(in.Skill)
	phone := strings.TrimSpace(in.Phone)
	if name == "" || skill == "" {
		return types.Volunteer{}, fmt.Errorf("%w: a volunteer needs a name and a skill", ErrInvalidInput)
	}
	if phone != "" && !e164.MatchString(phone) {
		return types.Volunteer{}, fmt.Errorf("%w: phone %q is not in E.164 format", ErrInvalidInput, phone)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	next := 1
	for _, v := range m.volunteers {
		if v.ID >= next {
			next = v.ID + 1
		}
	}
	v := types.Volunteer{
		ID:        next,
		Name:      name,
		Skill:     skill,
		Available: true,
		Phone:     phone,
	}
	m.volunteers = append(m.volunteers, v)

	m.commit(ctx, "add_volunteer")
	return v.Clone(), nil
}

func (m *Manager) ToggleVolunteerAvailability(ctx context.Context, id int) (types.Volunteer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.volunteerIndex(id)
	if i < 0 {
		return types.Volunteer{}, fmt.Errorf("volunteer %d: %w", id, ErrNotFound)
	}
	m.volunteers[i].Available = !m.volunteers[i].Available

	m.commit(ctx, "toggle_volunteer")
	return m.volunteers[i].Clone(), nil
}

// AssignVolunteer records the deployment and appends one notification
// describing the disaster, the location and the resources on hand.
func (m *Manager) AssignVolunteer(ctx context.Context, id int, a types.Assignment) (types.Volunteer, error) {
	a.Location = strings.TrimSpace(a.Location)
	if a.DisasterID == "" {
		return types.Volunteer{}, fmt.Errorf("%w: select a disaster to assign", ErrInvalidInput)
	}
	if a.Location == "" {
		return types.Volunteer{}, fmt.Errorf("%w: a deployment location is required", ErrInvalidInput)
	}

	// Geocoding is a network call, keep it outside the lock.
	var coords *types.Coordinates
	if m.geocoder != nil {
		c, err := m.geocoder.Geocode(ctx, a.Location)
		if err != nil {
			logrus.WithError(err).Warnf("Failed to geocode %s", a.Location)
		} else {
			coords = c
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.volunteerIndex(id)
	if i < 0 {
		return types.Volunteer{}, fmt.Errorf("volunteer %d: %w", id, ErrNotFound)
	}

	v := &m.volunteers[i]
	v.AssignedDisasterID = a.DisasterID
	v.AssignedLocation = a.Location
	v.AssignedCoordinates = coords

	m.appendNotification(v, assignmentMessage(m.disasterOrNil(a.DisasterID), a, m.resources))

	m.commit(ctx, "assign_volunteer")
	return v.Clone(), nil
}

func (m *Manager) disasterOrNil(id string) *types.Disaster {
	if i := m.indexOf(id); i >= 0 {
		return &m.disasters[i]
	}
	return nil
}

// assignmentMessage falls back to the raw disaster id and the global resource
// list when the disaster does not exist.
func assignmentMessage(d *types.Disaster, a types.Assignment, global []types.Resource) string {
	summary := a.DisasterID
	resources := global
	if d != nil {
		summary = fmt.Sprintf("%s (%s)", d.Name, d.Type)
		resources = d.Resources
	}
	return fmt.Sprintf("Deployment assigned: %s @ %s. Available resources: %s.",
		summary, a.Location, types.FormatResources(resources))
}

// NotifyVolunteer appends a message to the volunteer's notifications and touches nothing else.
func (m *Manager) NotifyVolunteer(ctx context.Context, id int, message string) (types.Notification, error) {
	if strings.TrimSpace(message) == "" {
		return types.Notification{}, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.volunteerIndex(id)
	if i < 0 {
		return types.Notification{}, fmt.Errorf("volunteer %d: %w", id, ErrNotFound)
	}
	n := m.appendNotification(&m.volunteers[i], message)

	m.commit(ctx, "notify_volunteer")
	return n, nil
}

// appendNotification copies the slice before appending so clones handed out
// earlier never observe the new entry.
func (m *Manager) appendNotification(v *types.Volunteer, message string) types.Notification {
	now := m.now()
	n := types.Notification{
		ID:        fmt.Sprintf("%d-%s", now.UnixMilli(), gonanoid.MustGenerate(notificationIDAlphabet, notificationIDSize)),
		Message:   message,
		CreatedAt: now.UTC(),
	}
	notes := make([]types.Notification, 0, len(v.Notifications)+1)
	notes = append(notes, v.Notifications...)
	v.Notifications = append(notes, n)
	return n
}
