// Package state owns the application state: disasters, their resources,
// volunteers and the legacy global resource list. Every mutation goes through
// a Manager method, runs under the manager lock, and ends with the full
// snapshot being written to the store.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go-reliefdesk/db"
	"go-reliefdesk/metrics"
	"go-reliefdesk/types"

	"github.com/sirupsen/logrus"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

const (
	seedDisasterType = types.Flood
	seedDisasterName = "Initial Flood Response"
)

// Geocoder resolves a free text deployment location to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*types.Coordinates, error)
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}

func WithGeocoder(g Geocoder) Option {
	return func(m *Manager) { m.geocoder = g }
}

type Manager struct {
	mu       sync.Mutex
	store    db.Store
	now      func() time.Time
	metrics  *metrics.Metrics
	geocoder Geocoder

	disasters        []types.Disaster
	selectedDisaster string
	resources        []types.Resource
	volunteers       []types.Volunteer

	// last disaster id handed out, in unix millis
	lastID int64
}

func New(store db.Store, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init loads the persisted snapshot, or seeds a default disaster when there is
// none or it cannot be parsed, and writes the result back.
// Only a failing store read is returned as an error.
func (m *Manager) Init(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := m.store.Load(ctx, db.SnapshotKey)
	switch {
	case errors.Is(err, db.ErrNotFound):
		logrus.Info("No saved state found, seeding default disaster")
		m.reset()
	case err != nil:
		return fmt.Errorf("load state: %w", err)
	default:
		var snap types.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			logrus.WithError(err).Error("Error loading disaster data, seeding default disaster")
			m.reset()
		} else {
			m.restore(snap)
		}
	}

	m.persist(ctx)
	return nil
}

func (m *Manager) reset() {
	m.disasters = nil
	m.volunteers = nil
	m.resources = nil
	m.selectedDisaster = ""
	m.seed()
}

func (m *Manager) seed() {
	d := types.Disaster{
		ID:        m.nextDisasterID(),
		Type:      seedDisasterType,
		Name:      seedDisasterName,
		Resources: types.DefaultResources(seedDisasterType),
		CreatedAt: m.now().UTC(),
		IsActive:  true,
	}
	m.disasters = []types.Disaster{d}
	m.selectedDisaster = d.Name
}

func (m *Manager) restore(snap types.Snapshot) {
	m.disasters = make([]types.Disaster, 0, len(snap.Disasters))
	for _, d := range snap.Disasters {
		d.Resources = types.NormalizeResources(d.Resources)
		m.disasters = append(m.disasters, d)
		if id, err := strconv.ParseInt(d.ID, 10, 64); err == nil && id > m.lastID {
			m.lastID = id
		}
	}
	m.selectedDisaster = snap.SelectedDisaster
	m.resources = types.NormalizeResources(snap.Resources)
	m.volunteers = make([]types.Volunteer, 0, len(snap.Volunteers))
	m.volunteers = append(m.volunteers, snap.Volunteers...)

	if len(m.disasters) == 0 {
		m.seed()
		return
	}

	if snap.ActiveDisasterID != nil && m.indexOf(*snap.ActiveDisasterID) >= 0 {
		m.activate(*snap.ActiveDisasterID)
		return
	}

	// No usable active id stored: fall back to the first disaster.
	first := m.disasters[0]
	m.activate(first.ID)
	if m.selectedDisaster == "" {
		m.selectedDisaster = first.DisplayName()
	}
}

// nextDisasterID returns the current time in millis, bumped past any id already issued.
func (m *Manager) nextDisasterID() string {
	id := m.now().UnixMilli()
	if id <= m.lastID {
		id = m.lastID + 1
	}
	for m.indexOf(strconv.FormatInt(id, 10)) >= 0 {
		id++
	}
	m.lastID = id
	return strconv.FormatInt(id, 10)
}

// commit records the mutation and writes the full snapshot. Callers hold m.mu.
func (m *Manager) commit(ctx context.Context, op string) {
	m.metrics.Mutation(op)
	m.persist(ctx)
}

// persist overwrites the stored snapshot. A failed write is logged and the
// in-memory state is kept as is. Callers hold m.mu.
func (m *Manager) persist(ctx context.Context) {
	data, err := json.Marshal(m.snapshot())
	if err != nil {
		logrus.WithError(err).Error("Failed to encode state snapshot")
		m.metrics.PersistFailure()
		return
	}
	if err := m.store.Save(ctx, db.SnapshotKey, data); err != nil {
		logrus.WithError(err).Error("Failed to save state snapshot")
		m.metrics.PersistFailure()
	}
}

func (m *Manager) snapshot() types.Snapshot {
	snap := types.Snapshot{
		Disasters:        make([]types.Disaster, len(m.disasters)),
		SelectedDisaster: m.selectedDisaster,
		Resources:        types.CloneResources(m.resources),
		Volunteers:       make([]types.Volunteer, len(m.volunteers)),
		LastUpdated:      m.now().UTC(),
	}
	if snap.Resources == nil {
		snap.Resources = []types.Resource{}
	}
	for i, d := range m.disasters {
		snap.Disasters[i] = d.Clone()
	}
	for i, v := range m.volunteers {
		snap.Volunteers[i] = v.Clone()
	}
	if i := m.activeIndex(); i >= 0 {
		id := m.disasters[i].ID
		snap.ActiveDisasterID = &id
	}
	return snap
}

// Snapshot returns a copy of the state in its persisted shape.
func (m *Manager) Snapshot() types.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}
