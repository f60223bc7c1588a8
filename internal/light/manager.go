package light

import (
	"fmt"

	"github.com/lumenlab/ledsignal/internal/color"
)

// Manager is the top-level scene registry. It owns its scenes exclusively;
// all command routing resolves top-down through it by id path.
type Manager struct {
	ledCount int

	order    []string
	scenes   map[string]*Scene
	activeID string
}

// NewManager creates an empty manager for strips of the given size.
func NewManager(ledCount int) *Manager {
	if ledCount < 1 {
		ledCount = 1
	}
	return &Manager{
		ledCount: ledCount,
		scenes:   make(map[string]*Scene),
	}
}

// LEDCount returns the configured strip size.
func (m *Manager) LEDCount() int { return m.ledCount }

// AddScene creates and registers an empty scene. The first scene added
// becomes active.
func (m *Manager) AddScene(id string) (*Scene, error) {
	if _, ok := m.scenes[id]; ok {
		return nil, fmt.Errorf("scene %q: %w", id, ErrDuplicateID)
	}
	sc := NewScene(id)
	m.scenes[id] = sc
	m.order = append(m.order, id)
	if m.activeID == "" {
		m.activeID = id
	}
	return sc, nil
}

// RemoveScene removes a scene. Removing the active scene fails with
// ErrActiveScene: switch away first. Silently blanking the installation
// is worse than an observable, reversible failure.
func (m *Manager) RemoveScene(id string) error {
	if _, ok := m.scenes[id]; !ok {
		return fmt.Errorf("scene %q: %w", id, ErrNotFound)
	}
	if id == m.activeID {
		return fmt.Errorf("scene %q: %w", id, ErrActiveScene)
	}
	delete(m.scenes, id)
	for i, sid := range m.order {
		if sid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// SwitchScene makes another scene active, instantly. There is no
// cross-scene fade.
func (m *Manager) SwitchScene(id string) error {
	if _, ok := m.scenes[id]; !ok {
		return fmt.Errorf("scene %q: %w", id, ErrNotFound)
	}
	m.activeID = id
	return nil
}

// ListScenes returns scene ids in creation order.
func (m *Manager) ListScenes() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Scene resolves a scene by id.
func (m *Manager) Scene(id string) (*Scene, bool) {
	sc, ok := m.scenes[id]
	return sc, ok
}

// ActiveScene returns the active scene, if any.
func (m *Manager) ActiveScene() (*Scene, bool) {
	sc, ok := m.scenes[m.activeID]
	return sc, ok
}

// ActiveSceneID returns the id of the active scene, or "".
func (m *Manager) ActiveSceneID() string { return m.activeID }

// ReplaceScene swaps a scene's contents in place, keeping its position in
// the creation order. Used by file loads so a torn hierarchy is never
// visible: the new scene is fully built before the swap.
func (m *Manager) ReplaceScene(id string, sc *Scene) error {
	if _, ok := m.scenes[id]; !ok {
		return fmt.Errorf("scene %q: %w", id, ErrNotFound)
	}
	sc.ID = id
	m.scenes[id] = sc
	return nil
}

// ReplaceAll swaps the entire registry: scenes in the given order, with the
// first scene active. Used by manager-level document loads.
func (m *Manager) ReplaceAll(scenes []*Scene) {
	m.scenes = make(map[string]*Scene, len(scenes))
	m.order = m.order[:0]
	m.activeID = ""
	for _, sc := range scenes {
		m.scenes[sc.ID] = sc
		m.order = append(m.order, sc.ID)
	}
	if len(m.order) > 0 {
		m.activeID = m.order[0]
	}
}

// Update advances the active scene by dt seconds.
func (m *Manager) Update(dt float64) {
	if sc, ok := m.scenes[m.activeID]; ok {
		sc.Update(dt)
	}
}

// Render writes the active scene's frame into buf, or a blank frame when
// no scene is active.
func (m *Manager) Render(buf []color.RGB) {
	sc, ok := m.scenes[m.activeID]
	if !ok {
		for i := range buf {
			buf[i] = color.Black
		}
		return
	}
	sc.Render(buf)
}
