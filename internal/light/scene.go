package light

import (
	"fmt"

	"github.com/lumenlab/ledsignal/internal/color"
)

// Scene is an ordered collection of effects, one active at a time, sharing
// a named palette library. Effects reference palettes by name and snapshot
// them by value, so replacing a named palette never mutates a running
// transition.
type Scene struct {
	ID string

	order   []string
	effects map[string]*Effect

	activeID string

	// Effect crossfade state. While prevID is set, both effects are
	// updated and rendered and their buffers alpha-blended.
	prevID       string
	fadeElapsed  float64
	fadeDuration float64

	palettes map[string]color.Palette

	scratchA []color.RGB
	scratchB []color.RGB
}

// NewScene creates a scene with the built-in palette library.
func NewScene(id string) *Scene {
	return &Scene{
		ID:       id,
		effects:  make(map[string]*Effect),
		palettes: DefaultPalettes(),
	}
}

// AddEffect appends an effect. The first effect added becomes active.
func (s *Scene) AddEffect(e *Effect) error {
	if _, ok := s.effects[e.ID]; ok {
		return fmt.Errorf("effect %q: %w", e.ID, ErrDuplicateID)
	}
	s.effects[e.ID] = e
	s.order = append(s.order, e.ID)
	if e.PaletteName() == "" {
		s.applyDefaultPalette(e)
	}
	if s.activeID == "" {
		s.activeID = e.ID
	}
	return nil
}

func (s *Scene) applyDefaultPalette(e *Effect) {
	if p, ok := s.palettes[DefaultPaletteName]; ok {
		e.SetPalette(DefaultPaletteName, p)
	}
}

// RemoveEffect removes an effect. Removing the active effect activates the
// first remaining effect in order, or none if the scene is now empty.
func (s *Scene) RemoveEffect(id string) error {
	if _, ok := s.effects[id]; !ok {
		return fmt.Errorf("effect %q: %w", id, ErrNotFound)
	}
	delete(s.effects, id)
	for i, eid := range s.order {
		if eid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.prevID == id {
		s.prevID = ""
	}
	if s.activeID == id {
		s.activeID = ""
		s.prevID = ""
		if len(s.order) > 0 {
			s.activeID = s.order[0]
		}
	}
	return nil
}

// Effect resolves an effect by id.
func (s *Scene) Effect(id string) (*Effect, bool) {
	e, ok := s.effects[id]
	return e, ok
}

// Effects returns the effects in insertion order.
func (s *Scene) Effects() []*Effect {
	out := make([]*Effect, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.effects[id])
	}
	return out
}

// ActiveEffectID returns the id of the active effect, or "" if none.
func (s *Scene) ActiveEffectID() string { return s.activeID }

// SetActiveEffect switches the active effect instantly.
func (s *Scene) SetActiveEffect(id string) error {
	if _, ok := s.effects[id]; !ok {
		return fmt.Errorf("effect %q: %w", id, ErrNotFound)
	}
	s.activeID = id
	s.prevID = ""
	return nil
}

// ChangeEffect starts a scene-level crossfade to the target effect. The
// outgoing and incoming effects render concurrently, blended by
// elapsed/duration; once complete the old effect stops being updated.
// Starting a new crossfade replaces a running one.
func (s *Scene) ChangeEffect(id string, duration float64) error {
	if _, ok := s.effects[id]; !ok {
		return fmt.Errorf("effect %q: %w", id, ErrNotFound)
	}
	if duration <= 0 || s.activeID == "" || s.activeID == id {
		return s.SetActiveEffect(id)
	}
	s.prevID = s.activeID
	s.activeID = id
	s.fadeElapsed = 0
	s.fadeDuration = duration
	return nil
}

// Palette resolves a named palette.
func (s *Scene) Palette(name string) (color.Palette, bool) {
	p, ok := s.palettes[name]
	return p, ok
}

// Palettes returns a copy of the named palette library.
func (s *Scene) Palettes() map[string]color.Palette {
	out := make(map[string]color.Palette, len(s.palettes))
	for name, p := range s.palettes {
		out[name] = p
	}
	return out
}

// SetPalette applies a named palette immediately to every effect.
func (s *Scene) SetPalette(name string) error {
	p, ok := s.palettes[name]
	if !ok {
		return fmt.Errorf("palette %q: %w", name, ErrNotFound)
	}
	for _, e := range s.effects {
		e.SetPalette(name, p)
	}
	return nil
}

// SetEffectPalette applies a named palette to one effect immediately.
func (s *Scene) SetEffectPalette(effectID, name string) error {
	e, ok := s.effects[effectID]
	if !ok {
		return fmt.Errorf("effect %q: %w", effectID, ErrNotFound)
	}
	p, ok := s.palettes[name]
	if !ok {
		return fmt.Errorf("palette %q: %w", name, ErrNotFound)
	}
	e.SetPalette(name, p)
	return nil
}

// ChangeEffectPalette starts a timed palette crossfade on one effect.
func (s *Scene) ChangeEffectPalette(effectID, name string, duration float64) error {
	e, ok := s.effects[effectID]
	if !ok {
		return fmt.Errorf("effect %q: %w", effectID, ErrNotFound)
	}
	p, ok := s.palettes[name]
	if !ok {
		return fmt.Errorf("palette %q: %w", name, ErrNotFound)
	}
	e.ChangePalette(name, p, duration)
	return nil
}

// ReplaceEffects swaps the scene's whole effect list, resetting any
// running crossfade. The first effect becomes active. Used by effects-file
// loads, which build the replacement list fully before the swap.
func (s *Scene) ReplaceEffects(effects []*Effect) {
	s.effects = make(map[string]*Effect, len(effects))
	s.order = s.order[:0]
	s.activeID = ""
	s.prevID = ""
	for _, e := range effects {
		s.effects[e.ID] = e
		s.order = append(s.order, e.ID)
		if e.PaletteName() == "" {
			s.applyDefaultPalette(e)
		}
	}
	if len(s.order) > 0 {
		s.activeID = s.order[0]
	}
}

// UpdatePalettes bulk-replaces the named palette library. Effects that are
// not mid-transition refresh their snapshot if their palette name survives;
// an in-flight transition keeps its frozen source and target.
func (s *Scene) UpdatePalettes(palettes map[string]color.Palette) {
	s.palettes = make(map[string]color.Palette, len(palettes))
	for name, p := range palettes {
		s.palettes[name] = p
	}
	for _, e := range s.effects {
		if e.transition != nil {
			continue
		}
		if p, ok := s.palettes[e.PaletteName()]; ok {
			e.SetPalette(e.PaletteName(), p)
		}
	}
}

// Update advances the active effect (and the outgoing effect during a
// crossfade) by dt seconds.
func (s *Scene) Update(dt float64) {
	if s.prevID != "" {
		s.fadeElapsed += dt
		if prev, ok := s.effects[s.prevID]; ok {
			prev.Update(dt)
		}
		if s.fadeElapsed >= s.fadeDuration {
			s.prevID = ""
		}
	}
	if active, ok := s.effects[s.activeID]; ok {
		active.Update(dt)
	}
}

// Render writes the scene's frame into buf. During an effect crossfade the
// outgoing and incoming buffers are alpha-blended by elapsed/duration.
func (s *Scene) Render(buf []color.RGB) {
	for i := range buf {
		buf[i] = color.Black
	}
	active, ok := s.effects[s.activeID]
	if !ok {
		return
	}
	if s.prevID == "" {
		active.Render(buf)
		return
	}
	prev, ok := s.effects[s.prevID]
	if !ok {
		active.Render(buf)
		return
	}
	if len(s.scratchA) != len(buf) {
		s.scratchA = make([]color.RGB, len(buf))
		s.scratchB = make([]color.RGB, len(buf))
	}
	prev.Render(s.scratchA)
	active.Render(s.scratchB)
	alpha := 1.0
	if s.fadeDuration > 0 {
		alpha = s.fadeElapsed / s.fadeDuration
	}
	color.Mix(buf, s.scratchA, s.scratchB, alpha)
}
