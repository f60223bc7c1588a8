package light

import (
	"fmt"
	"math"

	"github.com/lumenlab/ledsignal/internal/color"
)

// Effect composites an ordered list of segments onto one LED buffer of
// fixed size. Later segments render over earlier ones; additive segments
// add with 8-bit saturation instead of overwriting.
type Effect struct {
	ID         string
	LEDCount   int
	Background color.RGB

	order    []string
	segments map[string]*Segment

	paletteName string
	palette     color.Palette
	transition  *color.Transition
}

// NewEffect creates an empty effect. The LED buffer size is fixed for the
// effect's lifetime.
func NewEffect(id string, ledCount int) *Effect {
	if ledCount < 1 {
		ledCount = 1
	}
	return &Effect{
		ID:       id,
		LEDCount: ledCount,
		segments: make(map[string]*Segment),
	}
}

// AddSegment appends a segment to the render order. Segment ids must be
// unique within the effect; the length is capped at the buffer size.
func (e *Effect) AddSegment(seg *Segment) error {
	if _, ok := e.segments[seg.ID]; ok {
		return fmt.Errorf("segment %q: %w", seg.ID, ErrDuplicateID)
	}
	if seg.Length > e.LEDCount {
		seg.Length = e.LEDCount
	}
	if seg.Length < 1 {
		seg.Length = 1
	}
	e.segments[seg.ID] = seg
	e.order = append(e.order, seg.ID)
	return nil
}

// RemoveSegment removes a segment from the effect.
func (e *Effect) RemoveSegment(id string) error {
	if _, ok := e.segments[id]; !ok {
		return fmt.Errorf("segment %q: %w", id, ErrNotFound)
	}
	delete(e.segments, id)
	for i, sid := range e.order {
		if sid == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	return nil
}

// Segment resolves a segment by id.
func (e *Effect) Segment(id string) (*Segment, bool) {
	seg, ok := e.segments[id]
	return seg, ok
}

// Segments returns the segments in render order.
func (e *Effect) Segments() []*Segment {
	out := make([]*Segment, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.segments[id])
	}
	return out
}

// SetPalette replaces the current palette immediately, cancelling any
// running transition. The palette is snapshot-copied by value: later
// changes to the scene's named palette do not leak in.
func (e *Effect) SetPalette(name string, p color.Palette) {
	e.paletteName = name
	e.palette = p
	e.transition = nil
}

// ChangePalette starts a timed crossfade from the currently rendered
// palette to the target. Starting a new transition while one is active
// replaces it, restarting from the current effective colors.
func (e *Effect) ChangePalette(name string, target color.Palette, duration float64) {
	src := e.EffectivePalette()
	e.paletteName = name
	e.transition = color.NewTransition(src, target, duration)
}

// PaletteName returns the name of the current (or targeted) palette.
func (e *Effect) PaletteName() string { return e.paletteName }

// EffectivePalette returns the palette segments see this frame: the
// transition blend while one is active, the current palette otherwise.
func (e *Effect) EffectivePalette() color.Palette {
	if e.transition != nil {
		return e.transition.Current()
	}
	return e.palette
}

// Update advances every segment and the palette transition by dt seconds.
// Segments do not read each other's state, so order does not matter here.
func (e *Effect) Update(dt float64) {
	for _, seg := range e.segments {
		seg.Advance(dt)
	}
	if e.transition != nil {
		e.transition.Advance(dt)
		if e.transition.Done() {
			// Transition self-terminates; pin the target as current.
			e.palette = e.transition.To
			e.transition = nil
		}
	}
}

// Render writes the composited frame into buf. buf is initialized to the
// background color; segments then write in list order, later segments
// overwriting (or saturating-adding over) earlier ones.
func (e *Effect) Render(buf []color.RGB) {
	n := e.LEDCount
	if len(buf) < n {
		n = len(buf)
	}
	for i := 0; i < n; i++ {
		buf[i] = e.Background
	}
	for i := n; i < len(buf); i++ {
		buf[i] = color.Black
	}

	palette := e.EffectivePalette()
	for _, id := range e.order {
		seg := e.segments[id]
		lo := int(math.Floor(seg.Position))
		hi := int(math.Ceil(seg.Position + float64(seg.Length)))
		if lo < 0 {
			lo = 0
		}
		if hi > n {
			hi = n
		}
		for i := lo; i < hi; i++ {
			c, ok := seg.ColorAt(i, palette)
			if !ok {
				continue
			}
			if seg.Blend == BlendAdditive {
				buf[i] = color.Add(buf[i], c)
			} else {
				buf[i] = c
			}
		}
	}
}
