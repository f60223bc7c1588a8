// Package light implements the scene/effect/segment hierarchy and the
// per-frame animation math. Nothing in this package is goroutine-safe:
// the render loop is the single writer (see internal/engine).
package light

import (
	"math"

	"github.com/lumenlab/ledsignal/internal/color"
)

// MoveMode selects how a segment's position evolves per tick.
type MoveMode string

const (
	MoveStatic MoveMode = "static"
	MoveLinear MoveMode = "linear"
	MoveBounce MoveMode = "bounce"
	MoveWrap   MoveMode = "wrap"
)

// BlendMode selects how a segment composites over earlier segments.
type BlendMode string

const (
	BlendOverwrite BlendMode = "overwrite"
	BlendAdditive  BlendMode = "additive"
)

// SourceKind selects where a segment's colors come from.
type SourceKind string

const (
	SourceSolid    SourceKind = "solid"
	SourceGradient SourceKind = "gradient"
	SourcePalette  SourceKind = "palette"
)

// Bounds is the movement range, in LED indices.
type Bounds struct {
	Min float64
	Max float64
}

// Span returns Max-Min, never negative.
func (b Bounds) Span() float64 {
	if b.Max <= b.Min {
		return 0
	}
	return b.Max - b.Min
}

// Movement describes a segment's motion rule.
type Movement struct {
	Mode   MoveMode
	Speed  float64 // LEDs per second; sign is direction for wrap
	Bounds Bounds
}

// ColorSource describes where a segment's per-LED colors come from.
// For gradient sources, the owning effect's palette is sampled from
// GradientStart to GradientEnd across the segment's length. For palette
// sources a single fixed palette position is used for the whole segment.
type ColorSource struct {
	Kind          SourceKind
	Solid         color.RGB
	GradientStart float64
	GradientEnd   float64
	PalettePos    float64
}

// Fade is the per-segment brightness envelope: brightness ramps 0..1 over
// the first InRatio of the length and 1..0 over the last OutRatio.
type Fade struct {
	Enabled  bool
	InRatio  float64
	OutRatio float64
}

// Segment is the atomic animated unit: a contiguous run of LEDs.
type Segment struct {
	ID       string
	Position float64 // leftmost LED index, may be fractional
	Length   int
	Movement Movement
	Source   ColorSource
	Fade     Fade
	Blend    BlendMode
	Dimmer   float64 // overall brightness scalar, 0..1
}

// NewSegment creates a segment with defaults spanning the given strip:
// full-palette gradient, static, full brightness.
func NewSegment(id string, ledCount int) *Segment {
	length := ledCount
	if length < 1 {
		length = 1
	}
	return &Segment{
		ID:     id,
		Length: length,
		Movement: Movement{
			Mode:   MoveStatic,
			Bounds: Bounds{Min: 0, Max: float64(ledCount - 1)},
		},
		Source: ColorSource{
			Kind:          SourceGradient,
			GradientStart: 0,
			GradientEnd:   1,
		},
		Blend:  BlendOverwrite,
		Dimmer: 1,
	}
}

// Advance updates the segment's position by its movement rule. It never
// fails and always leaves the position inside the movement bounds.
func (s *Segment) Advance(dt float64) {
	m := &s.Movement
	switch m.Mode {
	case MoveStatic:
		return
	case MoveLinear, MoveWrap:
		s.Position = wrapPosition(s.Position+m.Speed*dt, m.Bounds)
	case MoveBounce:
		s.Position, m.Speed = bouncePosition(s.Position, m.Speed, dt, m.Bounds)
	}
}

// wrapPosition folds p into [min,max) as a continuous loop.
func wrapPosition(p float64, b Bounds) float64 {
	span := b.Span()
	if span == 0 {
		return b.Min
	}
	r := math.Mod(p-b.Min, span)
	if r < 0 {
		r += span
	}
	return b.Min + r
}

// bouncePosition reflects p at both bounds, folding arbitrary overshoot
// (a dt larger than the bound span must not clamp-and-stop). Returns the
// folded position and the post-reflection speed.
func bouncePosition(p, speed, dt float64, b Bounds) (float64, float64) {
	span := b.Span()
	if span == 0 {
		return b.Min, speed
	}
	period := 2 * span
	r := math.Mod(p+speed*dt-b.Min, period)
	if r < 0 {
		r += period
	}
	if r > span {
		// Reflected half of the cycle: direction is inverted there.
		return b.Min + (period - r), -speed
	}
	return b.Min + r, speed
}

// Covers reports whether the segment covers the given LED index, i.e.
// index lies in [position, position+length).
func (s *Segment) Covers(index int) bool {
	rel := float64(index) - s.Position
	return rel >= 0 && rel < float64(s.Length)
}

// ColorAt returns the composited color for a covered LED index:
// source color at the relative offset, scaled by the fade envelope and
// the dimmer. ok is false for indices outside the segment.
func (s *Segment) ColorAt(index int, palette color.Palette) (c color.RGB, ok bool) {
	rel := float64(index) - s.Position
	if rel < 0 || rel >= float64(s.Length) {
		return color.Black, false
	}
	offset := rel / float64(s.Length)

	base := s.sourceColor(offset, palette)
	level := s.fadeLevel(offset) * clampRatio(s.Dimmer)
	return color.Scale(base, level), true
}

func (s *Segment) sourceColor(offset float64, palette color.Palette) color.RGB {
	switch s.Source.Kind {
	case SourceSolid:
		return s.Source.Solid
	case SourceGradient:
		if palette.IsZero() {
			return fallbackColor
		}
		pos := s.Source.GradientStart + (s.Source.GradientEnd-s.Source.GradientStart)*offset
		return palette.ColorAt(pos)
	case SourcePalette:
		if palette.IsZero() {
			return fallbackColor
		}
		return palette.ColorAt(s.Source.PalettePos)
	default:
		// Malformed source: keep rendering, fall back to a solid color.
		return fallbackColor
	}
}

// fallbackColor is rendered when a segment's color source cannot be
// resolved; the frame must still be produced.
var fallbackColor = color.RGB{R: 255}

// fadeLevel returns the brightness multiplier at a relative offset in
// [0,1). Both ratios zero disables fading.
func (s *Segment) fadeLevel(offset float64) float64 {
	if !s.Fade.Enabled {
		return 1
	}
	in := clampRatio(s.Fade.InRatio)
	out := clampRatio(s.Fade.OutRatio)
	if in+out > 1 {
		// Ratios may not overlap; shrink the out window.
		out = 1 - in
	}
	if in > 0 && offset < in {
		return offset / in
	}
	if out > 0 && offset > 1-out {
		return (1 - offset) / out
	}
	return 1
}

func clampRatio(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
