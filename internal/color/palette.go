package color

import (
	"fmt"
	"sort"
)

// Stop is a single gradient stop at a normalized position.
type Stop struct {
	Position float64
	Color    RGB
}

// Palette is an ordered color gradient: stops at strictly increasing
// positions, first at 0, last at 1.
type Palette struct {
	stops []Stop
}

// NewPalette validates and builds a palette from stops.
func NewPalette(stops []Stop) (Palette, error) {
	if len(stops) < 2 {
		return Palette{}, fmt.Errorf("palette needs at least 2 stops, got %d", len(stops))
	}
	if stops[0].Position != 0 {
		return Palette{}, fmt.Errorf("first stop must be at position 0, got %g", stops[0].Position)
	}
	if stops[len(stops)-1].Position != 1 {
		return Palette{}, fmt.Errorf("last stop must be at position 1, got %g", stops[len(stops)-1].Position)
	}
	for i := 1; i < len(stops); i++ {
		if stops[i].Position <= stops[i-1].Position {
			return Palette{}, fmt.Errorf("stop positions must be strictly increasing at index %d", i)
		}
	}
	cp := make([]Stop, len(stops))
	copy(cp, stops)
	return Palette{stops: cp}, nil
}

// MustPalette is NewPalette for static palette definitions.
func MustPalette(stops []Stop) Palette {
	p, err := NewPalette(stops)
	if err != nil {
		panic(err)
	}
	return p
}

// Uniform builds a palette from evenly spaced colors.
func Uniform(colors ...RGB) Palette {
	if len(colors) == 1 {
		colors = append(colors, colors[0])
	}
	stops := make([]Stop, len(colors))
	for i, c := range colors {
		stops[i] = Stop{Position: float64(i) / float64(len(colors)-1), Color: c}
	}
	return Palette{stops: stops}
}

// IsZero reports whether the palette has no stops.
func (p Palette) IsZero() bool { return len(p.stops) == 0 }

// Stops returns a copy of the palette's stops.
func (p Palette) Stops() []Stop {
	cp := make([]Stop, len(p.stops))
	copy(cp, p.stops)
	return cp
}

// ColorAt interpolates the gradient at position x. x is clamped to [0,1].
func (p Palette) ColorAt(x float64) RGB {
	if len(p.stops) == 0 {
		return Black
	}
	if x <= p.stops[0].Position {
		return p.stops[0].Color
	}
	last := p.stops[len(p.stops)-1]
	if x >= last.Position {
		return last.Color
	}
	// Find the bracketing pair.
	i := sort.Search(len(p.stops), func(i int) bool { return p.stops[i].Position >= x })
	lo, hi := p.stops[i-1], p.stops[i]
	t := (x - lo.Position) / (hi.Position - lo.Position)
	return Lerp(lo.Color, hi.Color, t)
}

// BlendPalettes produces the palette that is the weight-t blend of src and
// dst, sampled at the union of both stop positions. With identical stop
// layouts this is exactly the per-stop blend.
func BlendPalettes(src, dst Palette, t float64) Palette {
	t = clamp01(t)
	if t <= 0 {
		return src
	}
	if t >= 1 {
		return dst
	}
	positions := unionPositions(src.stops, dst.stops)
	stops := make([]Stop, len(positions))
	for i, pos := range positions {
		stops[i] = Stop{
			Position: pos,
			Color:    Lerp(src.ColorAt(pos), dst.ColorAt(pos), t),
		}
	}
	return Palette{stops: stops}
}

func unionPositions(a, b []Stop) []float64 {
	seen := make(map[float64]struct{}, len(a)+len(b))
	for _, s := range a {
		seen[s.Position] = struct{}{}
	}
	for _, s := range b {
		seen[s.Position] = struct{}{}
	}
	out := make([]float64, 0, len(seen))
	for pos := range seen {
		out = append(out, pos)
	}
	sort.Float64s(out)
	return out
}

// Transition is a timed crossfade between two palette snapshots. Both ends
// are frozen at construction, so replacing a named palette mid-transition
// does not retarget it.
type Transition struct {
	From     Palette
	To       Palette
	Elapsed  float64
	Duration float64
}

// NewTransition starts a crossfade from src to dst over duration seconds.
// A non-positive duration completes immediately.
func NewTransition(src, dst Palette, duration float64) *Transition {
	if duration < 0 {
		duration = 0
	}
	return &Transition{From: src, To: dst, Duration: duration}
}

// Advance moves the transition forward by dt seconds.
func (t *Transition) Advance(dt float64) {
	t.Elapsed += dt
}

// Done reports whether the transition has run to completion.
func (t *Transition) Done() bool {
	return t.Elapsed >= t.Duration
}

// Current returns the effective palette at the current elapsed time.
// At elapsed=0 this is exactly From; once done it is exactly To.
func (t *Transition) Current() Palette {
	if t.Duration <= 0 || t.Done() {
		return t.To
	}
	return BlendPalettes(t.From, t.To, t.Elapsed/t.Duration)
}
