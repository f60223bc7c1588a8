// Package color provides the RGB value type, palette gradients and timed
// palette transitions used by the rendering engine.
package color

// RGB is a single LED color, one unsigned byte per channel.
type RGB struct {
	R, G, B uint8
}

var Black = RGB{}

// Lerp linearly interpolates between a and b. t is clamped to [0,1], so the
// result always lies between the two inputs componentwise.
func Lerp(a, b RGB, t float64) RGB {
	t = clamp01(t)
	return RGB{
		R: lerpChannel(a.R, b.R, t),
		G: lerpChannel(a.G, b.G, t),
		B: lerpChannel(a.B, b.B, t),
	}
}

// Scale multiplies every channel by f (clamped to [0,1]).
func Scale(c RGB, f float64) RGB {
	f = clamp01(f)
	return RGB{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
	}
}

// Add sums two colors with 8-bit saturation per channel.
func Add(a, b RGB) RGB {
	return RGB{
		R: satAdd(a.R, b.R),
		G: satAdd(a.G, b.G),
		B: satAdd(a.B, b.B),
	}
}

// Mix blends framebuffer b over framebuffer a into dst by alpha (0..1).
// All three slices must have the same length.
func Mix(dst, a, b []RGB, alpha float64) {
	if alpha <= 0 {
		copy(dst, a)
		return
	}
	if alpha >= 1 {
		copy(dst, b)
		return
	}
	for i := range dst {
		dst[i] = Lerp(a[i], b[i], alpha)
	}
}

func lerpChannel(a, b uint8, t float64) uint8 {
	v := float64(a) + (float64(b)-float64(a))*t
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func satAdd(a, b uint8) uint8 {
	s := uint16(a) + uint16(b)
	if s > 255 {
		return 255
	}
	return uint8(s)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
