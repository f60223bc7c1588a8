package light

import (
	"fmt"

	"github.com/lumenlab/ledsignal/internal/color"
)

// DefaultPaletteName is the palette new effects start on.
const DefaultPaletteName = "A"

// DefaultPalettes returns the built-in palette library A-E, expressed as
// evenly spaced gradient stops.
func DefaultPalettes() map[string]color.Palette {
	return map[string]color.Palette{
		"A": color.Uniform(
			color.RGB{R: 255},
			color.RGB{G: 255},
			color.RGB{B: 255},
			color.RGB{R: 255, G: 255},
			color.RGB{G: 255, B: 255},
			color.RGB{R: 255, B: 255},
		),
		"B": color.Uniform(
			color.RGB{R: 255, G: 128},
			color.RGB{R: 128, B: 255},
			color.RGB{G: 128, B: 255},
			color.RGB{R: 255, B: 128},
			color.RGB{R: 128, G: 255},
			color.RGB{R: 255, G: 255, B: 255},
		),
		"C": color.Uniform(
			color.RGB{R: 128},
			color.RGB{G: 128},
			color.RGB{B: 128},
			color.RGB{R: 128, G: 128},
			color.RGB{G: 128, B: 128},
			color.RGB{R: 128, B: 128},
		),
		"D": color.Uniform(
			color.RGB{R: 255, G: 200, B: 200},
			color.RGB{R: 200, G: 255, B: 200},
			color.RGB{R: 200, G: 200, B: 255},
			color.RGB{R: 255, G: 255, B: 200},
			color.RGB{R: 200, G: 255, B: 255},
			color.RGB{R: 255, G: 200, B: 255},
		),
		"E": color.Uniform(
			color.RGB{R: 100, G: 100, B: 100},
			color.RGB{R: 150, G: 150, B: 150},
			color.RGB{R: 200, G: 200, B: 200},
			color.RGB{R: 255, G: 100, B: 50},
			color.RGB{R: 50, G: 100, B: 255},
			color.RGB{R: 150, G: 255, B: 150},
		),
	}
}

// DefaultScenes builds the out-of-the-box installation: one scene with
// three effects of three bouncing palette-slice segments each, spread
// around the strip's center. Used when neither a snapshot nor a scenes
// file exists at startup.
func DefaultScenes(ledCount int) []*Scene {
	sc := NewScene("1")
	center := float64(ledCount / 2)
	for e := 1; e <= 3; e++ {
		effect := NewEffect(fmt.Sprintf("%d", e), ledCount)
		for i := 1; i <= 3; i++ {
			seg := NewSegment(fmt.Sprintf("%d", i), ledCount)
			seg.Length = 10
			seg.Position = center - 30 + float64(i*30)
			speed := 10.0
			if i%2 != 0 {
				speed = -speed
			}
			seg.Movement = Movement{
				Mode:   MoveBounce,
				Speed:  speed,
				Bounds: Bounds{Min: 0, Max: float64(ledCount - 1)},
			}
			seg.Source = ColorSource{Kind: SourcePalette, PalettePos: float64(i-1) / 2}
			_ = effect.AddSegment(seg)
		}
		_ = sc.AddEffect(effect)
	}
	return []*Scene{sc}
}

// DefaultManager wraps DefaultScenes in a ready manager.
func DefaultManager(ledCount int) *Manager {
	m := NewManager(ledCount)
	m.ReplaceAll(DefaultScenes(ledCount))
	return m
}
