package light

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenlab/ledsignal/internal/color"
)

func solidSegment(id string, pos float64, length int, c color.RGB) *Segment {
	seg := NewSegment(id, length)
	seg.Position = pos
	seg.Length = length
	seg.Source = ColorSource{Kind: SourceSolid, Solid: c}
	return seg
}

func TestRender_SolidRedStrip(t *testing.T) {
	e := NewEffect("fx", 10)
	require.NoError(t, e.AddSegment(solidSegment("s1", 0, 10, color.RGB{R: 255})))

	buf := make([]color.RGB, 10)
	e.Render(buf)

	for i, c := range buf {
		assert.Equal(t, color.RGB{R: 255}, c, "led %d", i)
	}
}

func TestRender_OverlapOverwrite(t *testing.T) {
	e := NewEffect("fx", 10)
	require.NoError(t, e.AddSegment(solidSegment("red", 0, 5, color.RGB{R: 255})))
	blue := solidSegment("blue", 3, 5, color.RGB{B: 255})
	require.NoError(t, e.AddSegment(blue))

	buf := make([]color.RGB, 10)
	e.Render(buf)

	for i := 0; i < 3; i++ {
		assert.Equal(t, color.RGB{R: 255}, buf[i], "led %d red", i)
	}
	for i := 3; i < 8; i++ {
		assert.Equal(t, color.RGB{B: 255}, buf[i], "led %d blue overwrites", i)
	}
	for i := 8; i < 10; i++ {
		assert.Equal(t, color.Black, buf[i], "led %d background", i)
	}
}

func TestRender_AdditiveSaturates(t *testing.T) {
	e := NewEffect("fx", 4)
	require.NoError(t, e.AddSegment(solidSegment("a", 0, 4, color.RGB{R: 200, G: 10})))
	add := solidSegment("b", 0, 4, color.RGB{R: 100, G: 10, B: 5})
	add.Blend = BlendAdditive
	require.NoError(t, e.AddSegment(add))

	buf := make([]color.RGB, 4)
	e.Render(buf)

	for i := range buf {
		assert.Equal(t, color.RGB{R: 255, G: 20, B: 5}, buf[i], "led %d saturating add", i)
	}
}

func TestAddSegment_DuplicateID(t *testing.T) {
	e := NewEffect("fx", 10)
	require.NoError(t, e.AddSegment(NewSegment("s1", 10)))

	err := e.AddSegment(NewSegment("s1", 10))
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestAddSegment_CapsLength(t *testing.T) {
	e := NewEffect("fx", 10)
	seg := NewSegment("s1", 50)
	require.NoError(t, e.AddSegment(seg))
	assert.Equal(t, 10, seg.Length)
}

func TestRemoveSegment(t *testing.T) {
	e := NewEffect("fx", 10)
	require.NoError(t, e.AddSegment(NewSegment("s1", 10)))
	require.NoError(t, e.RemoveSegment("s1"))

	assert.ErrorIs(t, e.RemoveSegment("s1"), ErrNotFound)
	_, ok := e.Segment("s1")
	assert.False(t, ok)
}

func TestChangePalette_HalfwayBlend(t *testing.T) {
	old := color.Uniform(color.RGB{}, color.RGB{})
	sunset := color.Uniform(color.RGB{R: 200, G: 100}, color.RGB{R: 200, G: 100})

	e := NewEffect("fx", 10)
	e.SetPalette("old", old)
	e.ChangePalette("sunset", sunset, 2.0)

	e.Update(1.0)

	for _, s := range e.EffectivePalette().Stops() {
		assert.Equal(t, color.RGB{R: 100, G: 50}, s.Color, "50%% blend of old and sunset")
	}
	assert.Equal(t, "sunset", e.PaletteName())
}

func TestChangePalette_CompletesExactly(t *testing.T) {
	old := color.Uniform(color.RGB{R: 10}, color.RGB{R: 10})
	target := color.Uniform(color.RGB{B: 90}, color.RGB{B: 90})

	e := NewEffect("fx", 10)
	e.SetPalette("old", old)
	e.ChangePalette("new", target, 1.0)

	e.Update(5.0)
	assert.Equal(t, target.Stops(), e.EffectivePalette().Stops())
	assert.Nil(t, e.transition, "transition self-terminates")
}

func TestChangePalette_RestartsFromCurrentColors(t *testing.T) {
	a := color.Uniform(color.RGB{}, color.RGB{})
	b := color.Uniform(color.RGB{R: 200}, color.RGB{R: 200})
	c := color.Uniform(color.RGB{B: 200}, color.RGB{B: 200})

	e := NewEffect("fx", 10)
	e.SetPalette("a", a)
	e.ChangePalette("b", b, 2.0)
	e.Update(1.0) // halfway: R=100

	// Replacing the transition starts fresh from the rendered colors.
	e.ChangePalette("c", c, 2.0)
	for _, s := range e.EffectivePalette().Stops() {
		assert.Equal(t, color.RGB{R: 100}, s.Color, "starts at the mid-blend colors")
	}

	e.Update(2.0)
	assert.Equal(t, c.Stops(), e.EffectivePalette().Stops())
}

func TestSetPalette_Idempotent(t *testing.T) {
	p := color.Uniform(color.RGB{R: 1}, color.RGB{R: 2})
	e := NewEffect("fx", 10)

	e.SetPalette("p", p)
	once := e.EffectivePalette().Stops()
	e.SetPalette("p", p)
	assert.Equal(t, once, e.EffectivePalette().Stops())
}

func TestRender_FractionalPosition(t *testing.T) {
	e := NewEffect("fx", 10)
	require.NoError(t, e.AddSegment(solidSegment("s", 2.5, 3, color.RGB{G: 255})))

	buf := make([]color.RGB, 10)
	e.Render(buf)

	// Covered indices are those in [2.5, 5.5): 3, 4 and 5.
	assert.Equal(t, color.Black, buf[2])
	assert.Equal(t, color.RGB{G: 255}, buf[3])
	assert.Equal(t, color.RGB{G: 255}, buf[4])
	assert.Equal(t, color.RGB{G: 255}, buf[5])
	assert.Equal(t, color.Black, buf[6])
}
