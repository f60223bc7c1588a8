package light

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenlab/ledsignal/internal/color"
)

func TestApplySegmentParam_TypedSetters(t *testing.T) {
	seg := NewSegment("s", 100)

	require.NoError(t, ApplySegmentParam(seg, 100, "position", []any{float32(12.5)}))
	assert.Equal(t, 12.5, seg.Position)

	require.NoError(t, ApplySegmentParam(seg, 100, "length", []any{int32(25)}))
	assert.Equal(t, 25, seg.Length)

	require.NoError(t, ApplySegmentParam(seg, 100, "speed", []any{float64(-3)}))
	assert.Equal(t, -3.0, seg.Movement.Speed)

	require.NoError(t, ApplySegmentParam(seg, 100, "mode", []any{"bounce"}))
	assert.Equal(t, MoveBounce, seg.Movement.Mode)

	require.NoError(t, ApplySegmentParam(seg, 100, "range", []any{float32(40), float32(10)}))
	assert.Equal(t, Bounds{Min: 10, Max: 40}, seg.Movement.Bounds, "range normalizes min/max")

	require.NoError(t, ApplySegmentParam(seg, 100, "solid_color", []any{int32(300), int32(-5), int32(128)}))
	assert.Equal(t, ColorSource{Kind: SourceSolid, Solid: color.RGB{R: 255, G: 0, B: 128}}, seg.Source)

	require.NoError(t, ApplySegmentParam(seg, 100, "gradient", []any{int32(1)}))
	assert.Equal(t, SourceGradient, seg.Source.Kind)

	require.NoError(t, ApplySegmentParam(seg, 100, "gradient_range", []any{float32(0.25), float32(0.75)}))
	assert.Equal(t, 0.25, seg.Source.GradientStart)
	assert.Equal(t, 0.75, seg.Source.GradientEnd)

	require.NoError(t, ApplySegmentParam(seg, 100, "palette_index", []any{float32(0.5)}))
	assert.Equal(t, SourcePalette, seg.Source.Kind)
	assert.Equal(t, 0.5, seg.Source.PalettePos)

	require.NoError(t, ApplySegmentParam(seg, 100, "fade", []any{true}))
	assert.True(t, seg.Fade.Enabled)

	require.NoError(t, ApplySegmentParam(seg, 100, "fade_ratios", []any{float32(0.2), float32(0.3)}))
	assert.InDelta(t, 0.2, seg.Fade.InRatio, 1e-6)
	assert.InDelta(t, 0.3, seg.Fade.OutRatio, 1e-6)

	require.NoError(t, ApplySegmentParam(seg, 100, "dimmer", []any{float32(2.0)}))
	assert.Equal(t, 1.0, seg.Dimmer, "dimmer clamps to [0,1]")

	require.NoError(t, ApplySegmentParam(seg, 100, "blend", []any{"additive"}))
	assert.Equal(t, BlendAdditive, seg.Blend)
}

func TestApplySegmentParam_LengthCappedByBuffer(t *testing.T) {
	seg := NewSegment("s", 100)
	require.NoError(t, ApplySegmentParam(seg, 10, "length", []any{int32(500)}))
	assert.Equal(t, 10, seg.Length)
}

func TestApplySegmentParam_UnknownParameter(t *testing.T) {
	seg := NewSegment("s", 100)
	err := ApplySegmentParam(seg, 100, "wobble", []any{float32(1)})
	assert.ErrorIs(t, err, ErrUnknownParameter)
}

func TestApplySegmentParam_TypeMismatch(t *testing.T) {
	seg := NewSegment("s", 100)

	assert.ErrorIs(t, ApplySegmentParam(seg, 100, "position", []any{"fast"}), ErrTypeMismatch)
	assert.ErrorIs(t, ApplySegmentParam(seg, 100, "mode", []any{int32(3)}), ErrTypeMismatch)
	assert.ErrorIs(t, ApplySegmentParam(seg, 100, "mode", []any{"sideways"}), ErrTypeMismatch)
	assert.ErrorIs(t, ApplySegmentParam(seg, 100, "range", []any{float32(1)}), ErrTypeMismatch, "wrong arity")
	assert.ErrorIs(t, ApplySegmentParam(seg, 100, "blend", []any{"screen"}), ErrTypeMismatch)
}

func TestApplySegmentParam_GradientToggleKeepsSolid(t *testing.T) {
	seg := NewSegment("s", 100)
	require.NoError(t, ApplySegmentParam(seg, 100, "solid_color", []any{int32(9), int32(8), int32(7)}))
	require.NoError(t, ApplySegmentParam(seg, 100, "gradient", []any{int32(1)}))
	require.NoError(t, ApplySegmentParam(seg, 100, "gradient", []any{int32(0)}))
	assert.Equal(t, SourceSolid, seg.Source.Kind)
}
