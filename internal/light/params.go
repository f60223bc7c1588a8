package light

import (
	"fmt"

	"github.com/lumenlab/ledsignal/internal/color"
)

// Segment parameters form a closed set: each name maps to a typed setter.
// Unknown names fail with ErrUnknownParameter, wrong argument shapes with
// ErrTypeMismatch. No reflection anywhere in this path.

type segmentSetter func(seg *Segment, maxLen int, args []any) error

var segmentParams = map[string]segmentSetter{
	"position": func(seg *Segment, _ int, args []any) error {
		v, err := floatArg(args, 0, 1)
		if err != nil {
			return err
		}
		seg.Position = v
		return nil
	},
	"length": func(seg *Segment, maxLen int, args []any) error {
		v, err := intArg(args, 0, 1)
		if err != nil {
			return err
		}
		if v < 1 {
			v = 1
		}
		if v > maxLen {
			v = maxLen
		}
		seg.Length = v
		return nil
	},
	"speed": func(seg *Segment, _ int, args []any) error {
		v, err := floatArg(args, 0, 1)
		if err != nil {
			return err
		}
		seg.Movement.Speed = v
		return nil
	},
	"mode": func(seg *Segment, _ int, args []any) error {
		v, err := stringArg(args, 0, 1)
		if err != nil {
			return err
		}
		mode := MoveMode(v)
		switch mode {
		case MoveStatic, MoveLinear, MoveBounce, MoveWrap:
			seg.Movement.Mode = mode
			return nil
		default:
			return fmt.Errorf("%w: unknown movement mode %q", ErrTypeMismatch, v)
		}
	},
	"range": func(seg *Segment, _ int, args []any) error {
		lo, err := floatArg(args, 0, 2)
		if err != nil {
			return err
		}
		hi, err := floatArg(args, 1, 2)
		if err != nil {
			return err
		}
		if hi < lo {
			lo, hi = hi, lo
		}
		seg.Movement.Bounds = Bounds{Min: lo, Max: hi}
		return nil
	},
	"solid_color": func(seg *Segment, _ int, args []any) error {
		var rgb [3]uint8
		for i := range rgb {
			v, err := intArg(args, i, 3)
			if err != nil {
				return err
			}
			rgb[i] = clampChannel(v)
		}
		seg.Source = ColorSource{
			Kind:  SourceSolid,
			Solid: color.RGB{R: rgb[0], G: rgb[1], B: rgb[2]},
		}
		return nil
	},
	"gradient": func(seg *Segment, _ int, args []any) error {
		on, err := boolArg(args, 0, 1)
		if err != nil {
			return err
		}
		if on {
			if seg.Source.Kind != SourceGradient {
				seg.Source = ColorSource{Kind: SourceGradient, GradientStart: 0, GradientEnd: 1}
			}
		} else if seg.Source.Kind == SourceGradient {
			seg.Source = ColorSource{Kind: SourceSolid, Solid: seg.Source.Solid}
		}
		return nil
	},
	"gradient_range": func(seg *Segment, _ int, args []any) error {
		from, err := floatArg(args, 0, 2)
		if err != nil {
			return err
		}
		to, err := floatArg(args, 1, 2)
		if err != nil {
			return err
		}
		seg.Source = ColorSource{Kind: SourceGradient, GradientStart: from, GradientEnd: to}
		return nil
	},
	"palette_index": func(seg *Segment, _ int, args []any) error {
		at, err := floatArg(args, 0, 1)
		if err != nil {
			return err
		}
		seg.Source = ColorSource{Kind: SourcePalette, PalettePos: clampRatio(at)}
		return nil
	},
	"fade": func(seg *Segment, _ int, args []any) error {
		on, err := boolArg(args, 0, 1)
		if err != nil {
			return err
		}
		seg.Fade.Enabled = on
		return nil
	},
	"fade_ratios": func(seg *Segment, _ int, args []any) error {
		in, err := floatArg(args, 0, 2)
		if err != nil {
			return err
		}
		out, err := floatArg(args, 1, 2)
		if err != nil {
			return err
		}
		seg.Fade.InRatio = clampRatio(in)
		seg.Fade.OutRatio = clampRatio(out)
		return nil
	},
	"dimmer": func(seg *Segment, _ int, args []any) error {
		v, err := floatArg(args, 0, 1)
		if err != nil {
			return err
		}
		seg.Dimmer = clampRatio(v)
		return nil
	},
	"blend": func(seg *Segment, _ int, args []any) error {
		v, err := stringArg(args, 0, 1)
		if err != nil {
			return err
		}
		blend := BlendMode(v)
		switch blend {
		case BlendOverwrite, BlendAdditive:
			seg.Blend = blend
			return nil
		default:
			return fmt.Errorf("%w: unknown blend mode %q", ErrTypeMismatch, v)
		}
	},
}

// ApplySegmentParam applies a named parameter to a segment. maxLen is the
// owning effect's LED buffer size; length updates are capped by it.
func ApplySegmentParam(seg *Segment, maxLen int, name string, args []any) error {
	setter, ok := segmentParams[name]
	if !ok {
		return fmt.Errorf("parameter %q: %w", name, ErrUnknownParameter)
	}
	if err := setter(seg, maxLen, args); err != nil {
		return fmt.Errorf("parameter %q: %w", name, err)
	}
	return nil
}

// SegmentParamNames lists the supported parameter names; used for
// diagnostics when rejecting an unknown one.
func SegmentParamNames() []string {
	names := make([]string, 0, len(segmentParams))
	for name := range segmentParams {
		names = append(names, name)
	}
	return names
}

// Argument coercion. OSC numeric arguments arrive as int32, int64,
// float32 or float64 depending on the sender's type tags; all are
// accepted where a number is expected.

func floatArg(args []any, i, want int) (float64, error) {
	if len(args) != want {
		return 0, argCountErr(len(args), want)
	}
	switch v := args[i].(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("%w: argument %d: expected float, got %T", ErrTypeMismatch, i, args[i])
	}
}

func intArg(args []any, i, want int) (int, error) {
	if len(args) != want {
		return 0, argCountErr(len(args), want)
	}
	switch v := args[i].(type) {
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float32:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("%w: argument %d: expected int, got %T", ErrTypeMismatch, i, args[i])
	}
}

func stringArg(args []any, i, want int) (string, error) {
	if len(args) != want {
		return "", argCountErr(len(args), want)
	}
	if v, ok := args[i].(string); ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: argument %d: expected string, got %T", ErrTypeMismatch, i, args[i])
}

func boolArg(args []any, i, want int) (bool, error) {
	if len(args) != want {
		return false, argCountErr(len(args), want)
	}
	switch v := args[i].(type) {
	case bool:
		return v, nil
	case int32:
		return v != 0, nil
	case int64:
		return v != 0, nil
	default:
		return false, fmt.Errorf("%w: argument %d: expected bool, got %T", ErrTypeMismatch, i, args[i])
	}
}

func argCountErr(got, want int) error {
	return fmt.Errorf("%w: expected %d argument(s), got %d", ErrTypeMismatch, want, got)
}

func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
