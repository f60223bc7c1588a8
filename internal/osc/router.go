package osc

import (
	"fmt"
	"strings"

	"github.com/hypebeast/go-osc/osc"
	"github.com/rs/zerolog/log"

	"github.com/lumenlab/ledsignal/internal/engine"
	"github.com/lumenlab/ledsignal/internal/light"
)

// Replier sends reply messages back over the feedback client. Reply
// payloads are read from the hierarchy inside an intent, so they are
// always a consistent snapshot.
type Replier interface {
	SendSceneList(ids []string) error
}

// Router translates inbound OSC messages into queued intents. It is the
// server's Dispatcher: it runs on the network-receive goroutine, parses
// and validates what it can at the boundary, and never touches the scene
// hierarchy itself.
//
// Address grammar:
//
//	/scene_manager/{add_scene|remove_scene|switch_scene|list_scenes|load_scene|save_scenes}
//	/scene/{sceneId}/{set_palette|update_palettes|change_effect|add_effect|remove_effect|
//	                  save_effects|load_effects|save_palettes|load_palettes}
//	/scene/{sceneId}/effect/{effectId}/{set_palette|change_palette|add_segment|remove_segment}
//	/scene/{sceneId}/effect/{effectId}/segment/{segmentId}/{param}
type Router struct {
	queue   *engine.Queue
	replier Replier
}

// NewRouter creates a router feeding the given queue. replier may be nil;
// reply-producing commands then degrade to log-only.
func NewRouter(q *engine.Queue, replier Replier) *Router {
	return &Router{queue: q, replier: replier}
}

// Dispatch implements osc.Dispatcher. Bundles are flattened; bundle
// timetags are ignored.
func (r *Router) Dispatch(packet osc.Packet) {
	switch p := packet.(type) {
	case *osc.Message:
		if err := r.route(p); err != nil {
			log.Warn().
				Err(err).
				Str("address", p.Address).
				Msg("Command rejected at boundary")
		}
	case *osc.Bundle:
		for _, msg := range p.Messages {
			r.Dispatch(msg)
		}
		for _, b := range p.Bundles {
			r.Dispatch(b)
		}
	}
}

func (r *Router) route(msg *osc.Message) error {
	parts := strings.Split(strings.Trim(msg.Address, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return fmt.Errorf("empty address: %w", light.ErrParse)
	}

	switch parts[0] {
	case "scene_manager":
		if len(parts) != 2 {
			return fmt.Errorf("address %q: %w", msg.Address, light.ErrParse)
		}
		return r.routeManager(msg, parts[1])

	case "scene":
		if len(parts) < 3 {
			return fmt.Errorf("address %q: %w", msg.Address, light.ErrParse)
		}
		sceneID := parts[1]
		if parts[2] == "effect" {
			if len(parts) < 5 {
				return fmt.Errorf("address %q: %w", msg.Address, light.ErrParse)
			}
			effectID := parts[3]
			if parts[4] == "segment" {
				if len(parts) != 7 {
					return fmt.Errorf("address %q: %w", msg.Address, light.ErrParse)
				}
				return r.routeSegment(msg, sceneID, effectID, parts[5], parts[6])
			}
			if len(parts) != 5 {
				return fmt.Errorf("address %q: %w", msg.Address, light.ErrParse)
			}
			return r.routeEffect(msg, sceneID, effectID, parts[4])
		}
		if len(parts) != 3 {
			return fmt.Errorf("address %q: %w", msg.Address, light.ErrParse)
		}
		return r.routeScene(msg, sceneID, parts[2])
	}
	return fmt.Errorf("address %q: %w", msg.Address, light.ErrParse)
}

func (r *Router) routeManager(msg *osc.Message, op string) error {
	switch op {
	case "add_scene":
		id, err := stringArg(msg.Arguments, 1)
		if err != nil {
			return err
		}
		r.enqueue(msg.Address, func(m *light.Manager) error {
			_, err := m.AddScene(id)
			return err
		})
	case "remove_scene":
		id, err := stringArg(msg.Arguments, 1)
		if err != nil {
			return err
		}
		r.enqueue(msg.Address, func(m *light.Manager) error {
			return m.RemoveScene(id)
		})
	case "switch_scene":
		id, err := stringArg(msg.Arguments, 1)
		if err != nil {
			return err
		}
		r.enqueue(msg.Address, func(m *light.Manager) error {
			return m.SwitchScene(id)
		})
	case "list_scenes":
		r.enqueue(msg.Address, func(m *light.Manager) error {
			ids := m.ListScenes()
			if r.replier == nil {
				log.Info().Strs("scenes", ids).Msg("Scene list requested, no feedback client configured")
				return nil
			}
			return r.replier.SendSceneList(ids)
		})
	case "load_scene":
		path, err := stringArg(msg.Arguments, 1)
		if err != nil {
			return err
		}
		r.enqueue(msg.Address, func(m *light.Manager) error {
			scenes, err := light.LoadScenes(path)
			if err != nil {
				return err
			}
			m.ReplaceAll(scenes)
			return nil
		})
	case "save_scenes":
		path, err := stringArg(msg.Arguments, 1)
		if err != nil {
			return err
		}
		r.enqueue(msg.Address, func(m *light.Manager) error {
			return light.SaveScenes(m, path)
		})
	default:
		return fmt.Errorf("scene_manager operation %q: %w", op, light.ErrUnknownParameter)
	}
	return nil
}

func (r *Router) routeScene(msg *osc.Message, sceneID, op string) error {
	switch op {
	case "set_palette":
		name, err := stringArg(msg.Arguments, 1)
		if err != nil {
			return err
		}
		r.enqueueScene(msg.Address, sceneID, func(sc *light.Scene) error {
			return sc.SetPalette(name)
		})
	case "update_palettes":
		doc, err := stringArg(msg.Arguments, 1)
		if err != nil {
			return err
		}
		// Parse on the network goroutine so a malformed payload never
		// costs the render loop a frame.
		palettes, err := light.ParsePalettes([]byte(doc))
		if err != nil {
			return err
		}
		r.enqueueScene(msg.Address, sceneID, func(sc *light.Scene) error {
			sc.UpdatePalettes(palettes)
			return nil
		})
	case "change_effect":
		if len(msg.Arguments) != 2 {
			return fmt.Errorf("change_effect wants id and duration: %w", light.ErrTypeMismatch)
		}
		id, err := stringArg(msg.Arguments[:1], 1)
		if err != nil {
			return err
		}
		duration, err := floatArg(msg.Arguments[1])
		if err != nil {
			return err
		}
		r.enqueueScene(msg.Address, sceneID, func(sc *light.Scene) error {
			return sc.ChangeEffect(id, duration)
		})
	case "add_effect":
		id, err := stringArg(msg.Arguments, 1)
		if err != nil {
			return err
		}
		r.enqueueScene2(msg.Address, sceneID, func(m *light.Manager, sc *light.Scene) error {
			return sc.AddEffect(light.NewEffect(id, m.LEDCount()))
		})
	case "remove_effect":
		id, err := stringArg(msg.Arguments, 1)
		if err != nil {
			return err
		}
		r.enqueueScene(msg.Address, sceneID, func(sc *light.Scene) error {
			return sc.RemoveEffect(id)
		})
	case "save_effects":
		path, err := stringArg(msg.Arguments, 1)
		if err != nil {
			return err
		}
		r.enqueueScene(msg.Address, sceneID, func(sc *light.Scene) error {
			return light.SaveEffects(sc, path)
		})
	case "load_effects":
		path, err := stringArg(msg.Arguments, 1)
		if err != nil {
			return err
		}
		r.enqueueScene(msg.Address, sceneID, func(sc *light.Scene) error {
			effects, err := light.LoadEffects(sc, path)
			if err != nil {
				return err
			}
			sc.ReplaceEffects(effects)
			return nil
		})
	case "save_palettes":
		path, err := stringArg(msg.Arguments, 1)
		if err != nil {
			return err
		}
		r.enqueueScene(msg.Address, sceneID, func(sc *light.Scene) error {
			return light.SavePalettes(sc, path)
		})
	case "load_palettes":
		path, err := stringArg(msg.Arguments, 1)
		if err != nil {
			return err
		}
		r.enqueueScene(msg.Address, sceneID, func(sc *light.Scene) error {
			palettes, err := light.LoadPalettes(path)
			if err != nil {
				return err
			}
			sc.UpdatePalettes(palettes)
			return nil
		})
	default:
		return fmt.Errorf("scene operation %q: %w", op, light.ErrUnknownParameter)
	}
	return nil
}

func (r *Router) routeEffect(msg *osc.Message, sceneID, effectID, op string) error {
	switch op {
	case "set_palette":
		name, err := stringArg(msg.Arguments, 1)
		if err != nil {
			return err
		}
		r.enqueueScene(msg.Address, sceneID, func(sc *light.Scene) error {
			return sc.SetEffectPalette(effectID, name)
		})
	case "change_palette":
		if len(msg.Arguments) != 2 {
			return fmt.Errorf("change_palette wants name and duration: %w", light.ErrTypeMismatch)
		}
		name, err := stringArg(msg.Arguments[:1], 1)
		if err != nil {
			return err
		}
		duration, err := floatArg(msg.Arguments[1])
		if err != nil {
			return err
		}
		r.enqueueScene(msg.Address, sceneID, func(sc *light.Scene) error {
			return sc.ChangeEffectPalette(effectID, name, duration)
		})
	case "add_segment":
		id, err := stringArg(msg.Arguments, 1)
		if err != nil {
			return err
		}
		r.enqueueEffect(msg.Address, sceneID, effectID, func(e *light.Effect) error {
			return e.AddSegment(light.NewSegment(id, e.LEDCount))
		})
	case "remove_segment":
		id, err := stringArg(msg.Arguments, 1)
		if err != nil {
			return err
		}
		r.enqueueEffect(msg.Address, sceneID, effectID, func(e *light.Effect) error {
			return e.RemoveSegment(id)
		})
	default:
		return fmt.Errorf("effect operation %q: %w", op, light.ErrUnknownParameter)
	}
	return nil
}

func (r *Router) routeSegment(msg *osc.Message, sceneID, effectID, segmentID, param string) error {
	args := msg.Arguments
	r.enqueueEffect(msg.Address, sceneID, effectID, func(e *light.Effect) error {
		seg, ok := e.Segment(segmentID)
		if !ok {
			return fmt.Errorf("segment %q: %w", segmentID, light.ErrNotFound)
		}
		return light.ApplySegmentParam(seg, e.LEDCount, param, args)
	})
	return nil
}

func (r *Router) enqueue(address string, apply func(m *light.Manager) error) {
	in := engine.NewIntent(address, apply)
	log.Debug().Str("address", address).Str("intent_id", in.ID).Msg("Command queued")
	r.queue.Enqueue(in)
}

func (r *Router) enqueueScene(address, sceneID string, apply func(sc *light.Scene) error) {
	r.enqueueScene2(address, sceneID, func(_ *light.Manager, sc *light.Scene) error {
		return apply(sc)
	})
}

func (r *Router) enqueueScene2(address, sceneID string, apply func(m *light.Manager, sc *light.Scene) error) {
	r.enqueue(address, func(m *light.Manager) error {
		sc, ok := m.Scene(sceneID)
		if !ok {
			return fmt.Errorf("scene %q: %w", sceneID, light.ErrNotFound)
		}
		return apply(m, sc)
	})
}

func (r *Router) enqueueEffect(address, sceneID, effectID string, apply func(e *light.Effect) error) {
	r.enqueueScene(address, sceneID, func(sc *light.Scene) error {
		e, ok := sc.Effect(effectID)
		if !ok {
			return fmt.Errorf("effect %q: %w", effectID, light.ErrNotFound)
		}
		return apply(e)
	})
}

func stringArg(args []any, want int) (string, error) {
	if len(args) != want {
		return "", fmt.Errorf("want %d argument(s), got %d: %w", want, len(args), light.ErrTypeMismatch)
	}
	s, ok := args[0].(string)
	if !ok {
		return "", fmt.Errorf("want string, got %T: %w", args[0], light.ErrTypeMismatch)
	}
	return s, nil
}

func floatArg(arg any) (float64, error) {
	switch v := arg.(type) {
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return 0, fmt.Errorf("want float, got %T: %w", arg, light.ErrTypeMismatch)
}
