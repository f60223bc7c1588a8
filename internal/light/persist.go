package light

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lumenlab/ledsignal/internal/color"
)

// Persisted JSON layouts. An effects file is an array of effect documents,
// a palettes file maps palette name to gradient stops, a scene file nests
// both plus the active ids, and a scene-manager file is an array of scene
// documents. Loads are all-or-nothing: documents are fully decoded and
// validated into new entities before any live state is touched.

type stopDoc struct {
	Position float64 `json:"position"`
	R        uint8   `json:"r"`
	G        uint8   `json:"g"`
	B        uint8   `json:"b"`
}

type movementDoc struct {
	Mode   string     `json:"mode"`
	Speed  float64    `json:"speed"`
	Bounds [2]float64 `json:"bounds"`
}

type colorSourceDoc struct {
	Kind string   `json:"kind"`
	RGB  [3]uint8 `json:"rgb,omitempty"`
	From float64  `json:"from,omitempty"`
	To   float64  `json:"to,omitempty"`
	At   float64  `json:"at,omitempty"`
}

type fadeDoc struct {
	Enabled  bool    `json:"enabled"`
	InRatio  float64 `json:"in_ratio"`
	OutRatio float64 `json:"out_ratio"`
}

type segmentDoc struct {
	ID       string         `json:"id"`
	Position float64        `json:"position"`
	Length   int            `json:"length"`
	Movement movementDoc    `json:"movement"`
	Color    colorSourceDoc `json:"color"`
	Fade     fadeDoc        `json:"fade"`
	Dimmer   float64        `json:"dimmer"`
	Blend    string         `json:"blend,omitempty"`
}

type effectDoc struct {
	ID       string       `json:"id"`
	LEDCount int          `json:"led_count"`
	Palette  string       `json:"palette"`
	Segments []segmentDoc `json:"segments"`
}

type sceneDoc struct {
	ID           string               `json:"id"`
	ActiveEffect string               `json:"active_effect,omitempty"`
	Palettes     map[string][]stopDoc `json:"palettes"`
	Effects      []effectDoc          `json:"effects"`
}

func encodeSegment(seg *Segment) segmentDoc {
	doc := segmentDoc{
		ID:       seg.ID,
		Position: seg.Position,
		Length:   seg.Length,
		Movement: movementDoc{
			Mode:   string(seg.Movement.Mode),
			Speed:  seg.Movement.Speed,
			Bounds: [2]float64{seg.Movement.Bounds.Min, seg.Movement.Bounds.Max},
		},
		Fade: fadeDoc{
			Enabled:  seg.Fade.Enabled,
			InRatio:  seg.Fade.InRatio,
			OutRatio: seg.Fade.OutRatio,
		},
		Dimmer: seg.Dimmer,
		Blend:  string(seg.Blend),
	}
	switch seg.Source.Kind {
	case SourceSolid:
		doc.Color = colorSourceDoc{
			Kind: string(SourceSolid),
			RGB:  [3]uint8{seg.Source.Solid.R, seg.Source.Solid.G, seg.Source.Solid.B},
		}
	case SourcePalette:
		doc.Color = colorSourceDoc{Kind: string(SourcePalette), At: seg.Source.PalettePos}
	default:
		doc.Color = colorSourceDoc{
			Kind: string(SourceGradient),
			From: seg.Source.GradientStart,
			To:   seg.Source.GradientEnd,
		}
	}
	return doc
}

func decodeSegment(doc segmentDoc) (*Segment, error) {
	if doc.ID == "" {
		return nil, fmt.Errorf("%w: segment without id", ErrSchema)
	}
	if doc.Length < 1 {
		return nil, fmt.Errorf("%w: segment %q: length must be >= 1", ErrSchema, doc.ID)
	}
	mode := MoveMode(doc.Movement.Mode)
	switch mode {
	case MoveStatic, MoveLinear, MoveBounce, MoveWrap:
	default:
		return nil, fmt.Errorf("%w: segment %q: unknown movement mode %q", ErrSchema, doc.ID, doc.Movement.Mode)
	}
	blend := BlendMode(doc.Blend)
	if blend == "" {
		blend = BlendOverwrite
	}
	switch blend {
	case BlendOverwrite, BlendAdditive:
	default:
		return nil, fmt.Errorf("%w: segment %q: unknown blend mode %q", ErrSchema, doc.ID, doc.Blend)
	}
	seg := &Segment{
		ID:       doc.ID,
		Position: doc.Position,
		Length:   doc.Length,
		Movement: Movement{
			Mode:   mode,
			Speed:  doc.Movement.Speed,
			Bounds: Bounds{Min: doc.Movement.Bounds[0], Max: doc.Movement.Bounds[1]},
		},
		Fade: Fade{
			Enabled:  doc.Fade.Enabled,
			InRatio:  doc.Fade.InRatio,
			OutRatio: doc.Fade.OutRatio,
		},
		Blend:  blend,
		Dimmer: doc.Dimmer,
	}
	switch SourceKind(doc.Color.Kind) {
	case SourceSolid:
		seg.Source = ColorSource{
			Kind:  SourceSolid,
			Solid: color.RGB{R: doc.Color.RGB[0], G: doc.Color.RGB[1], B: doc.Color.RGB[2]},
		}
	case SourceGradient:
		seg.Source = ColorSource{
			Kind:          SourceGradient,
			GradientStart: doc.Color.From,
			GradientEnd:   doc.Color.To,
		}
	case SourcePalette:
		seg.Source = ColorSource{Kind: SourcePalette, PalettePos: doc.Color.At}
	default:
		return nil, fmt.Errorf("%w: segment %q: unknown color source %q", ErrSchema, doc.ID, doc.Color.Kind)
	}
	return seg, nil
}

func encodeEffect(e *Effect) effectDoc {
	doc := effectDoc{
		ID:       e.ID,
		LEDCount: e.LEDCount,
		Palette:  e.PaletteName(),
		Segments: make([]segmentDoc, 0, len(e.order)),
	}
	for _, seg := range e.Segments() {
		doc.Segments = append(doc.Segments, encodeSegment(seg))
	}
	return doc
}

func decodeEffect(doc effectDoc, palettes map[string]color.Palette) (*Effect, error) {
	if doc.ID == "" {
		return nil, fmt.Errorf("%w: effect without id", ErrSchema)
	}
	if doc.LEDCount < 1 {
		return nil, fmt.Errorf("%w: effect %q: led_count must be >= 1", ErrSchema, doc.ID)
	}
	e := NewEffect(doc.ID, doc.LEDCount)
	if doc.Palette != "" {
		p, ok := palettes[doc.Palette]
		if !ok {
			return nil, fmt.Errorf("%w: effect %q references unknown palette %q", ErrSchema, doc.ID, doc.Palette)
		}
		e.SetPalette(doc.Palette, p)
	}
	for _, sd := range doc.Segments {
		seg, err := decodeSegment(sd)
		if err != nil {
			return nil, err
		}
		if err := e.AddSegment(seg); err != nil {
			return nil, fmt.Errorf("%w: effect %q: %v", ErrSchema, doc.ID, err)
		}
	}
	return e, nil
}

func encodePalettes(palettes map[string]color.Palette) map[string][]stopDoc {
	out := make(map[string][]stopDoc, len(palettes))
	for name, p := range palettes {
		stops := p.Stops()
		docs := make([]stopDoc, len(stops))
		for i, s := range stops {
			docs[i] = stopDoc{Position: s.Position, R: s.Color.R, G: s.Color.G, B: s.Color.B}
		}
		out[name] = docs
	}
	return out
}

func decodePalettes(docs map[string][]stopDoc) (map[string]color.Palette, error) {
	out := make(map[string]color.Palette, len(docs))
	for name, stops := range docs {
		cs := make([]color.Stop, len(stops))
		for i, s := range stops {
			cs[i] = color.Stop{Position: s.Position, Color: color.RGB{R: s.R, G: s.G, B: s.B}}
		}
		p, err := color.NewPalette(cs)
		if err != nil {
			return nil, fmt.Errorf("%w: palette %q: %v", ErrSchema, name, err)
		}
		out[name] = p
	}
	return out, nil
}

func encodeScene(sc *Scene) sceneDoc {
	doc := sceneDoc{
		ID:           sc.ID,
		ActiveEffect: sc.ActiveEffectID(),
		Palettes:     encodePalettes(sc.palettes),
		Effects:      make([]effectDoc, 0, len(sc.order)),
	}
	for _, e := range sc.Effects() {
		doc.Effects = append(doc.Effects, encodeEffect(e))
	}
	return doc
}

func decodeScene(doc sceneDoc) (*Scene, error) {
	if doc.ID == "" {
		return nil, fmt.Errorf("%w: scene without id", ErrSchema)
	}
	palettes, err := decodePalettes(doc.Palettes)
	if err != nil {
		return nil, err
	}
	sc := NewScene(doc.ID)
	if len(palettes) > 0 {
		sc.palettes = palettes
	}
	for _, ed := range doc.Effects {
		e, err := decodeEffect(ed, sc.palettes)
		if err != nil {
			return nil, err
		}
		if err := sc.AddEffect(e); err != nil {
			return nil, fmt.Errorf("%w: scene %q: %v", ErrSchema, doc.ID, err)
		}
	}
	if doc.ActiveEffect != "" {
		if err := sc.SetActiveEffect(doc.ActiveEffect); err != nil {
			return nil, fmt.Errorf("%w: scene %q: active effect %q not present", ErrSchema, doc.ID, doc.ActiveEffect)
		}
	}
	return sc, nil
}

// MarshalScenes serializes the whole manager as a scene-manager document:
// a JSON array of scene objects in creation order.
func MarshalScenes(m *Manager) ([]byte, error) {
	docs := make([]sceneDoc, 0, len(m.order))
	for _, id := range m.order {
		docs = append(docs, encodeScene(m.scenes[id]))
	}
	return json.MarshalIndent(docs, "", "  ")
}

// UnmarshalScenes decodes a scene-manager document into fully built
// scenes. The first scene in the array becomes active on ReplaceAll.
func UnmarshalScenes(data []byte) ([]*Scene, error) {
	var docs []sceneDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	scenes := make([]*Scene, 0, len(docs))
	seen := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		sc, err := decodeScene(doc)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[sc.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate scene id %q", ErrSchema, sc.ID)
		}
		seen[sc.ID] = struct{}{}
		scenes = append(scenes, sc)
	}
	return scenes, nil
}

// SaveScene writes a single scene document (effects + palettes + active
// ids) to path.
func SaveScene(sc *Scene, path string) error {
	data, err := json.MarshalIndent(encodeScene(sc), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadScene reads and fully validates a scene document. The caller swaps
// it in under the render context.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc sceneDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return decodeScene(doc)
}

// SaveEffects writes a scene's effect list (an array of effect documents)
// to path. Palettes are referenced by name only; pair with SavePalettes to
// capture the library itself.
func SaveEffects(sc *Scene, path string) error {
	docs := make([]effectDoc, 0, len(sc.order))
	for _, e := range sc.Effects() {
		docs = append(docs, encodeEffect(e))
	}
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadEffects reads and validates an effects file against the scene's
// current palette library. Palette references must resolve.
func LoadEffects(sc *Scene, path string) ([]*Effect, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var docs []effectDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	effects := make([]*Effect, 0, len(docs))
	seen := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		e, err := decodeEffect(doc, sc.palettes)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate effect id %q", ErrSchema, e.ID)
		}
		seen[e.ID] = struct{}{}
		effects = append(effects, e)
	}
	return effects, nil
}

// SavePalettes writes a scene's palette library to path.
func SavePalettes(sc *Scene, path string) error {
	data, err := json.MarshalIndent(encodePalettes(sc.palettes), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadPalettes reads and validates a palettes file.
func LoadPalettes(path string) (map[string]color.Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePalettes(data)
}

// ParsePalettes decodes a palettes document from raw JSON. Also used for
// palette payloads delivered over the wire.
func ParsePalettes(data []byte) (map[string]color.Palette, error) {
	var docs map[string][]stopDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return decodePalettes(docs)
}

// SaveScenes writes the scene-manager document to path.
func SaveScenes(m *Manager, path string) error {
	data, err := MarshalScenes(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadScenes reads and fully validates a scene-manager document.
func LoadScenes(path string) ([]*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return UnmarshalScenes(data)
}
