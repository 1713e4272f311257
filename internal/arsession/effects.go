package arsession

import "time"

// Anchor says where an effect's overlay attaches in the scene.
type Anchor string

const (
	// AnchorFace effects track the user's face and want the front camera.
	AnchorFace Anchor = "face"
	// AnchorWorld effects are placed in the environment (rear camera).
	AnchorWorld Anchor = "world"
	// AnchorTracked effects pin an image plane to an external tracking
	// target (rear camera).
	AnchorTracked Anchor = "tracked"
)

// Facing is the camera facing-mode preference.
type Facing string

const (
	FacingFront Facing = "user"
	FacingRear  Facing = "environment"
)

// Shape names a scene primitive.
type Shape string

const (
	ShapeSphere   Shape = "sphere"
	ShapeBox      Shape = "box"
	ShapePlane    Shape = "plane"
	ShapeCone     Shape = "cone"
	ShapeRing     Shape = "ring"
	ShapeCylinder Shape = "cylinder"
	ShapeCircle   Shape = "circle"
	ShapeImage    Shape = "image"
)

type Vec3 struct {
	X, Y, Z float64
}

type Transform struct {
	Position Vec3
	Rotation Vec3
	Scale    float64
}

type Material struct {
	Color      string
	Opacity    float64
	Metalness  float64
	TextureURL string
}

// Animation is a declarative property tween. Alternate animations
// bounce between the endpoints; looping ones repeat forever.
type Animation struct {
	Property  string
	From, To  string
	Duration  time.Duration
	Loop      bool
	Alternate bool
	Easing    string
}

// Node is one {shape, transform, animation} record. The renderer
// adapter decides how to realize it; nothing here knows about any
// scene-graph API.
type Node struct {
	Shape     Shape
	Transform Transform
	Material  Material
	Size      Vec3
	Radius    float64
	Animation *Animation
}

// Effect is a complete overlay description keyed by effect id.
type Effect struct {
	ID     string
	Name   string
	Anchor Anchor
	Nodes  []Node
}

// FacingFor picks the camera side appropriate to the anchor.
func (e Effect) FacingFor() Facing {
	if e.Anchor == AnchorFace {
		return FacingFront
	}
	return FacingRear
}

func floatAnim(prop, from, to string, d time.Duration) *Animation {
	return &Animation{Property: prop, From: from, To: to, Duration: d, Loop: true, Alternate: true, Easing: "easeInOutQuad"}
}

var catalog = map[string]Effect{
	"sparkle": {ID: "sparkle", Name: "Sparkle Glow", Anchor: AnchorFace, Nodes: sparkleNodes()},
	"galaxy": {ID: "galaxy", Name: "Galaxy Eyes", Anchor: AnchorFace, Nodes: []Node{
		{Shape: ShapeSphere, Radius: 0.04, Transform: Transform{Position: Vec3{X: -0.1, Y: 0.05, Z: 0.1}}, Material: Material{Color: "#8a2be2", Opacity: 0.9}},
		{Shape: ShapeSphere, Radius: 0.04, Transform: Transform{Position: Vec3{X: 0.1, Y: 0.05, Z: 0.1}}, Material: Material{Color: "#8a2be2", Opacity: 0.9}},
	}},
	"rainbow": {ID: "rainbow", Name: "Rainbow Aura", Anchor: AnchorFace, Nodes: []Node{
		{Shape: ShapeRing, Radius: 0.35, Transform: Transform{Position: Vec3{Y: 0.3}}, Material: Material{Color: "#ff7f50", Opacity: 0.6},
			Animation: floatAnim("rotation", "0 0 0", "0 0 360", 4*time.Second)},
	}},
	"neon": {ID: "neon", Name: "Neon Outline", Anchor: AnchorFace, Nodes: []Node{
		{Shape: ShapeRing, Radius: 0.4, Material: Material{Color: "#39ff14", Opacity: 0.8},
			Animation: floatAnim("opacity", "0.4", "0.9", time.Second)},
	}},
	"cyber": {ID: "cyber", Name: "Cyber Mask", Anchor: AnchorFace, Nodes: []Node{
		{Shape: ShapePlane, Size: Vec3{X: 0.4, Y: 0.25}, Transform: Transform{Position: Vec3{Z: 0.12}}, Material: Material{Color: "#0ff0fc", Opacity: 0.5, Metalness: 0.8}},
	}},
	"crown": {ID: "crown", Name: "Crystal Crown", Anchor: AnchorFace, Nodes: []Node{
		{Shape: ShapeCone, Radius: 0.08, Size: Vec3{Y: 0.15}, Transform: Transform{Position: Vec3{Y: 0.45}}, Material: Material{Color: "#e0ffff", Opacity: 0.85},
			Animation: floatAnim("position", "0 0.45 0", "0 0.5 0", 1500*time.Millisecond)},
	}},

	"dragon": {ID: "dragon", Name: "Fantasy Dragon", Anchor: AnchorWorld, Nodes: []Node{
		{Shape: ShapeSphere, Radius: 0.3, Transform: Transform{Position: Vec3{Z: -2}}, Material: Material{Color: "#8b0000"}},
		{Shape: ShapePlane, Size: Vec3{X: 0.5, Y: 0.3}, Transform: Transform{Position: Vec3{X: -0.4, Z: -2}, Rotation: Vec3{Z: 45}}, Material: Material{Color: "#ff6347", Opacity: 0.7},
			Animation: floatAnim("rotation", "0 0 45", "0 0 90", 500*time.Millisecond)},
		{Shape: ShapePlane, Size: Vec3{X: 0.5, Y: 0.3}, Transform: Transform{Position: Vec3{X: 0.4, Z: -2}, Rotation: Vec3{Z: -45}}, Material: Material{Color: "#ff6347", Opacity: 0.7},
			Animation: floatAnim("rotation", "0 0 -45", "0 0 -90", 500*time.Millisecond)},
	}},
	"robot": {ID: "robot", Name: "Cute Robot", Anchor: AnchorWorld, Nodes: []Node{
		{Shape: ShapeBox, Size: Vec3{X: 0.3, Y: 0.3, Z: 0.3}, Transform: Transform{Position: Vec3{Z: -2}}, Material: Material{Color: "#c0c0c0", Metalness: 0.9}},
		{Shape: ShapeSphere, Radius: 0.03, Transform: Transform{Position: Vec3{X: -0.1, Y: 0.05, Z: -1.84}}, Material: Material{Color: "#00ffff"},
			Animation: floatAnim("color", "#00ffff", "#ff0000", time.Second)},
		{Shape: ShapeSphere, Radius: 0.03, Transform: Transform{Position: Vec3{X: 0.1, Y: 0.05, Z: -1.84}}, Material: Material{Color: "#00ffff"},
			Animation: floatAnim("color", "#00ffff", "#ff0000", time.Second)},
	}},
	"butterfly": {ID: "butterfly", Name: "Magic Butterfly", Anchor: AnchorWorld, Nodes: []Node{
		{Shape: ShapeCylinder, Radius: 0.02, Size: Vec3{Y: 0.2}, Transform: Transform{Position: Vec3{Z: -2}}, Material: Material{Color: "#8b4513"}},
		{Shape: ShapeCircle, Radius: 0.15, Transform: Transform{Position: Vec3{X: -0.15, Y: 0.05, Z: -2}}, Material: Material{Color: "#ff69b4"},
			Animation: floatAnim("rotation", "0 0 0", "0 0 30", 300*time.Millisecond)},
		{Shape: ShapeCircle, Radius: 0.15, Transform: Transform{Position: Vec3{X: 0.15, Y: 0.05, Z: -2}}, Material: Material{Color: "#ff69b4"},
			Animation: floatAnim("rotation", "0 0 0", "0 0 -30", 300*time.Millisecond)},
	}},
	"hologram": {ID: "hologram", Name: "Hologram Avatar", Anchor: AnchorWorld, Nodes: []Node{
		{Shape: ShapeCylinder, Radius: 0.2, Size: Vec3{Y: 0.6}, Transform: Transform{Position: Vec3{Z: -2}}, Material: Material{Color: "#00bfff", Opacity: 0.4},
			Animation: floatAnim("opacity", "0.2", "0.6", 800*time.Millisecond)},
	}},
	"pet": {ID: "pet", Name: "Pet Companion", Anchor: AnchorWorld, Nodes: []Node{
		{Shape: ShapeSphere, Radius: 0.2, Transform: Transform{Position: Vec3{Z: -1.5}}, Material: Material{Color: "#deb887"},
			Animation: floatAnim("position", "0 0 -1.5", "0 0.15 -1.5", 700*time.Millisecond)},
	}},
	"cosmic": {ID: "cosmic", Name: "Cosmic Being", Anchor: AnchorWorld, Nodes: []Node{
		{Shape: ShapeSphere, Radius: 0.2, Transform: Transform{Position: Vec3{Z: -2}}, Material: Material{Color: "#00ff88", Opacity: 0.8},
			Animation: floatAnim("scale", "1 1 1", "1.2 1.2 1.2", time.Second)},
	}},
}

func sparkleNodes() []Node {
	// Ring of small particles around the face anchor.
	positions := []Vec3{
		{X: 0.25, Y: 0.2}, {X: -0.25, Y: 0.2}, {X: 0.3, Y: -0.05},
		{X: -0.3, Y: -0.05}, {X: 0, Y: 0.35}, {X: 0.15, Y: -0.2},
	}
	nodes := make([]Node, 0, len(positions))
	for _, p := range positions {
		nodes = append(nodes, Node{
			Shape:     ShapeSphere,
			Radius:    0.02,
			Transform: Transform{Position: p},
			Material:  Material{Color: "#ffd700", Opacity: 0.9},
			Animation: floatAnim("opacity", "0.3", "1", 600*time.Millisecond),
		})
	}
	return nodes
}

// EffectByID resolves a catalog effect.
func EffectByID(id string) (Effect, bool) {
	e, ok := catalog[id]
	return e, ok
}

// PosterEffect builds the tracked-image overlay for a generated poster:
// a flat plane keyed to the external tracking target, gently floating.
func PosterEffect(imageURL string) Effect {
	return Effect{
		ID:     "poster",
		Name:   "AR Poster",
		Anchor: AnchorTracked,
		Nodes: []Node{
			{
				Shape:     ShapeImage,
				Size:      Vec3{X: 1, Y: 1.5},
				Material:  Material{TextureURL: imageURL},
				Animation: floatAnim("position", "0 0 0", "0 0.1 0", 2*time.Second),
			},
		},
	}
}
