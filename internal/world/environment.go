package world

import (
	"SiteViewer/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

type Kind string

const (
	KindGround   Kind = "ground"
	KindRoad     Kind = "road"
	KindWall     Kind = "wall"
	KindRampPost Kind = "rampPost"
	KindRampRail Kind = "rampRail"
)

type Shape int

const (
	ShapeQuads Shape = iota
	ShapeBox
	ShapeCylinder
)

// Placement is one static piece of the site. Quad shapes carry literal
// vertices in world units; boxes and cylinders are unit solids placed by
// Translate then Scale.
type Placement struct {
	Kind      Kind
	Shape     Shape
	Color     renderer.Color
	Translate mgl32.Vec3
	Scale     mgl32.Vec3
	Quads     [][4]mgl32.Vec3
	Radius    float32
}

var (
	groundColor = renderer.RGB(1, 1, 0.3)
	roadColor   = renderer.RGB8(65, 65, 65)
	wallColor   = renderer.RGB8(85, 65, 25)
	rampColor   = renderer.RGB(1, 0, 0)
)

const (
	groundLevel = -1700
	roadLevel   = -1680
	groundHalf  = 10000
)

// Model placement inside the world frame.
var (
	ModelTranslate = mgl32.Vec3{-3500, 0, 3000}
	ModelScale     = mgl32.Vec3{0.01, 0.01, 0.01}
	ModelRotationY = float32(180)
)

var environment = []Placement{
	{
		Kind:  KindGround,
		Shape: ShapeQuads,
		Color: groundColor,
		Quads: [][4]mgl32.Vec3{{
			{-groundHalf, groundLevel, -groundHalf},
			{-groundHalf, groundLevel, groundHalf},
			{groundHalf, groundLevel, groundHalf},
			{groundHalf, groundLevel, -groundHalf},
		}},
	},
	{
		Kind:  KindRoad,
		Shape: ShapeQuads,
		Color: roadColor,
		Quads: [][4]mgl32.Vec3{
			{
				{-3000, roadLevel, -2000},
				{-3000, roadLevel, 5000},
				{-1000, roadLevel, 5000},
				{-1000, roadLevel, -2000},
			},
			{
				{-3000, roadLevel, -4000},
				{-3000, roadLevel, -2000},
				{5000, roadLevel, -2000},
				{5000, roadLevel, -4000},
			},
		},
	},
	{Kind: KindWall, Shape: ShapeBox, Color: wallColor, Translate: mgl32.Vec3{4400, -1000, 0}, Scale: mgl32.Vec3{400, 1000, 2000}},
	{Kind: KindWall, Shape: ShapeBox, Color: wallColor, Translate: mgl32.Vec3{4400, -1000, -6000}, Scale: mgl32.Vec3{400, 1000, 2000}},
	{Kind: KindWall, Shape: ShapeBox, Color: wallColor, Translate: mgl32.Vec3{7600, -1000, -3000}, Scale: mgl32.Vec3{400, 1000, 5000}},
	{Kind: KindWall, Shape: ShapeBox, Color: wallColor, Translate: mgl32.Vec3{6000, -1000, 2400}, Scale: mgl32.Vec3{2000, 1000, 400}},
	{Kind: KindWall, Shape: ShapeBox, Color: wallColor, Translate: mgl32.Vec3{6000, -1000, -8400}, Scale: mgl32.Vec3{2000, 1000, 400}},
	{Kind: KindRampPost, Shape: ShapeBox, Color: rampColor, Translate: mgl32.Vec3{3200, -1600, -4200}, Scale: mgl32.Vec3{100, 200, 100}},
	{Kind: KindRampPost, Shape: ShapeBox, Color: rampColor, Translate: mgl32.Vec3{3200, -1600, -1800}, Scale: mgl32.Vec3{100, 200, 100}},
	{Kind: KindRampRail, Shape: ShapeCylinder, Color: rampColor, Translate: mgl32.Vec3{3200, -1400, -4200}, Scale: mgl32.Vec3{100, 100, 2400}, Radius: 0.3},
}

// Environment returns a copy of the static site layout in draw order.
func Environment() []Placement {
	out := make([]Placement, len(environment))
	for i, p := range environment {
		p.Quads = append([][4]mgl32.Vec3(nil), p.Quads...)
		out[i] = p
	}
	return out
}

// Count returns how many placements of the given kind the site has.
func Count(kind Kind) int {
	n := 0
	for _, p := range environment {
		if p.Kind == kind {
			n++
		}
	}
	return n
}

func (p *Placement) draw(ctx renderer.Context) {
	defer renderer.Push(ctx).Pop()

	ctx.Color(p.Color)
	switch p.Shape {
	case ShapeQuads:
		for _, q := range p.Quads {
			ctx.Begin(renderer.Quads)
			for _, v := range q {
				ctx.Vertex(v[0], v[1], v[2])
			}
			ctx.End()
		}
	case ShapeBox:
		ctx.Translate(p.Translate[0], p.Translate[1], p.Translate[2])
		ctx.Scale(p.Scale[0], p.Scale[1], p.Scale[2])
		ctx.DrawBox()
	case ShapeCylinder:
		ctx.Translate(p.Translate[0], p.Translate[1], p.Translate[2])
		ctx.Scale(p.Scale[0], p.Scale[1], p.Scale[2])
		ctx.DrawCylinder(p.Radius, p.Radius)
	}
}
