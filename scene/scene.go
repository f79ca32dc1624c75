// Package scene implements the 2D playground: a handful of shapes with
// randomized depth, a movable camera and a wireframe view.
package scene

import (
	"image"
	"image/color"
	"image/draw"
	"slices"
	"time"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/f32"
	"golang.org/x/image/math/fixed"

	"citysim.app/input"
	"citysim.app/settings"
	"citysim.app/xorshift"
)

type Kind int

const (
	Circle Kind = iota
	Rect
)

type Shape struct {
	Kind Kind
	// Center is in world units, with y pointing up.
	Center f32.Vec2
	// Size is the radius of a circle or the side of a square.
	Size  float32
	Z     float32
	Color color.NRGBA
}

// Jitter is the range of the random offset added to the depth of
// every spawned shape.
const Jitter = 10

// CameraSpeed is the camera panning speed in world units per second.
const CameraSpeed = 300

var (
	background = color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
	hudColor   = color.NRGBA{R: 0xe6, G: 0xe6, B: 0xe6, A: 0xff}
)

var colors = []color.NRGBA{
	rgb(0xff0000), // Red
	rgb(0xffa202), // Orange Peel
	rgb(0xffff00), // Yellow
	rgb(0x00ff00), // Green
	rgb(0x00fff2), // Cyan / Aqua
	rgb(0x0097fe), // Azure Radiance
	rgb(0xe000ff), // Electric Violet
	rgb(0xff00aa), // Hollywood Cerise
}

type Playground struct {
	// Wireframe draws shape outlines instead of filled shapes.
	Wireframe bool
	Camera    f32.Vec2

	rng    *xorshift.Source
	shapes []Shape
	hud    string
}

// New spawns the initial playground shapes. Their depth is jittered
// with values drawn from rng.
func New(rng *xorshift.Source, s settings.Settings) *Playground {
	p := &Playground{rng: rng}
	p.SetSettings(s)
	p.add(Shape{
		Kind:   Circle,
		Center: f32.Vec2{39, 40},
		Size:   50,
		Z:      100,
		Color:  color.NRGBA{R: 38, G: 77, B: 230, A: 0xff},
	})
	p.add(Shape{
		Kind:  Circle,
		Size:  50,
		Z:     40,
		Color: color.NRGBA{R: 77, G: 51, B: 230, A: 77},
	})
	p.add(Shape{
		Kind:  Rect,
		Size:  128,
		Color: color.NRGBA{R: 0xff, A: 0xff},
	})
	return p
}

// SetSettings updates the settings line shown on screen.
func (p *Playground) SetSettings(s settings.Settings) {
	p.hud = "quality: " + s.Quality.String() + " - volume: " + s.Volume.String()
}

func (p *Playground) add(s Shape) {
	s.Z += p.rng.Float32() * Jitter
	p.shapes = append(p.shapes, s)
}

// Spawn adds a shape of a random color near the camera.
func (p *Playground) Spawn(k Kind) {
	const spread = 300
	s := Shape{
		Kind: k,
		Center: f32.Vec2{
			p.Camera[0] + (p.rng.Float32()*2-1)*spread,
			p.Camera[1] + (p.rng.Float32()*2-1)*spread,
		},
		Size:  16 + p.rng.Float32()*32,
		Z:     50,
		Color: colors[p.rng.Uint32()%uint32(len(colors))],
	}
	p.add(s)
}

func (p *Playground) Shapes() []Shape {
	return p.shapes
}

// Update moves the camera with WASD and toggles the wireframe view
// with Space.
func (p *Playground) Update(dt time.Duration, keys *input.State) {
	if keys.JustPressed(input.Space) {
		p.Wireframe = !p.Wireframe
	}
	held := func(k input.Key) bool {
		return keys.Pressed(k) || keys.JustPressed(k)
	}
	var dir f32.Vec2
	if held(input.A) {
		dir[0] -= 1
	}
	if held(input.D) {
		dir[0] += 1
	}
	if held(input.W) {
		dir[1] += 1
	}
	if held(input.S) {
		dir[1] -= 1
	}
	step := float32(CameraSpeed * dt.Seconds())
	p.Camera[0] += dir[0] * step
	p.Camera[1] += dir[1] * step
}

// Draw renders the playground onto dst, far shapes first.
func (p *Playground) Draw(dst draw.Image) {
	b := dst.Bounds()
	draw.Draw(dst, b, image.NewUniform(background), image.Point{}, draw.Src)
	width, height := b.Dx(), b.Dy()
	scanner := rasterx.NewScannerGV(width, height, dst, b)
	filler := rasterx.NewFiller(width, height, scanner)
	dasher := rasterx.NewDasher(width, height, scanner)
	dasher.SetStroke(2*64, 0, rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.ArcClip, nil, 0)

	order := slices.Clone(p.shapes)
	slices.SortStableFunc(order, func(a, b Shape) int {
		switch {
		case a.Z < b.Z:
			return -1
		case a.Z > b.Z:
			return 1
		}
		return 0
	})
	var adder interface {
		rasterx.Adder
		SetColor(any)
		Draw()
		Clear()
	} = filler
	if p.Wireframe {
		adder = dasher
	}
	for _, s := range order {
		c := p.toScreen(s.Center, width, height)
		adder.Clear()
		adder.SetColor(s.Color)
		switch s.Kind {
		case Circle:
			rasterx.AddCircle(float64(c[0]), float64(c[1]), float64(s.Size), adder)
		case Rect:
			half := float64(s.Size) / 2
			rasterx.AddRect(float64(c[0])-half, float64(c[1])-half, float64(c[0])+half, float64(c[1])+half, 0, adder)
		}
		adder.Draw()
	}
	drawText(dst, b.Min.Add(image.Pt(8, 16)), hudColor, p.hud)
}

// toScreen converts world coordinates to coordinates relative to the
// image origin. The camera is at the image center.
func (p *Playground) toScreen(v f32.Vec2, width, height int) f32.Vec2 {
	return f32.Vec2{
		v[0] - p.Camera[0] + float32(width)/2,
		float32(height)/2 - (v[1] - p.Camera[1]),
	}
}

func drawText(dst draw.Image, dot image.Point, c color.Color, s string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(dot.X, dot.Y),
	}
	d.DrawString(s)
}

func rgb(c uint32) color.NRGBA {
	return color.NRGBA{
		R: uint8(c >> 16),
		G: uint8(c >> 8),
		B: uint8(c),
		A: 0xff,
	}
}
