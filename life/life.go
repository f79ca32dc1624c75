// Package life implements Conway's Game of Life on a bounded grid.
// Cells beyond the edges are permanently dead.
package life

import (
	"image"
	"image/color"
	"image/draw"

	"citysim.app/xorshift"
)

// Default grid dimensions, a quarter of a 1280x720 display.
const (
	Width  = 1280 / 4
	Height = 720 / 4
)

// Threshold is the seeding threshold; a cell starts alive when its
// random value exceeds it.
const Threshold = 0.9

type Grid struct {
	w, h  int
	cells []bool
	next  []bool
}

func New(w, h int) *Grid {
	return &Grid{
		w:     w,
		h:     h,
		cells: make([]bool, w*h),
		next:  make([]bool, w*h),
	}
}

func (g *Grid) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.w, g.h)
}

// Randomize sets every cell alive with probability 1-threshold.
func (g *Grid) Randomize(rng *xorshift.Source, threshold float32) {
	for i := range g.cells {
		g.cells[i] = rng.Float32() > threshold
	}
}

func (g *Grid) Set(x, y int, alive bool) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.cells[y*g.w+x] = alive
}

func (g *Grid) Alive(x, y int) bool {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return false
	}
	return g.cells[y*g.w+x]
}

func (g *Grid) Population() int {
	n := 0
	for _, c := range g.cells {
		if c {
			n++
		}
	}
	return n
}

// Step advances the grid one generation.
func (g *Grid) Step() {
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			n := g.neighbours(x, y)
			alive := g.cells[y*g.w+x]
			g.next[y*g.w+x] = n == 3 || (alive && n == 2)
		}
	}
	g.cells, g.next = g.next, g.cells
}

func (g *Grid) neighbours(x, y int) int {
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if (dx != 0 || dy != 0) && g.Alive(x+dx, y+dy) {
				n++
			}
		}
	}
	return n
}

// Draw paints the grid onto dst, every cell as a scale×scale square.
func (g *Grid) Draw(dst draw.Image, scale int) {
	b := dst.Bounds()
	draw.Draw(dst, b, image.NewUniform(color.Black), image.Point{}, draw.Src)
	white := image.NewUniform(color.White)
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			if !g.cells[y*g.w+x] {
				continue
			}
			r := image.Rect(x*scale, y*scale, (x+1)*scale, (y+1)*scale).Add(b.Min)
			draw.Draw(dst, r.Intersect(b), white, image.Point{}, draw.Src)
		}
	}
}
