package scene

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/srwiley/rasterx"

	"citysim.app/settings"
)

var (
	panelColor  = color.NRGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xd0}
	buttonColor = color.NRGBA{R: 0x26, G: 0x26, B: 0x26, A: 0xff}
	// Highlighted button.
	pressedColor = color.NRGBA{R: 0x59, G: 0xbf, B: 0x59, A: 0xff}
	textColor    = color.NRGBA{R: 0xe6, G: 0xe6, B: 0xe6, A: 0xff}
)

const (
	buttonWidth   = 200
	buttonHeight  = 40
	buttonSpacing = 12
)

// DrawMenu draws a centered column of labeled buttons over dst, with
// the button at index selected highlighted.
func DrawMenu(dst draw.Image, title string, labels []string, selected int) {
	b := dst.Bounds()
	width, height := b.Dx(), b.Dy()
	scanner := rasterx.NewScannerGV(width, height, dst, b)
	filler := rasterx.NewFiller(width, height, scanner)

	n := len(labels)
	panelH := 2*buttonHeight + n*(buttonHeight+buttonSpacing)
	top := float64(height-panelH) / 2
	left := float64(width-buttonWidth) / 2
	fill := func(x0, y0, x1, y1 float64, c color.Color) {
		filler.Clear()
		filler.SetColor(c)
		rasterx.AddRect(x0, y0, x1, y1, 0, filler)
		filler.Draw()
	}
	fill(left-buttonSpacing, top, left+buttonWidth+buttonSpacing, top+float64(panelH), panelColor)
	drawText(dst, b.Min.Add(image.Pt(int(left), int(top)+buttonHeight/2+6)), textColor, title)
	y := top + 2*buttonHeight
	for i, l := range labels {
		c := buttonColor
		if i == selected {
			c = pressedColor
		}
		fill(left, y, left+buttonWidth, y+buttonHeight, c)
		drawText(dst, b.Min.Add(image.Pt(int(left)+12, int(y)+buttonHeight/2+4)), textColor, l)
		y += buttonHeight + buttonSpacing
	}
}

// DrawSlider draws a horizontal bar below the menu, filled to the
// fraction of s.
func DrawSlider(dst draw.Image, s settings.Slider) {
	b := dst.Bounds()
	width, height := b.Dx(), b.Dy()
	scanner := rasterx.NewScannerGV(width, height, dst, b)
	filler := rasterx.NewFiller(width, height, scanner)
	left := float64(width-buttonWidth) / 2
	top := float64(height) - 2*buttonHeight
	f := float64(max(0, min(s.Fraction(), 1)))
	for _, r := range []struct {
		w float64
		c color.Color
	}{
		{buttonWidth, buttonColor},
		{buttonWidth * f, pressedColor},
	} {
		filler.Clear()
		filler.SetColor(r.c)
		rasterx.AddRect(left, top, left+r.w, top+buttonHeight/2, 0, filler)
		filler.Draw()
	}
}
