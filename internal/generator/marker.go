package generator

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Marker fill is a saturated red that cannot be mistaken for real artwork.
var markerFill = color.NRGBA{R: 0xb3, G: 0x1b, B: 0x1b, A: 0xff}

// RenderErrorMarker produces the visibly-marked artifact used when a
// generation fails before producing a usable canvas: a solid fill with the
// given lines of text centered on it.
func RenderErrorMarker(width, height int, lines ...string) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(markerFill), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	lineHeight := face.Height + 4
	startY := (height-lineHeight*len(lines))/2 + face.Ascent

	for i, line := range lines {
		w := font.MeasureString(face, line).Ceil()
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(color.White),
			Face: face,
			Dot:  fixed.P((width-w)/2, startY+i*lineHeight),
		}
		d.DrawString(line)
	}
	return img
}
