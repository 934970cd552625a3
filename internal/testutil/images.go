// images.go - Test image builders
package testutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
)

// SolidPNG returns PNG bytes of a uniformly filled image
func SolidPNG(width, height int, c color.Color) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(fmt.Sprintf("encode test png: %v", err))
	}
	return buf.Bytes()
}

// SimpleSVG returns an SVG document with a single filled rectangle covering
// the given natural size
func SimpleSVG(width, height int, fill string) []byte {
	doc := fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d"><rect x="0" y="0" width="%d" height="%d" fill="%s"/></svg>`,
		width, height, width, height, fill)
	return []byte(doc)
}
