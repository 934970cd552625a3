package generator

import (
	"image"
	"image/draw"
)

// Canvas is the drawing surface for one generation at a time. It is reused
// across generations rather than re-allocated, and is not safe for concurrent
// use; callers that generate concurrently must each own their own Canvas.
type Canvas struct {
	img *image.RGBA
}

// NewCanvas allocates an opaque white canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{img: image.NewRGBA(image.Rect(0, 0, width, height))}
	c.Clear()
	return c
}

// Clear fills the canvas with opaque white.
func (c *Canvas) Clear() {
	draw.Draw(c.img, c.img.Bounds(), image.White, image.Point{}, draw.Src)
}

// Image exposes the underlying surface for drawing and encoding.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Size returns the canvas dimensions.
func (c *Canvas) Size() (width, height int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}
