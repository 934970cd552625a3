package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// rasterArtwork wraps a decoded pixel image. Rendering scales it into the
// destination rectangle with Catmull-Rom resampling, source-over.
type rasterArtwork struct {
	img image.Image
}

func (a *rasterArtwork) NaturalSize() image.Point {
	b := a.img.Bounds()
	return image.Point{X: b.Dx(), Y: b.Dy()}
}

func (a *rasterArtwork) Render(dst *image.RGBA, r image.Rectangle) error {
	if r.Empty() {
		return fmt.Errorf("empty destination rectangle")
	}
	xdraw.CatmullRom.Scale(dst, r, a.img, a.img.Bounds(), xdraw.Over, nil)
	return nil
}

type decodeFunc func(data []byte) (image.Image, error)

// rasterDecoder adapts one pixel codec to the Decoder interface.
type rasterDecoder struct {
	name   string
	exts   []string
	decode decodeFunc
}

func newRasterDecoder(name string, decode decodeFunc, exts ...string) *rasterDecoder {
	return &rasterDecoder{name: name, exts: exts, decode: decode}
}

func (d *rasterDecoder) Name() string { return d.name }

func (d *rasterDecoder) CanDecode(name string) bool {
	return extMatches(name, d.exts)
}

func (d *rasterDecoder) Decode(data []byte) (Artwork, error) {
	img, err := d.decode(data)
	if err != nil {
		return nil, err
	}
	return &rasterArtwork{img: img}, nil
}

func decodePNG(data []byte) (image.Image, error) {
	return png.Decode(bytes.NewReader(data))
}

func decodeJPEG(data []byte) (image.Image, error) {
	return jpeg.Decode(bytes.NewReader(data))
}

func decodeGIF(data []byte) (image.Image, error) {
	return gif.Decode(bytes.NewReader(data))
}

func decodeWebP(data []byte) (image.Image, error) {
	return webp.Decode(bytes.NewReader(data))
}
