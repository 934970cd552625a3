package imaging

import (
	"bytes"
	"fmt"
	"image"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// svgArtwork keeps the parsed vector document and rasterizes it at the
// destination size, so vector components stay sharp at any placement scale.
type svgArtwork struct {
	icon *oksvg.SvgIcon
}

func (a *svgArtwork) NaturalSize() image.Point {
	return image.Point{
		X: int(a.icon.ViewBox.W + 0.5),
		Y: int(a.icon.ViewBox.H + 0.5),
	}
}

func (a *svgArtwork) Render(dst *image.RGBA, r image.Rectangle) error {
	if r.Empty() {
		return fmt.Errorf("empty destination rectangle")
	}
	b := dst.Bounds()
	a.icon.SetTarget(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), dst, b)
	a.icon.Draw(rasterx.NewDasher(b.Dx(), b.Dy(), scanner), 1.0)
	return nil
}

type svgDecoder struct{}

func newSVGDecoder() *svgDecoder { return &svgDecoder{} }

func (d *svgDecoder) Name() string { return "svg" }

func (d *svgDecoder) CanDecode(name string) bool {
	return extMatches(name, []string{".svg"})
}

func (d *svgDecoder) Decode(data []byte) (Artwork, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.WarnErrorMode)
	if err != nil {
		return nil, err
	}
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		return nil, fmt.Errorf("svg has no usable viewBox")
	}
	return &svgArtwork{icon: icon}, nil
}
