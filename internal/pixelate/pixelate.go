// Package pixelate produces the block-quantized rendition of a composed
// artifact.
package pixelate

import (
	"fmt"
	"image"
	"image/color"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	xdraw "golang.org/x/image/draw"
)

// Apply returns a copy of img quantized into blockSize×blockSize cells: the
// image is averaged down by the block factor, then scaled back up with
// nearest-neighbor so each cell is a single flat color.
func Apply(img image.Image, blockSize int) (*image.RGBA, error) {
	if blockSize < 1 {
		return nil, fmt.Errorf("block size must be >= 1, got %d", blockSize)
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("cannot pixelate empty image")
	}

	smallW := (w + blockSize - 1) / blockSize
	smallH := (h + blockSize - 1) / blockSize

	small := image.NewRGBA(image.Rect(0, 0, smallW, smallH))
	xdraw.CatmullRom.Scale(small, small.Bounds(), img, b, xdraw.Src, nil)

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), small, small.Bounds(), xdraw.Src, nil)
	return out, nil
}

// ApplyWithPalette pixelates img and additionally snaps every cell color to
// the nearest entry of a paletteSize-color palette extracted from the image.
func ApplyWithPalette(img image.Image, blockSize, paletteSize int) (*image.RGBA, error) {
	out, err := Apply(img, blockSize)
	if err != nil {
		return nil, err
	}
	if paletteSize < 2 {
		return nil, fmt.Errorf("palette size must be >= 2, got %d", paletteSize)
	}

	palette := extractPalette(out, paletteSize)
	if len(palette) == 0 {
		return nil, fmt.Errorf("could not extract a %d-color palette", paletteSize)
	}

	snapColors(out, palette)
	return out, nil
}

// extractPalette clusters the image's opaque pixels with kmeans, falling back
// to dominant-color extraction when clustering fails.
func extractPalette(img *image.RGBA, k int) []colorful.Color {
	b := img.Bounds()

	dataset := make(clusters.Observations, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r16, g16, b16, a16 := img.At(x, y).RGBA()
			if a16 == 0 {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{
				float64(r16) / 65535.0,
				float64(g16) / 65535.0,
				float64(b16) / 65535.0,
			})
		}
	}
	if len(dataset) < k {
		return dominantPalette(img, k)
	}

	km := kmeans.New()
	cc, err := km.Partition(dataset, k)
	if err != nil || len(cc) == 0 {
		return dominantPalette(img, k)
	}

	palette := make([]colorful.Color, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 {
			continue
		}
		palette = append(palette, colorful.Color{
			R: c.Center[0],
			G: c.Center[1],
			B: c.Center[2],
		}.Clamped())
	}
	return palette
}

func dominantPalette(img image.Image, k int) []colorful.Color {
	candidates := dominantcolor.FindWeight(img, k)
	palette := make([]colorful.Color, 0, len(candidates))
	for _, c := range candidates {
		col, ok := colorful.MakeColor(c.RGBA)
		if !ok {
			continue
		}
		palette = append(palette, col.Clamped())
	}
	return palette
}

// snapColors replaces every non-transparent pixel with the palette entry
// nearest in Lab space, preserving alpha.
func snapColors(img *image.RGBA, palette []colorful.Color) {
	b := img.Bounds()
	memo := make(map[color.NRGBA]color.NRGBA)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			src := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if src.A == 0 {
				continue
			}
			snapped, ok := memo[src]
			if !ok {
				snapped = nearest(src, palette)
				memo[src] = snapped
			}
			img.Set(x, y, snapped)
		}
	}
}

func nearest(src color.NRGBA, palette []colorful.Color) color.NRGBA {
	from, _ := colorful.MakeColor(color.NRGBA{R: src.R, G: src.G, B: src.B, A: 255})
	best := palette[0]
	bestDist := from.DistanceLab(best)
	for _, p := range palette[1:] {
		if d := from.DistanceLab(p); d < bestDist {
			best = p
			bestDist = d
		}
	}
	r, g, bl := best.RGB255()
	return color.NRGBA{R: r, G: g, B: bl, A: src.A}
}
