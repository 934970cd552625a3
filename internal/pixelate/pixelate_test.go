// pixelate_test.go - Tests for block quantization and palette snapping
package pixelate

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

// fillRect paints a solid rectangle onto img
func fillRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// distinctColors counts unique pixel values in img
func distinctColors(img *image.RGBA) int {
	seen := make(map[color.RGBA]struct{})
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			seen[img.RGBAAt(x, y)] = struct{}{}
		}
	}
	return len(seen)
}

func TestApplyUniformImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	fillRect(img, img.Bounds(), color.RGBA{R: 0xff, A: 0xff})

	out, err := Apply(img, 4)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if out.Bounds().Dx() != 16 || out.Bounds().Dy() != 16 {
		t.Fatalf("Expected 16x16 output, got %v", out.Bounds())
	}
	if got := distinctColors(out); got != 1 {
		t.Errorf("Expected uniform input to stay uniform, got %d colors", got)
	}
	px := out.RGBAAt(8, 8)
	if px.R < 0xf0 || px.A != 0xff {
		t.Errorf("Expected red opaque output, got %+v", px)
	}
}

func TestApplyFlattensBlocks(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	fillRect(img, image.Rect(0, 0, 4, 8), color.RGBA{A: 0xff})
	fillRect(img, image.Rect(4, 0, 8, 8), color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})

	// One block covers the whole image, so the result is a single flat color
	out, err := Apply(img, 8)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if got := distinctColors(out); got != 1 {
		t.Errorf("Expected a single flat cell, got %d colors", got)
	}
}

func TestApplyErrors(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))

	if _, err := Apply(img, 0); err == nil {
		t.Error("Expected error for block size 0")
	}
	if _, err := Apply(image.NewRGBA(image.Rectangle{}), 4); err == nil {
		t.Error("Expected error for empty image")
	}
}

func TestApplyWithPalette(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	fillRect(img, image.Rect(0, 0, 8, 16), color.RGBA{R: 0xff, A: 0xff})
	fillRect(img, image.Rect(8, 0, 16, 16), color.RGBA{B: 0xff, A: 0xff})

	out, err := ApplyWithPalette(img, 4, 2)
	if err != nil {
		t.Fatalf("ApplyWithPalette failed: %v", err)
	}
	if out.Bounds().Dx() != 16 || out.Bounds().Dy() != 16 {
		t.Fatalf("Expected 16x16 output, got %v", out.Bounds())
	}
	if got := distinctColors(out); got > 2 {
		t.Errorf("Expected at most 2 colors after palette snap, got %d", got)
	}
	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if out.RGBAAt(x, y).A != 0xff {
				t.Fatalf("Expected opaque output at (%d,%d), got %+v", x, y, out.RGBAAt(x, y))
			}
		}
	}
}

func TestApplyWithPaletteErrors(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	fillRect(img, img.Bounds(), color.RGBA{G: 0xff, A: 0xff})

	if _, err := ApplyWithPalette(img, 4, 1); err == nil {
		t.Error("Expected error for palette size below 2")
	}
	if _, err := ApplyWithPalette(img, 0, 4); err == nil {
		t.Error("Expected error for block size 0")
	}
}
