// marker_test.go - Tests for the canvas and the error marker image
package generator

import (
	"image/color"
	"testing"

	"github.com/jordaneaster/sb-generator/internal/imaging"
)

func TestCanvasClear(t *testing.T) {
	canvas := NewCanvas(32, 16)

	w, h := canvas.Size()
	if w != 32 || h != 16 {
		t.Fatalf("Expected 32x16 canvas, got %dx%d", w, h)
	}

	// Scribble, then clear back to opaque white
	canvas.Image().SetRGBA(5, 5, color.RGBA{R: 0xff, A: 0xff})
	canvas.Clear()

	px := canvas.Image().RGBAAt(5, 5)
	if px.R != 0xff || px.G != 0xff || px.B != 0xff || px.A != 0xff {
		t.Errorf("Expected opaque white after clear, got %+v", px)
	}
	if pct := imaging.TransparencyPercent(canvas.Image()); pct != 0 {
		t.Errorf("Expected fully opaque canvas, got %.1f%%", pct)
	}
}

func TestRenderErrorMarker(t *testing.T) {
	img := RenderErrorMarker(128, 64, "GENERATION FAILED", "#7")

	b := img.Bounds()
	if b.Dx() != 128 || b.Dy() != 64 {
		t.Fatalf("Expected 128x64 marker, got %v", b)
	}

	// Corners carry the solid fill
	corner := img.RGBAAt(0, 0)
	if corner.R != markerFill.R || corner.G != markerFill.G || corner.B != markerFill.B {
		t.Errorf("Expected marker fill at corner, got %+v", corner)
	}

	// Somewhere near the center the text is drawn in white
	foundText := false
	for y := 0; y < 64 && !foundText; y++ {
		for x := 0; x < 128; x++ {
			px := img.RGBAAt(x, y)
			if px.R > 0xe0 && px.G > 0xe0 && px.B > 0xe0 {
				foundText = true
				break
			}
		}
	}
	if !foundText {
		t.Error("Expected white text pixels on the marker")
	}
}
