package generator

import (
	"image"
	"math"

	"github.com/jordaneaster/sb-generator/internal/models"
)

// Accessory vertical offsets, as fractions of canvas height. These encode the
// fixed head-and-shoulders layout and must not be recomputed from content.
const (
	accessoryOffsetDefault = 0.2
	accessoryOffsetHats    = 0.05
	accessoryOffsetNeck    = 0.69
	accessoryOffsetBinky   = 0.4
)

// PlaceLayer computes the destination rectangle for a component of the given
// role and category, from its natural dimensions and the canvas dimensions.
// The math is deterministic; identical inputs always yield identical
// rectangles. Invalid image dimensions yield the empty rectangle.
func PlaceLayer(role models.LayerRole, category string, imgW, imgH, canvasW, canvasH int) image.Rectangle {
	if imgW <= 0 || imgH <= 0 || canvasW <= 0 || canvasH <= 0 {
		return image.Rectangle{}
	}

	cw, ch := float64(canvasW), float64(canvasH)
	iw, ih := float64(imgW), float64(imgH)

	switch role {
	case models.RoleBackground, models.RoleSpecial:
		return image.Rect(0, 0, canvasW, canvasH)

	case models.RoleBase:
		scale := math.Min(cw/iw, ch/ih)
		w, h := iw*scale, ih*scale
		x := (cw - w) / 2
		y := (ch - h) * 0.4
		return rectAt(x, y, w, h)

	case models.RoleFeature:
		scale := math.Min(cw/iw*0.8, ch/ih*0.5)
		w, h := iw*scale, ih*scale
		x := (cw - w) / 2
		y := ch * 0.3
		return rectAt(x, y, w, h)

	case models.RoleOutfit:
		// Stretched wider than tall so the garment covers silhouette edges.
		hScale := math.Min(cw/iw*0.9, ch/ih*0.9)
		wScale := hScale * 1.15
		w, h := iw*wScale, ih*hScale
		x := (cw - w) / 2
		y := ch * 0.1
		return rectAt(x, y, w, h)

	default:
		scale := math.Min(cw/iw*0.7, ch/ih*0.5)
		w, h := iw*scale, ih*scale
		x := (cw - w) / 2
		y := ch * accessoryOffset(category)
		return rectAt(x, y, w, h)
	}
}

func accessoryOffset(category string) float64 {
	switch category {
	case "hats":
		return accessoryOffsetHats
	case "neck":
		return accessoryOffsetNeck
	case "binky":
		return accessoryOffsetBinky
	default:
		return accessoryOffsetDefault
	}
}

func rectAt(x, y, w, h float64) image.Rectangle {
	x0 := int(math.Round(x))
	y0 := int(math.Round(y))
	return image.Rect(x0, y0, x0+int(math.Round(w)), y0+int(math.Round(h)))
}
