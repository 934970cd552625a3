package imaging

import "image"

// TransparencyPercent reports how much of img is transparent, as a
// percentage in [0,100]. A pixel counts as transparent when its alpha
// is below full opacity.
func TransparencyPercent(img *image.RGBA) float64 {
	b := img.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return 0
	}
	transparent := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		row := img.Pix[off : off+b.Dx()*4]
		for x := 3; x < len(row); x += 4 {
			if row[x] < 0xff {
				transparent++
			}
		}
	}
	return float64(transparent) / float64(total) * 100
}
