// Package imaging decodes component images into drawable artworks.
//
// Decoders are looked up by file extension through a registry, mirroring how
// the service detects formats it can render before drawing them. Vector art
// keeps its geometry until draw time so it can be rasterized at the exact
// destination size.
package imaging

import (
	"fmt"
	"image"
	"path"
	"strings"
)

// Artwork is a decoded component ready to be drawn.
type Artwork interface {
	// NaturalSize returns the intrinsic width/height in pixels. For vector
	// art this is the viewBox size.
	NaturalSize() image.Point
	// Render draws the artwork scaled into r on dst.
	Render(dst *image.RGBA, r image.Rectangle) error
}

// Decoder turns raw component bytes into an Artwork.
type Decoder interface {
	// Name returns the unique name of the decoder.
	Name() string
	// CanDecode reports whether this decoder handles the given file name.
	CanDecode(name string) bool
	// Decode parses the raw bytes.
	Decode(data []byte) (Artwork, error)
}

// Registry holds all available decoders and provides extension detection.
type Registry struct {
	decoders []Decoder
}

// Global registry instance
var globalRegistry = NewRegistry()

func NewRegistry() *Registry {
	return &Registry{
		decoders: []Decoder{
			newRasterDecoder("png", decodePNG, ".png"),
			newRasterDecoder("jpeg", decodeJPEG, ".jpg", ".jpeg"),
			newRasterDecoder("gif", decodeGIF, ".gif"),
			newRasterDecoder("webp", decodeWebP, ".webp"),
			newSVGDecoder(),
		},
	}
}

// GetGlobalRegistry returns the singleton registry.
func GetGlobalRegistry() *Registry {
	return globalRegistry
}

// Register adds a new decoder to the registry.
func (r *Registry) Register(d Decoder) {
	r.decoders = append(r.decoders, d)
}

// FindDecoder returns the decoder for a file name, or nil when the format is
// not renderable.
func (r *Registry) FindDecoder(name string) Decoder {
	for _, d := range r.decoders {
		if d.CanDecode(name) {
			return d
		}
	}
	return nil
}

// Supported reports whether the file name has a renderable format.
func (r *Registry) Supported(name string) bool {
	return r.FindDecoder(name) != nil
}

// Decode parses component bytes using the decoder matching the file name.
func (r *Registry) Decode(name string, data []byte) (Artwork, error) {
	d := r.FindDecoder(name)
	if d == nil {
		return nil, fmt.Errorf("no decoder for file: %s", name)
	}
	art, err := d.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s decode of %s: %w", d.Name(), name, err)
	}
	return art, nil
}

func extMatches(name string, exts []string) bool {
	e := strings.ToLower(path.Ext(name))
	for _, x := range exts {
		if e == x {
			return true
		}
	}
	return false
}
