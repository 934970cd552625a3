package models

import "time"

// GenerationResult describes one finished generation. Immutable once
// returned by the assembler.
type GenerationResult struct {
	ID            int       `json:"id" msgpack:"id"`
	Species       string    `json:"species" msgpack:"species"`
	ImagePath     string    `json:"imagePath" msgpack:"imagePath"`         // primary artifact reference (URL or local path)
	PixelatedPath string    `json:"pixelatedPath" msgpack:"pixelatedPath"` // pixelated artifact reference
	Traits        []Trait   `json:"traits" msgpack:"traits"`
	Failed        bool      `json:"failed,omitempty" msgpack:"failed"` // true for error-marker fallback results
	GeneratedAt   time.Time `json:"generatedAt" msgpack:"generatedAt"`
}

// MetadataImages holds the two artifact references of a metadata document.
type MetadataImages struct {
	TwoD      string `json:"2D"`
	Pixelated string `json:"pixelated"`
}

// Metadata is the JSON document persisted alongside each generated buddy.
type Metadata struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Images      MetadataImages `json:"images"`
	Attributes  []Trait        `json:"attributes"`
}
