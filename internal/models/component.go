package models

import (
	"path"
	"strings"
)

// ComponentKind distinguishes vector art from raster art.
type ComponentKind string

const (
	KindVector  ComponentKind = "vector"
	KindRaster  ComponentKind = "raster"
	KindUnknown ComponentKind = "unknown"
)

// ComponentDescriptor identifies one candidate component image inside a
// (species, category) folder of the library.
type ComponentDescriptor struct {
	Locator     string        `json:"locator"`     // retrieval key or URL understood by the repository
	DisplayName string        `json:"displayName"` // source file name, extension-bearing
	Kind        ComponentKind `json:"kind"`
}

// SelectedComponent is a descriptor narrowed to exactly one choice, tagged
// with the layer it was selected for. It lives only for one draw.
type SelectedComponent struct {
	ComponentDescriptor
	Category string
	Role     LayerRole
}

// KindForName classifies a file name by its extension.
func KindForName(name string) ComponentKind {
	switch strings.ToLower(path.Ext(name)) {
	case ".svg":
		return KindVector
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return KindRaster
	default:
		return KindUnknown
	}
}

// TraitValue returns the display name with its extension stripped, which is
// the value exported in the trait list.
func (d ComponentDescriptor) TraitValue() string {
	return strings.TrimSuffix(d.DisplayName, path.Ext(d.DisplayName))
}
