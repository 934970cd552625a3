// Package models contains domain types for the Space Buddies generator.
package models

import "fmt"

// LayerRole classifies the placement geometry a category uses on the canvas.
type LayerRole string

const (
	RoleBackground LayerRole = "background"
	RoleBase       LayerRole = "base"
	RoleFeature    LayerRole = "feature"
	RoleOutfit     LayerRole = "outfit"
	RoleAccessory  LayerRole = "accessory"
	RoleSpecial    LayerRole = "special"
)

// Valid reports whether r is a known placement role.
func (r LayerRole) Valid() bool {
	switch r {
	case RoleBackground, RoleBase, RoleFeature, RoleOutfit, RoleAccessory, RoleSpecial:
		return true
	}
	return false
}

// LayerSpec describes one layer slot of the composition.
type LayerSpec struct {
	Category string    `json:"category" yaml:"category"`
	Role     LayerRole `json:"role" yaml:"role"`
	Optional bool      `json:"optional,omitempty" yaml:"optional,omitempty"`
}

// LayerScheme is the ordered sequence of layer slots. Slice order is z-order:
// index 0 is drawn first (bottom), the last entry lands on top. The order must
// not be rearranged at runtime.
type LayerScheme struct {
	Layers []LayerSpec `json:"layers" yaml:"layers"`
}

// DefaultScheme returns the stock Space Buddies layer order.
func DefaultScheme() LayerScheme {
	return LayerScheme{Layers: []LayerSpec{
		{Category: "background", Role: RoleBackground},
		{Category: "head", Role: RoleBase},
		{Category: "eyes", Role: RoleFeature},
		{Category: "clothing", Role: RoleOutfit, Optional: true},
		{Category: "neck", Role: RoleAccessory, Optional: true},
		{Category: "hats", Role: RoleAccessory, Optional: true},
		{Category: "binky", Role: RoleAccessory, Optional: true},
		{Category: "special", Role: RoleSpecial, Optional: true},
	}}
}

// Validate checks every slot has a category and a known role.
// Duplicate categories are legal here; the compositor skips repeats.
func (s LayerScheme) Validate() error {
	if len(s.Layers) == 0 {
		return fmt.Errorf("layer scheme is empty")
	}
	for i, l := range s.Layers {
		if l.Category == "" {
			return fmt.Errorf("layer %d: missing category", i)
		}
		if !l.Role.Valid() {
			return fmt.Errorf("layer %q: unknown role %q", l.Category, l.Role)
		}
	}
	return nil
}

// Duplicates returns categories that appear more than once, in first-seen
// order. Useful for logging misconfiguration at startup.
func (s LayerScheme) Duplicates() []string {
	seen := make(map[string]int)
	var dups []string
	for _, l := range s.Layers {
		seen[l.Category]++
		if seen[l.Category] == 2 {
			dups = append(dups, l.Category)
		}
	}
	return dups
}
