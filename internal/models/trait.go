package models

// Trait is one exported attribute key/value pair of a generated buddy.
// The JSON field names follow the marketplace attribute convention.
type Trait struct {
	TraitType string `json:"trait_type" msgpack:"trait_type"`
	Value     string `json:"value" msgpack:"value"`
}

// Reserved trait types. TraitSpecies is always the first entry of a trait
// list; TraitError marks an error-fallback result.
const (
	TraitSpecies = "species"
	TraitError   = "error"
)
