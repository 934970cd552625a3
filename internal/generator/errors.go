package generator

import "fmt"

// EmptyLayerError reports that a required layer had no candidate components.
// It aborts the generation attempt; optional layers are skipped instead.
type EmptyLayerError struct {
	Category string
	Species  string
	Err      error
}

func (e *EmptyLayerError) Error() string {
	return fmt.Sprintf("no components for required layer %q (species %s)", e.Category, e.Species)
}

func (e *EmptyLayerError) Unwrap() error { return e.Err }

// NoRenderableComponentError reports that a required layer had candidates but
// none in a recognized image format.
type NoRenderableComponentError struct {
	Category string
	Species  string
}

func (e *NoRenderableComponentError) Error() string {
	return fmt.Sprintf("no renderable components for required layer %q (species %s)", e.Category, e.Species)
}
