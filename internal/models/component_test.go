// component_test.go - Tests for component classification helpers
package models

import "testing"

func TestKindForName(t *testing.T) {
	cases := []struct {
		name string
		want ComponentKind
	}{
		{"antenna.svg", KindVector},
		{"ANTENNA.SVG", KindVector},
		{"helmet.png", KindRaster},
		{"visor.jpg", KindRaster},
		{"visor.jpeg", KindRaster},
		{"starfield.gif", KindRaster},
		{"nebula.webp", KindRaster},
		{"readme.txt", KindUnknown},
		{"no-extension", KindUnknown},
		{"", KindUnknown},
	}

	for _, c := range cases {
		if got := KindForName(c.name); got != c.want {
			t.Errorf("KindForName(%q) = %s, want %s", c.name, got, c.want)
		}
	}
}

func TestTraitValue(t *testing.T) {
	d := ComponentDescriptor{DisplayName: "round_helmet.svg"}
	if got := d.TraitValue(); got != "round_helmet" {
		t.Errorf("Expected trait value round_helmet, got %s", got)
	}

	d = ComponentDescriptor{DisplayName: "plain"}
	if got := d.TraitValue(); got != "plain" {
		t.Errorf("Expected trait value plain, got %s", got)
	}

	d = ComponentDescriptor{DisplayName: "dotted.v2.png"}
	if got := d.TraitValue(); got != "dotted.v2" {
		t.Errorf("Expected trait value dotted.v2, got %s", got)
	}
}
