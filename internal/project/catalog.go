package project

import (
	"strings"

	"github.com/printlab/filagrid/internal/sequence"
)

// Catalog returns the built-in filament swatches: colors commonly
// loaded in multi-material printers, named so a UI can offer them by
// name instead of asking for hex codes. The returned slice is a copy;
// callers may reorder or trim it freely.
func Catalog() []sequence.Swatch {
	out := make([]sequence.Swatch, len(catalog))
	copy(out, catalog)
	return out
}

// FindSwatch looks up a catalog swatch by name, case-insensitively.
func FindSwatch(name string) (sequence.Swatch, bool) {
	for _, s := range catalog {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return sequence.Swatch{}, false
}

var catalog = []sequence.Swatch{
	{Hex: "#FFFFFF", Name: "White"},
	{Hex: "#000000", Name: "Black"},
	{Hex: "#C12E1F", Name: "Red"},
	{Hex: "#F75403", Name: "Orange"},
	{Hex: "#F4EE2A", Name: "Yellow"},
	{Hex: "#00AE42", Name: "Green"},
	{Hex: "#0A2989", Name: "Blue"},
	{Hex: "#5E43B7", Name: "Purple"},
	{Hex: "#F55A74", Name: "Pink"},
	{Hex: "#00B1B7", Name: "Cyan"},
	{Hex: "#9B9EA0", Name: "Grey"},
	{Hex: "#898989", Name: "Silver"},
	{Hex: "#E4BD68", Name: "Gold"},
	{Hex: "#9D432C", Name: "Brown"},
	{Hex: "#E8DBB7", Name: "Beige"},
	{Hex: "#0078BF", Name: "Sky Blue"},
	{Hex: "#A03CF7", Name: "Violet"},
	{Hex: "#164B35", Name: "Dark Green"},
	{Hex: "#B4E40E", Name: "Lime"},
	{Hex: "#FF6A13", Name: "Safety Orange"},
}
