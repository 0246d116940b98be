// Package normalize ofrece plegado de texto para búsquedas insensibles a
// mayúsculas y tildes (los nombres de insumos mezclan "Úrea", "urea", etc.).
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var folder = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)), // quita marcas diacríticas
	norm.NFC,
)

// Fold devuelve el texto en minúsculas y sin tildes.
func Fold(s string) string {
	out, _, err := transform.String(folder, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Matches reporta si term (plegado) aparece dentro de s (plegado).
func Matches(s, term string) bool {
	return strings.Contains(Fold(s), Fold(term))
}
