package entity

import "strings"

// placeholders que el legado usaba para "sin variante".
var variantPlaceholders = map[string]struct{}{
	"null":      {},
	"undefined": {},
	"none":      {},
	"-":         {},
	"n/a":       {},
}

// NormalizeVariant devuelve la representación canónica de una variante: nil para "sin variante"
// (vacío, solo espacios o placeholder) y el valor recortado en otro caso.
func NormalizeVariant(v string) *string {
	t := strings.TrimSpace(v)
	if t == "" {
		return nil
	}
	if _, ok := variantPlaceholders[strings.ToLower(t)]; ok {
		return nil
	}
	return &t
}

// NormalizeVariantPtr igual que NormalizeVariant pero acepta un puntero (nil = sin variante).
func NormalizeVariantPtr(v *string) *string {
	if v == nil {
		return nil
	}
	return NormalizeVariant(*v)
}

// VariantLabel texto para logs y mensajes; "" cuando no hay variante.
func VariantLabel(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// SameVariant compara dos variantes ya normalizadas.
func SameVariant(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
