package services

import "strings"

// pickByName prefers an exact case-insensitive name match, else the first
// item whose name contains name or is contained in it.
func pickByName[T any](items []T, name string, nameOf func(T) string) (T, bool) {
	var zero T
	want := normalizeName(name)
	if want == "" {
		return zero, false
	}
	for _, it := range items {
		if normalizeName(nameOf(it)) == want {
			return it, true
		}
	}
	for _, it := range items {
		got := normalizeName(nameOf(it))
		if got == "" {
			continue
		}
		if strings.Contains(got, want) || strings.Contains(want, got) {
			return it, true
		}
	}
	return zero, false
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
