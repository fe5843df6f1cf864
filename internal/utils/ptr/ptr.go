// Package ptr has helpers for the optional pointer fields used by search
// parameters and repository records.
package ptr

// To returns a pointer to a copy of v.
func To[T any](v T) *T {
	return &v
}

// Int returns a pointer to i.
func Int(i int) *int {
	return &i
}

// String returns a pointer to s.
func String(s string) *string {
	return &s
}

// Deref returns *p, or def when p is nil.
func Deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
