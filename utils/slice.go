package utils

// UniqueSlice returns the first occurrence of every element of a, in order.
// a itself is left untouched.
func UniqueSlice[K comparable](a []K) []K {
	m := make(map[K]bool, len(a))
	unique := make([]K, 0, len(a))
	for _, v := range a {
		if m[v] {
			continue
		}
		m[v] = true
		unique = append(unique, v)
	}
	return unique
}
