package util

// InPlaceFilter keeps the elements of s matching keep, reusing its backing array,
// and returns how many were dropped.
func InPlaceFilter[T any](s *[]T, keep func(T) bool) int {
	kept := (*s)[:0]
	for _, element := range *s {
		if keep(element) {
			kept = append(kept, element)
		}
	}

	dropped := len(*s) - len(kept)
	clear((*s)[len(kept):])
	*s = kept

	return dropped
}
