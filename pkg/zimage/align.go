package zimage

// Align rounds value up to the next multiple of alignment. Alignment must be
// a power of two; zero and one both mean "no alignment".
func Align(value, alignment uint64) uint64 {
	if alignment <= 1 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}
