package reader

// Progress converts a relocation (section index, intra-section fraction) into
// a single global fraction of the whole document. Sections are weighted by
// byte size rather than count, so long sections contribute proportionally
// more and progress does not jump between sections of uneven length.
//
// An empty or all-zero size list yields 0. Out-of-range inputs are clamped.
func Progress(sizes []int, section int, fraction float64) float64 {
	if len(sizes) == 0 {
		return 0
	}

	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	if section < 0 {
		section = 0
	}
	if section >= len(sizes) {
		section = len(sizes) - 1
	}

	var total, read float64
	for i, size := range sizes {
		total += float64(size)
		if i < section {
			read += float64(size)
		}
	}
	read += fraction * float64(sizes[section])

	if total <= 0 {
		return 0
	}
	return read / total
}
