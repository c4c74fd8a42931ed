package huffman

const (
	MinPercentage     = 10
	MaxPercentage     = 90
	DefaultPercentage = 50

	// PreferredEscape is the placeholder byte for filtered symbols.
	PreferredEscape byte = '?'
)

// FilterReport describes how the alphabet was reduced. Escape is only
// meaningful when Dropped is non-empty.
type FilterReport struct {
	Percentage int
	Escape     byte
	Dropped    []byte // merged symbols, ascending by frequency rank
	Merged     uint64 // occurrences reassigned to Escape
}

// Applied reports whether any symbol was merged into the escape symbol.
func (r FilterReport) Applied() bool {
	return len(r.Dropped) > 0
}

// ClampPercentage limits p to [MinPercentage, MaxPercentage].
func ClampPercentage(p int) int {
	if p < MinPercentage {
		return MinPercentage
	}
	if p > MaxPercentage {
		return MaxPercentage
	}
	return p
}

// DropCount is the number of distinct symbols merged into the escape symbol
// for an alphabet of k symbols: floor(p*(k-1)/100), keeping at least two
// original symbols. Alphabets of two symbols or fewer are never filtered.
func DropCount(k, percentage int) int {
	if k <= 2 {
		return 0
	}
	drop := ClampPercentage(percentage) * (k - 1) / 100
	if drop > k-2 {
		drop = k - 2
	}
	return drop
}

// Filter drops the lowest-ranked fraction of distinct symbols and attributes
// their occurrences to an escape symbol. The returned table covers the same
// total count as ft.
func Filter(ft FrequencyTable, percentage int) (FrequencyTable, FilterReport) {
	percentage = ClampPercentage(percentage)
	report := FilterReport{Percentage: percentage}

	ranked := ft.Ranked()
	drop := DropCount(len(ranked), percentage)
	if drop == 0 {
		return ft, report
	}

	reduced := ft
	report.Dropped = append([]byte(nil), ranked[:drop]...)
	for _, s := range report.Dropped {
		report.Merged += reduced[s]
		reduced[s] = 0
	}

	report.Escape = chooseEscape(&reduced)
	reduced[report.Escape] += report.Merged

	return reduced, report
}

// chooseEscape picks PreferredEscape unless it survived filtering, in which
// case the smallest absent byte value is used. At least one value is always
// absent because filtering drops at least one symbol.
func chooseEscape(survivors *FrequencyTable) byte {
	if survivors[PreferredEscape] == 0 {
		return PreferredEscape
	}
	for s, c := range survivors {
		if c == 0 {
			return byte(s)
		}
	}
	return PreferredEscape
}

// Substitute returns a copy of data with every dropped symbol replaced by the
// escape symbol.
func Substitute(data []byte, report FilterReport) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	if !report.Applied() {
		return out
	}

	var dropped [256]bool
	for _, s := range report.Dropped {
		dropped[s] = true
	}
	for i, b := range out {
		if dropped[b] {
			out[i] = report.Escape
		}
	}
	return out
}
