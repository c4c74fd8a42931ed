// Package huffman implements the lossy, percentage-tunable Huffman coder:
// frequency analysis, alphabet filtering, tree construction, code tables and
// MSB-first bit packing.
package huffman

import "sort"

// FrequencyTable counts occurrences of every byte value.
type FrequencyTable [256]uint64

// Analyze counts every byte of data in a single pass. An empty input yields
// an empty table.
func Analyze(data []byte) FrequencyTable {
	var ft FrequencyTable
	for _, b := range data {
		ft[b]++
	}
	return ft
}

// Distinct returns the number of symbols with a non-zero count.
func (ft *FrequencyTable) Distinct() int {
	n := 0
	for _, c := range ft {
		if c > 0 {
			n++
		}
	}
	return n
}

// Total returns the summed count of all symbols.
func (ft *FrequencyTable) Total() uint64 {
	var total uint64
	for _, c := range ft {
		total += c
	}
	return total
}

// Symbols returns the present symbols in ascending byte order.
func (ft *FrequencyTable) Symbols() []byte {
	syms := make([]byte, 0, 16)
	for s, c := range ft {
		if c > 0 {
			syms = append(syms, byte(s))
		}
	}
	return syms
}

// Ranked returns the present symbols ordered by ascending count, ties broken
// by ascending byte value.
func (ft *FrequencyTable) Ranked() []byte {
	syms := ft.Symbols()
	sort.SliceStable(syms, func(i, j int) bool {
		return ft[syms[i]] < ft[syms[j]]
	})
	return syms
}
