package huffman

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"huffpress/internal/codecerr"
)

func randomText(seed int64, n int) []byte {
	rnd := rand.New(rand.NewSource(seed))
	alphabet := []byte("eeeeeeeetttttaaaoooiinnsshrdlu ,.;\n0123456789")
	out := make([]byte, n)
	for i := range out {
		out[i] = alphabet[rnd.Intn(len(alphabet))]
	}
	return out
}

func TestAnalyze(t *testing.T) {
	ft := Analyze([]byte("aaaabbbccd"))

	assert.Equal(t, uint64(4), ft['a'])
	assert.Equal(t, uint64(3), ft['b'])
	assert.Equal(t, uint64(2), ft['c'])
	assert.Equal(t, uint64(1), ft['d'])
	assert.Equal(t, 4, ft.Distinct())
	assert.Equal(t, uint64(10), ft.Total())
	assert.Equal(t, []byte("abcd"), ft.Symbols())
	assert.Equal(t, []byte("dcba"), ft.Ranked())

	empty := Analyze(nil)
	assert.Equal(t, 0, empty.Distinct())
	assert.Empty(t, empty.Symbols())
}

func TestDropCount(t *testing.T) {
	tests := []struct {
		name       string
		k          int
		percentage int
		want       int
	}{
		{name: "single symbol", k: 1, percentage: 90, want: 0},
		{name: "two symbols", k: 2, percentage: 90, want: 0},
		{name: "three symbols low", k: 3, percentage: 10, want: 0},
		{name: "three symbols half", k: 3, percentage: 50, want: 1},
		{name: "four symbols half", k: 4, percentage: 50, want: 1},
		{name: "four symbols max", k: 4, percentage: 90, want: 2},
		{name: "full byte alphabet", k: 256, percentage: 50, want: 127},
		{name: "clamped above", k: 101, percentage: 150, want: 90},
		{name: "clamped below", k: 101, percentage: -5, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DropCount(tt.k, tt.percentage))
		})
	}
}

func TestFilterScenario(t *testing.T) {
	data := []byte("aaaabbbccd")
	reduced, report := Filter(Analyze(data), 50)

	require.True(t, report.Applied())
	assert.Equal(t, []byte("d"), report.Dropped)
	assert.Equal(t, PreferredEscape, report.Escape)
	assert.Equal(t, uint64(1), report.Merged)

	assert.Equal(t, uint64(0), reduced['d'])
	assert.Equal(t, uint64(1), reduced['?'])
	assert.Equal(t, uint64(10), reduced.Total())
	assert.Equal(t, 4, reduced.Distinct())

	assert.Equal(t, "aaaabbbcc?", string(Substitute(data, report)))
}

func TestFilterEscapeFallsBackWhenPlaceholderSurvives(t *testing.T) {
	data := []byte("????aab")
	reduced, report := Filter(Analyze(data), 90)

	require.Equal(t, []byte("b"), report.Dropped)
	assert.Equal(t, byte(0x00), report.Escape)
	assert.Equal(t, uint64(4), reduced['?'])
	assert.Equal(t, uint64(1), reduced[0x00])
	assert.Equal(t, []byte("????aa\x00"), Substitute(data, report))
}

func TestFilterNoOpForTinyAlphabets(t *testing.T) {
	for _, data := range [][]byte{[]byte("aaaa"), []byte("abababab")} {
		ft := Analyze(data)
		reduced, report := Filter(ft, 90)

		assert.False(t, report.Applied())
		assert.Equal(t, ft, reduced)
		assert.Equal(t, data, Substitute(data, report))
	}
}

func TestFilterMonotonic(t *testing.T) {
	ft := Analyze(randomText(7, 4096))

	prev := 257
	for p := MinPercentage; p <= MaxPercentage; p++ {
		reduced, _ := Filter(ft, p)
		distinct := reduced.Distinct()
		assert.LessOrEqual(t, distinct, prev, "percentage %d", p)
		assert.Equal(t, ft.Total(), reduced.Total(), "percentage %d", p)
		prev = distinct
	}
}

func TestBuildTreeEmpty(t *testing.T) {
	_, err := BuildTree(FrequencyTable{})
	require.Error(t, err)
	assert.ErrorIs(t, err, codecerr.ErrEmptyInput)
}

func TestBuildTreeSingleSymbol(t *testing.T) {
	tree, err := BuildTree(Analyze(bytes.Repeat([]byte{0x41}, 1000)))
	require.NoError(t, err)
	assert.Equal(t, 1, tree.Leaves())
	assert.Equal(t, uint64(1000), tree.Weight())

	ct, err := NewCodeTable(tree)
	require.NoError(t, err)

	code, ok := ct.Lookup(0x41)
	require.True(t, ok)
	assert.Equal(t, "0", code.String())
	assert.Equal(t, 1, ct.Len())
}

func TestCodeTableKnownCodes(t *testing.T) {
	tree, err := BuildTree(Analyze([]byte("aaaabbbccd")))
	require.NoError(t, err)

	ct, err := NewCodeTable(tree)
	require.NoError(t, err)

	want := map[byte]string{'a': "0", 'b': "10", 'd': "110", 'c': "111"}
	for sym, code := range want {
		got, ok := ct.Lookup(sym)
		require.True(t, ok)
		assert.Equal(t, code, got.String(), "symbol %q", sym)
	}
}

func TestCodeTablePrefixFree(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		data := randomText(seed, 2000)
		data = append(data, byte(seed), 0xFF, 0x80)

		tree, err := BuildTree(Analyze(data))
		require.NoError(t, err)
		ct, err := NewCodeTable(tree)
		require.NoError(t, err)

		entries := ct.Entries()
		for i := range entries {
			require.NotZero(t, entries[i].Code.Len)
			for j := range entries {
				if i == j {
					continue
				}
				assert.False(t, entries[i].Code.IsPrefixOf(entries[j].Code),
					"%s is a prefix of %s", entries[i].Code, entries[j].Code)
			}
		}
	}
}

func TestBuildTreeDeterministic(t *testing.T) {
	ft := Analyze(randomText(3, 5000))

	first, err := BuildTree(ft)
	require.NoError(t, err)
	second, err := BuildTree(ft)
	require.NoError(t, err)

	a, err := NewCodeTable(first)
	require.NoError(t, err)
	b, err := NewCodeTable(second)
	require.NoError(t, err)

	assert.Equal(t, a.Entries(), b.Entries())
}

func TestTableFromCodes(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		wantErr bool
	}{
		{
			name: "valid",
			entries: []Entry{
				{Symbol: 'a', Code: Code{Bits: 0b0, Len: 1}},
				{Symbol: 'b', Code: Code{Bits: 0b10, Len: 2}},
				{Symbol: 'c', Code: Code{Bits: 0b11, Len: 2}},
			},
		},
		{name: "empty", entries: nil, wantErr: true},
		{
			name:    "zero length",
			entries: []Entry{{Symbol: 'a', Code: Code{}}},
			wantErr: true,
		},
		{
			name: "duplicate symbol",
			entries: []Entry{
				{Symbol: 'a', Code: Code{Bits: 0, Len: 1}},
				{Symbol: 'a', Code: Code{Bits: 1, Len: 1}},
			},
			wantErr: true,
		},
		{
			name: "prefix conflict",
			entries: []Entry{
				{Symbol: 'a', Code: Code{Bits: 0b1, Len: 1}},
				{Symbol: 'b', Code: Code{Bits: 0b10, Len: 2}},
			},
			wantErr: true,
		},
		{
			name: "same code twice",
			entries: []Entry{
				{Symbol: 'a', Code: Code{Bits: 0b01, Len: 2}},
				{Symbol: 'b', Code: Code{Bits: 0b01, Len: 2}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, err := TableFromCodes(tt.entries)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, codecerr.ErrDecodeMismatch)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.entries), ct.Len())
		})
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	data := randomText(11, 3000)

	tree, err := BuildTree(Analyze(data))
	require.NoError(t, err)
	ct, err := NewCodeTable(tree)
	require.NoError(t, err)

	payload, padding, err := Pack(data, ct)
	require.NoError(t, err)
	assert.Less(t, padding, uint8(8))
	assert.Less(t, len(payload), len(data))

	var bits uint64
	for _, b := range data {
		c, _ := ct.Lookup(b)
		bits += uint64(c.Len)
	}
	assert.Equal(t, (bits+7)/8, uint64(len(payload)))
	assert.Equal(t, uint8((8-bits%8)%8), padding)

	decoded, err := Unpack(payload, ct.Trie(), uint64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestPackSingleSymbol(t *testing.T) {
	data := bytes.Repeat([]byte{0x41}, 1000)

	tree, err := BuildTree(Analyze(data))
	require.NoError(t, err)
	ct, err := NewCodeTable(tree)
	require.NoError(t, err)

	payload, padding, err := Pack(data, ct)
	require.NoError(t, err)
	assert.Len(t, payload, 125)
	assert.Equal(t, uint8(0), padding)
	assert.Equal(t, make([]byte, 125), payload)

	decoded, err := Unpack(payload, ct.Trie(), 1000)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestPackMissingSymbol(t *testing.T) {
	tree, err := BuildTree(Analyze([]byte("ab")))
	require.NoError(t, err)
	ct, err := NewCodeTable(tree)
	require.NoError(t, err)

	_, _, err = Pack([]byte("abc"), ct)
	assert.Error(t, err)
}

func TestUnpackTruncated(t *testing.T) {
	data := randomText(5, 500)

	tree, err := BuildTree(Analyze(data))
	require.NoError(t, err)
	ct, err := NewCodeTable(tree)
	require.NoError(t, err)

	payload, _, err := Pack(data, ct)
	require.NoError(t, err)

	_, err = Unpack(payload[:len(payload)-1], ct.Trie(), uint64(len(data)))
	require.Error(t, err)
	assert.ErrorIs(t, err, codecerr.ErrTruncatedStream)
}

func TestUnpackDanglingCode(t *testing.T) {
	ct, err := TableFromCodes([]Entry{{Symbol: 'x', Code: Code{Bits: 0, Len: 1}}})
	require.NoError(t, err)

	_, err = Unpack([]byte{0xFF}, ct.Trie(), 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, codecerr.ErrDecodeMismatch)
}
