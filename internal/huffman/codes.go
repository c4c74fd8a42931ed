package huffman

import (
	"fmt"
	"strings"

	"huffpress/internal/codecerr"
)

// MaxCodeLen is the longest code the packer can emit in one write.
const MaxCodeLen = 64

// Code is a prefix code stored in the low Len bits of Bits, first bit most
// significant.
type Code struct {
	Bits uint64
	Len  uint8
}

// String renders the code as a string of '0' and '1'.
func (c Code) String() string {
	var sb strings.Builder
	for i := int(c.Len) - 1; i >= 0; i-- {
		if c.Bits>>uint(i)&1 == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// IsPrefixOf reports whether c is a proper or equal prefix of other.
func (c Code) IsPrefixOf(other Code) bool {
	if c.Len > other.Len {
		return false
	}
	return other.Bits>>(other.Len-c.Len) == c.Bits
}

// Entry pairs a symbol with its code.
type Entry struct {
	Symbol byte
	Code   Code
}

// CodeTable maps symbols to codes and carries the inverse decoding trie.
type CodeTable struct {
	codes [256]Code
	count int
	trie  *Trie
}

// NewCodeTable derives codes from t by depth-first traversal, appending 0 for
// a left edge and 1 for a right edge.
func NewCodeTable(t *Tree) (*CodeTable, error) {
	ct := &CodeTable{}
	if err := ct.walk(t, t.root, Code{}); err != nil {
		return nil, err
	}

	trie, err := newTrie(ct.Entries())
	if err != nil {
		return nil, err
	}
	ct.trie = trie
	return ct, nil
}

func (ct *CodeTable) walk(t *Tree, idx int, prefix Code) error {
	n := &t.nodes[idx]
	if n.isLeaf() {
		if n.dummy {
			return nil
		}
		ct.codes[n.symbol] = prefix
		ct.count++
		return nil
	}

	if prefix.Len == MaxCodeLen {
		return fmt.Errorf("code table: code longer than %d bits", MaxCodeLen)
	}
	left := Code{Bits: prefix.Bits << 1, Len: prefix.Len + 1}
	right := Code{Bits: prefix.Bits<<1 | 1, Len: prefix.Len + 1}
	if err := ct.walk(t, n.left, left); err != nil {
		return err
	}
	return ct.walk(t, n.right, right)
}

// TableFromCodes rebuilds a code table from stored entries without a tree.
// Duplicate symbols, empty or over-long codes and prefix conflicts are
// reported as codecerr.ErrDecodeMismatch.
func TableFromCodes(entries []Entry) (*CodeTable, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("code table: no entries: %w", codecerr.ErrDecodeMismatch)
	}

	ct := &CodeTable{}
	for _, e := range entries {
		if e.Code.Len == 0 || e.Code.Len > MaxCodeLen {
			return nil, fmt.Errorf("code table: symbol %#x has code length %d: %w",
				e.Symbol, e.Code.Len, codecerr.ErrDecodeMismatch)
		}
		if ct.codes[e.Symbol].Len != 0 {
			return nil, fmt.Errorf("code table: duplicate symbol %#x: %w", e.Symbol, codecerr.ErrDecodeMismatch)
		}
		ct.codes[e.Symbol] = e.Code
		ct.count++
	}

	trie, err := newTrie(ct.Entries())
	if err != nil {
		return nil, err
	}
	ct.trie = trie
	return ct, nil
}

// Lookup returns the code of sym.
func (ct *CodeTable) Lookup(sym byte) (Code, bool) {
	c := ct.codes[sym]
	return c, c.Len > 0
}

// Len returns the number of coded symbols.
func (ct *CodeTable) Len() int {
	return ct.count
}

// Entries returns all coded symbols in ascending symbol order.
func (ct *CodeTable) Entries() []Entry {
	entries := make([]Entry, 0, ct.count)
	for s, c := range ct.codes {
		if c.Len > 0 {
			entries = append(entries, Entry{Symbol: byte(s), Code: c})
		}
	}
	return entries
}

// Trie returns the decoding trie of the table.
func (ct *CodeTable) Trie() *Trie {
	return ct.trie
}

type trieNode struct {
	child  [2]int32
	symbol byte
	leaf   bool
}

// Trie is a binary decoding trie; index 0 is the root.
type Trie struct {
	nodes []trieNode
}

func newTrie(entries []Entry) (*Trie, error) {
	t := &Trie{nodes: make([]trieNode, 1, 2*len(entries))}
	t.nodes[0] = trieNode{child: [2]int32{noChild, noChild}}

	for _, e := range entries {
		cur := int32(0)
		for i := int(e.Code.Len) - 1; i >= 0; i-- {
			if t.nodes[cur].leaf {
				return nil, fmt.Errorf("code table: code of %#x extends another code: %w",
					e.Symbol, codecerr.ErrDecodeMismatch)
			}
			bit := e.Code.Bits >> uint(i) & 1
			next := t.nodes[cur].child[bit]
			if next == noChild {
				t.nodes = append(t.nodes, trieNode{child: [2]int32{noChild, noChild}})
				next = int32(len(t.nodes) - 1)
				t.nodes[cur].child[bit] = next
			}
			cur = next
		}
		n := &t.nodes[cur]
		if n.leaf || n.child[0] != noChild || n.child[1] != noChild {
			return nil, fmt.Errorf("code table: code of %#x is a prefix of another code: %w",
				e.Symbol, codecerr.ErrDecodeMismatch)
		}
		n.leaf = true
		n.symbol = e.Symbol
	}

	return t, nil
}
