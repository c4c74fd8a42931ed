package huffman

import (
	"container/heap"
	"fmt"

	"huffpress/internal/codecerr"
)

const noChild = -1

// node is either a leaf (left == right == noChild) or an internal node.
// Children are indices into the owning Tree's arena.
type node struct {
	weight uint64
	left   int
	right  int
	symbol byte
	dummy  bool
}

func (n *node) isLeaf() bool {
	return n.left == noChild
}

// Tree is a Huffman tree stored as an arena of nodes.
type Tree struct {
	nodes []node
	root  int
}

// Leaves returns the number of real (non-dummy) leaves.
func (t *Tree) Leaves() int {
	n := 0
	for i := range t.nodes {
		if t.nodes[i].isLeaf() && !t.nodes[i].dummy {
			n++
		}
	}
	return n
}

// Weight returns the root weight, i.e. the total symbol count.
func (t *Tree) Weight() uint64 {
	return t.nodes[t.root].weight
}

type queueItem struct {
	weight uint64
	seq    int
	index  int
}

// nodeQueue is a min-heap ordered by weight, then by insertion sequence.
type nodeQueue []queueItem

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool {
	if q[i].weight != q[j].weight {
		return q[i].weight < q[j].weight
	}
	return q[i].seq < q[j].seq
}

func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(x any) { *q = append(*q, x.(queueItem)) }

func (q *nodeQueue) Pop() any {
	old := *q
	item := old[len(old)-1]
	*q = old[:len(old)-1]
	return item
}

// BuildTree builds a Huffman tree from ft. Leaves are queued in ascending
// symbol order and every merged node takes the next sequence number, so equal
// tables always produce identical trees. A single-symbol table gets a dummy
// right sibling so the symbol is coded with one bit.
func BuildTree(ft FrequencyTable) (*Tree, error) {
	syms := ft.Symbols()
	if len(syms) == 0 {
		return nil, fmt.Errorf("build tree: %w", codecerr.ErrEmptyInput)
	}

	t := &Tree{nodes: make([]node, 0, 2*len(syms)+1)}

	if len(syms) == 1 {
		leaf := t.add(node{weight: ft[syms[0]], symbol: syms[0], left: noChild, right: noChild})
		dummy := t.add(node{left: noChild, right: noChild, dummy: true})
		t.root = t.add(node{weight: ft[syms[0]], left: leaf, right: dummy})
		return t, nil
	}

	q := make(nodeQueue, 0, len(syms))
	seq := 0
	for _, s := range syms {
		idx := t.add(node{weight: ft[s], symbol: s, left: noChild, right: noChild})
		q = append(q, queueItem{weight: ft[s], seq: seq, index: idx})
		seq++
	}
	heap.Init(&q)

	for q.Len() > 1 {
		a := heap.Pop(&q).(queueItem)
		b := heap.Pop(&q).(queueItem)
		idx := t.add(node{weight: a.weight + b.weight, left: a.index, right: b.index})
		heap.Push(&q, queueItem{weight: a.weight + b.weight, seq: seq, index: idx})
		seq++
	}

	t.root = q[0].index
	return t, nil
}

func (t *Tree) add(n node) int {
	t.nodes = append(t.nodes, n)
	return len(t.nodes) - 1
}
