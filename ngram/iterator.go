package ngram

// Iterator performs a depth-first traversal of a frozen Store, or
// positioned navigation relative to a gram. indexStack holds the node
// indices from the current unigram down to the current node; its length
// is always the current order. An Iterator is single-reader state — each
// caller should own its own Iterator over a shared, frozen Store.
type Iterator struct {
	store      *Store
	indexStack []int
}

// Iterator returns a fresh, unpositioned Iterator over s. Call Next to
// move to the first unigram.
func (s *Store) Iterator() *Iterator {
	return &Iterator{store: s, indexStack: make([]int, 0, s.order)}
}

// IteratorAt returns an Iterator positioned at the path resolved by
// descending gram from the root, as far as the tree allows — equivalent
// to the original's iterator(gram) constructor.
func (s *Store) IteratorAt(gram []int32) *Iterator {
	it := &Iterator{store: s, indexStack: make([]int, 0, s.order)}
	prev := -1
	for _, w := range gram {
		node := s.findChild(w, prev)
		if node < 0 {
			break
		}
		it.indexStack = append(it.indexStack, node)
		prev = node
	}
	return it
}

// Next advances the traversal in depth-first order: children first, then
// siblings, backtracking up the stack when a level is exhausted. It
// returns false once every node has been visited.
func (it *Iterator) Next() bool {
	s := it.store

	if len(it.indexStack) == 0 {
		if s.OrderCount(1) == 0 {
			return false
		}
		it.indexStack = append(it.indexStack, 1)
		return true
	}

	backtrack := false
	for {
		index := it.indexStack[len(it.indexStack)-1]
		node := &s.nodes[index]

		if !backtrack {
			if node.ChildIndex >= 0 && s.childRangeEnd(index) > node.ChildIndex {
				it.indexStack = append(it.indexStack, int(node.ChildIndex))
				return true
			}
		}
		backtrack = false

		if len(it.indexStack) == 1 {
			if index == s.OrderCount(1) {
				return false
			}
			it.indexStack[0] = index + 1
			return true
		}

		it.indexStack = it.indexStack[:len(it.indexStack)-1]
		parent := it.indexStack[len(it.indexStack)-1]

		next := index + 1
		if next < int(s.childRangeEnd(parent)) {
			it.indexStack = append(it.indexStack, next)
			return true
		}

		backtrack = true
	}
}

// NextOrder advances until the traversal reaches the given order (1 =
// unigram), returning false if traversal is exhausted first.
func (it *Iterator) NextOrder(order int) bool {
	for {
		if !it.Next() {
			return false
		}
		if len(it.indexStack) == order {
			return true
		}
	}
}

// Node returns the node at depth k of the current path; k == 0 is the
// deepest (current) node, k == len(path)-1 is the unigram.
func (it *Iterator) Node(k int) Node {
	return it.store.nodes[it.indexStack[len(it.indexStack)-1-k]]
}

// Gram returns the word-id sequence of the current path, from unigram to
// the current node.
func (it *Iterator) Gram() []int32 {
	gram := make([]int32, len(it.indexStack))
	for i, idx := range it.indexStack {
		gram[i] = it.store.nodes[idx].Word
	}
	return gram
}

// MoveInContext shifts the current node within its sibling range by
// delta, failing if the result would leave that range.
func (it *Iterator) MoveInContext(delta int) bool {
	s := it.store

	if len(it.indexStack) == 1 {
		next := it.indexStack[0] + delta
		if next < 1 || next > s.OrderCount(1) {
			return false
		}
		it.indexStack[0] = next
		return true
	}

	parent := it.indexStack[len(it.indexStack)-2]
	first := int(s.nodes[parent].ChildIndex)
	last := int(s.childRangeEnd(parent))

	next := it.indexStack[len(it.indexStack)-1] + delta
	if next < first || next >= last {
		return false
	}
	it.indexStack[len(it.indexStack)-1] = next
	return true
}

// Up pops one level of the path, failing if already at the unigram level.
func (it *Iterator) Up() bool {
	if len(it.indexStack) <= 1 {
		return false
	}
	it.indexStack = it.indexStack[:len(it.indexStack)-1]
	return true
}

// Down descends to the first child of the current node, failing if it has
// none.
func (it *Iterator) Down() bool {
	s := it.store
	index := it.indexStack[len(it.indexStack)-1]
	node := &s.nodes[index]
	end := s.childRangeEnd(index)
	if node.ChildIndex < 0 || end < 0 || node.ChildIndex == end {
		return false
	}
	it.indexStack = append(it.indexStack, int(node.ChildIndex))
	return true
}
