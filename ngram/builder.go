package ngram

import "fmt"

// binarySearchLinearThreshold is the magic threshold at or below which a child
// range is scanned linearly instead of bisected, since the comparison
// overhead of bisection dominates for tiny sibling ranges.
const binarySearchLinearThreshold = 5

// AddGram appends a node representing gram, with the given log-probability
// and back-off weight. Grams must be supplied in canonical order: unigrams
// first by ascending word id, then bigrams in lexicographic (w1,w2) order,
// then trigrams, and so on; the UNK unigram (gram = [0]) is the only
// exception and may be (re-)inserted at any point.
func (s *Store) AddGram(gram []int32, logProb, backOff float32) error {
	if len(s.nodes) == 0 {
		return ErrNotReserved
	}
	if len(gram) == 0 {
		return ErrEmptyGram
	}

	if err := s.checkOrder(gram); err != nil {
		return err
	}

	// New order encountered: extend order_count and bump order.
	if len(gram) > len(s.orderCount) {
		s.orderCount = append(s.orderCount, 0)
		s.order++
	}

	// UNK unigram never counts toward order_count.
	if len(gram) > 1 || gram[0] != 0 {
		s.orderCount[len(gram)-1]++
	}

	if len(gram) == 1 {
		if gram[0] == 0 {
			// OOV/UNK can be updated in place at any time; it leaves
			// lastGram untouched so the canonical sequence carries on.
			s.nodes[0].LogProb = logProb
			s.nodes[0].BackOff = backOff
			return nil
		} else {
			s.nodes = append(s.nodes, Node{Word: gram[0], LogProb: logProb, BackOff: backOff, ChildIndex: -1})
		}
	} else {
		if err := s.findPath(gram); err != nil {
			return err
		}
		parent := s.insertStack[len(s.insertStack)-1]

		// First child being born: open the parent's child range.
		if s.nodes[parent].ChildIndex < 0 {
			s.nodes[parent].ChildIndex = int32(len(s.nodes))
		}

		s.nodes = append(s.nodes, Node{Word: gram[len(gram)-1], LogProb: logProb, BackOff: backOff, ChildIndex: -1})

		// Close the range end on the node *after* the parent — done
		// after insertion, since in the smallest case the inserted node
		// itself is that next node.
		s.nodes[parent+1].ChildIndex = int32(len(s.nodes))

		s.insertStack = append(s.insertStack, len(s.nodes)-1)
	}

	s.lastGram = append(s.lastGram[:0], gram...)
	if s.order != len(s.lastGram) {
		return fmt.Errorf("%w: order %d out of sync with last gram length %d", ErrOrderViolation, s.order, len(s.lastGram))
	}
	return nil
}

// checkOrder enforces canonical insertion order: grams of a given length
// must arrive with non-decreasing prefixes, and a gram's order may only
// grow by one step past the order of the previous insertion.
func (s *Store) checkOrder(gram []int32) error {
	// UNK unigram may be inserted at any time.
	if len(gram) == 1 && gram[0] == 0 {
		return nil
	}

	if len(gram) < len(s.lastGram) || len(gram) > len(s.lastGram)+1 {
		return fmt.Errorf("%w: trying to insert %d-gram after %d-gram: %s",
			ErrOrderViolation, len(gram), len(s.lastGram), s.FormatGram(gram))
	}

	if len(gram) == 1 {
		if int(gram[0]) != len(s.nodes) {
			return fmt.Errorf("%w: trying to insert 1-gram %d to node %d",
				ErrOrderViolation, gram[0], len(s.nodes))
		}
	}

	if len(gram) == len(s.lastGram) {
		i := 0
		for ; i < len(gram); i++ {
			if gram[i] > s.lastGram[i] {
				break
			}
			if gram[i] < s.lastGram[i] {
				return fmt.Errorf("%w: gram not in sorted order: %s", ErrOrderViolation, s.FormatGram(gram))
			}
		}
		if i == len(gram) {
			return fmt.Errorf("%w: duplicate gram: %s", ErrOrderViolation, s.FormatGram(gram))
		}
	}

	return nil
}

// findPath fills insertStack with the indices of gram's (len(gram)-1)
// prefix, reusing the common prefix shared with lastGram (the insert-path
// cache) rather than re-descending from the root every time.
func (s *Store) findPath(gram []int32) error {
	if len(gram) <= 1 {
		return fmt.Errorf("%w: findPath called on a unigram", ErrPrefixNotFound)
	}

	order := 0
	for order < len(gram)-1 && order < len(s.lastGram) {
		if gram[order] != s.lastGram[order] {
			break
		}
		order++
	}
	if order > len(s.insertStack) {
		order = len(s.insertStack)
	}
	s.insertStack = s.insertStack[:order]

	prev := -1
	if order > 0 {
		prev = s.insertStack[order-1]
	}

	for order < len(gram)-1 {
		index := s.findChild(gram[order], prev)
		if index < 0 {
			return fmt.Errorf("%w: %s", ErrPrefixNotFound, s.FormatGram(gram))
		}
		s.insertStack = append(s.insertStack, index)
		prev = index
		order++
	}
	return nil
}

// findChild resolves word's node index among the children of node at
// nodeIndex. If nodeIndex is negative, word is looked up directly in the
// (index-equals-word-id) unigram layer. Returns -1 if not found.
func (s *Store) findChild(word int32, nodeIndex int) int {
	if word < 0 || int(word) >= len(s.words) {
		return -1
	}

	if nodeIndex < 0 {
		return int(word)
	}

	if nodeIndex >= len(s.nodes) {
		return -1
	}

	first := s.nodes[nodeIndex].ChildIndex
	last := s.childRangeEnd(nodeIndex)
	if first < 0 || last < 0 {
		return -1
	}

	return s.binarySearchChild(word, int(first), int(last))
}

// binarySearchChild searches the half-open node index range [first,last)
// for a node with the given Word, falling back to a linear scan for small
// ranges.
func (s *Store) binarySearchChild(word int32, first, last int) int {
	for last-first > binarySearchLinearThreshold {
		mid := first + (last-first)/2
		switch {
		case s.nodes[mid].Word == word:
			return mid
		case s.nodes[mid].Word > word:
			last = mid
		default:
			first = mid + 1
		}
	}
	for ; first < last; first++ {
		if s.nodes[first].Word == word {
			return first
		}
	}
	return -1
}
