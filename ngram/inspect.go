package ngram

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
)

// Inspect writes a human-readable dump of the store's structure to w:
// header counts, vocabulary size, and the unigram layer, one line per
// unigram with its log-probability, back-off weight and number of
// children. Individual children are not listed.
func (s *Store) Inspect(w io.Writer) error {
	p := func(format string, args ...interface{}) error {
		_, err := fmt.Fprintf(w, format, args...)
		return err
	}

	if err := p("model: %s, %s vocabulary, %s nodes\n",
		s.modelType, humanize.Comma(int64(len(s.words))), humanize.Comma(int64(len(s.nodes)))); err != nil {
		return err
	}
	if err := p("order: %d\n", s.order); err != nil {
		return err
	}
	for i := 1; i <= s.order; i++ {
		if err := p("  order %d: %s grams\n", i, humanize.Comma(int64(s.OrderCount(i)))); err != nil {
			return err
		}
	}

	if err := p("\nunigrams:\n"); err != nil {
		return err
	}
	for id := int32(1); int(id) <= s.OrderCount(1); id++ {
		node := s.nodes[id]
		word, err := s.Word(node.Word)
		if err != nil {
			word = "?"
		}
		childEnd := s.childRangeEnd(int(id))
		numChildren := 0
		if node.ChildIndex >= 0 {
			numChildren = int(childEnd) - int(node.ChildIndex)
		}
		if err := p("  [%d] %s logp=%.4f bo=%.4f children=%d\n",
			id, word, node.LogProb, node.BackOff, numChildren); err != nil {
			return err
		}
	}
	return nil
}
