package ngram

import (
	"errors"
	"fmt"
	"math"
)

// ErrShortBuffer is returned by FetchBigramList/FetchTrigramList when the
// output buffer is smaller than the target list.
var ErrShortBuffer = errors.New("ngram: output buffer shorter than target list")

// minLogProb and minProb bound safeLogProb's output and input: values are
// expressed in base-10 log space throughout this package.
const (
	minLogProb = -60
	minProb    = 1e-60
)

func safeLogProb(x float64) float32 {
	if x > minProb {
		return float32(math.Log10(x))
	}
	return minLogProb
}

// QueryContext holds the per-query scratch state that the original
// implementation kept on the store itself (m_fetch_stack, m_last_order,
// m_last_history_length). Moving it here is what lets a frozen Store be
// queried concurrently by many readers: each caller owns its own context.
type QueryContext struct {
	fetchStack        []int
	lastOrder         int
	lastHistoryLength int
}

// LastOrder reports on the most recent LogProb call made with this
// context: for a back-off model, the order of the suffix that resolved
// fully; for an interpolated model, the number of suffix orders that
// resolved fully.
func (c *QueryContext) LastOrder() int { return c.lastOrder }

// LastHistoryLength returns the length of history actually resolved by the
// most recent back-off LogProb call, i.e. the order at which the first
// back-off step (or the final hit) occurred. Interpolated queries leave it
// unchanged.
func (c *QueryContext) LastHistoryLength() int { return c.lastHistoryLength }

// ClassMapper maps a raw word-id gram to a class-id gram before lookup. It
// represents the optional cluster-map external collaborator from the
// spec: the store itself is unaware of class maps, a caller simply passes
// one in via WithClassMapper.
type ClassMapper func(gram []int32) []int32

// QueryOption configures a LogProb-family call.
type QueryOption func(*queryOptions)

type queryOptions struct {
	classMap ClassMapper
}

// WithClassMapper applies m to the gram before any lookup, exactly as the
// original log_prob's clmap->wg2cg hook did at the top of the function.
func WithClassMapper(m ClassMapper) QueryOption {
	return func(o *queryOptions) { o.classMap = m }
}

func applyOptions(opts []QueryOption) queryOptions {
	var o queryOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// fetchGram descends from the root along gram[first:], appending resolved
// node indices to ctx.fetchStack until a lookup fails or the tail is
// exhausted.
func (s *Store) fetchGram(ctx *QueryContext, gram []int32, first int) {
	ctx.fetchStack = ctx.fetchStack[:0]
	prev := -1
	for i := first; i < len(gram); i++ {
		node := s.findChild(gram[i], prev)
		if node < 0 {
			break
		}
		ctx.fetchStack = append(ctx.fetchStack, node)
		prev = node
	}
}

// LogProb computes the conditional log10-probability of gram's last word
// given its preceding words, using ctx as scratch space. ctx may be reused
// across calls from the same goroutine; a frozen Store may be queried
// concurrently as long as each goroutine uses its own QueryContext.
//
// If EnableQueryCache has been called, a cache hit skips the walk (and,
// with it, the update of ctx's LastOrder/LastHistoryLength — those two
// diagnostic accessors only reflect the most recent cache miss).
func (s *Store) LogProb(ctx *QueryContext, gram []int32, opts ...QueryOption) (float32, error) {
	if len(gram) == 0 {
		return 0, ErrEmptyGram
	}
	o := applyOptions(opts)
	if o.classMap != nil {
		gram = o.classMap(gram)
	}
	for _, w := range gram {
		if w < 0 || int(w) >= len(s.words) {
			return 0, ErrOutOfVocabulary
		}
	}

	if p, hit := s.cache.get(gram); hit {
		return p, nil
	}

	var p float32
	switch s.modelType {
	case Interpolated:
		p = s.logProbInterpolated(ctx, gram)
	default:
		p = s.logProbBackOff(ctx, gram)
	}
	s.cache.set(gram, p)
	return p, nil
}

// logProbBackOff implements Katz-style back-off: walk successively
// shorter tail suffixes of gram until one resolves fully, accumulating
// back-off weights for every prefix that failed to extend.
func (s *Store) logProbBackOff(ctx *QueryContext, gram []int32) float32 {
	ctx.lastHistoryLength = -1
	var logProb float32

	for n := 0; ; n++ {
		s.fetchGram(ctx, gram, n)
		// Every word id is a valid unigram, so the unigram layer always
		// resolves at worst; this loop always terminates by n == len(gram)-1.

		switch len(ctx.fetchStack) {
		case len(gram) - n:
			// Full tail found.
			logProb += s.nodes[ctx.fetchStack[len(ctx.fetchStack)-1]].LogProb
			ctx.lastOrder = len(gram) - n
			if ctx.lastHistoryLength < 0 {
				ctx.lastHistoryLength = ctx.lastOrder
			}
			return logProb
		case len(gram) - n - 1:
			// Tail minus its last word found: apply back-off and retry
			// with a shorter tail.
			logProb += s.nodes[ctx.fetchStack[len(ctx.fetchStack)-1]].BackOff
			if ctx.lastHistoryLength < 0 {
				ctx.lastHistoryLength = len(gram) - n - 1
			}
		}
	}
}

// logProbInterpolated accumulates in linear probability space over
// suffixes of increasing length, scaling by back-off weights as shorter
// contexts are folded in.
func (s *Store) logProbInterpolated(ctx *QueryContext, gram []int32) float32 {
	var prob float64
	ctx.lastOrder = 0

	limit := len(gram)
	if s.order < limit {
		limit = s.order
	}

	for n := 1; n <= limit; n++ {
		s.fetchGram(ctx, gram, len(gram)-n)

		if len(ctx.fetchStack) < n-1 {
			return safeLogProb(prob)
		}

		if len(ctx.fetchStack) == n-1 {
			bo := math.Pow(10, float64(s.nodes[ctx.fetchStack[len(ctx.fetchStack)-1]].BackOff))
			prob *= bo
			continue
		}

		if n > 1 {
			bo := math.Pow(10, float64(s.nodes[ctx.fetchStack[len(ctx.fetchStack)-2]].BackOff))
			prob *= bo
		}
		prob += math.Pow(10, float64(s.nodes[ctx.fetchStack[len(ctx.fetchStack)-1]].LogProb))
		ctx.lastOrder++
	}
	return safeLogProb(prob)
}

// FetchBigramList fills out[i] with LogProb([prevWord, targets[i]]) for
// every target, amortizing the unigram back-off fill over the whole
// target set instead of repeating it per call.
func (s *Store) FetchBigramList(prevWord int32, targets []int32, out []float32) error {
	if int(prevWord) < 0 || int(prevWord) >= len(s.words) || int(prevWord) >= len(s.nodes) {
		return ErrOutOfVocabulary
	}
	if len(out) < len(targets) {
		return fmt.Errorf("%w: need %d, got %d", ErrShortBuffer, len(targets), len(out))
	}

	buf := make([]float32, len(s.words))
	backOff := s.nodes[prevWord].BackOff
	for i := range s.words {
		buf[i] = backOff + s.nodes[i].LogProb
	}

	first := s.nodes[prevWord].ChildIndex
	last := s.childRangeEnd(int(prevWord))
	if first >= 0 && last > first {
		for i := first; i < last; i++ {
			buf[s.nodes[i].Word] = s.nodes[i].LogProb
		}
	}

	for i, w := range targets {
		out[i] = buf[w]
	}
	return nil
}

// FetchTrigramList fills out[i] with LogProb([w1, w2, targets[i]]) for
// every target. If the bigram (w1,w2) has no node, this degrades to
// FetchBigramList conditioned on w2 alone, matching the back-off model's
// own LogProb behavior in that case.
func (s *Store) FetchTrigramList(w1, w2 int32, targets []int32, out []float32) error {
	bigramIndex := s.findChild(w2, int(w1))
	if bigramIndex < 0 {
		return s.FetchBigramList(w2, targets, out)
	}
	if len(out) < len(targets) {
		return fmt.Errorf("%w: need %d, got %d", ErrShortBuffer, len(targets), len(out))
	}

	buf := make([]float32, len(s.words))
	bigramBackOff := s.nodes[bigramIndex].BackOff
	w2BackOff := s.nodes[w2].BackOff
	base := bigramBackOff + w2BackOff
	for i := range s.words {
		buf[i] = base + s.nodes[i].LogProb
	}

	if first, last := s.nodes[w2].ChildIndex, s.childRangeEnd(int(w2)); first >= 0 && last > first {
		for i := first; i < last; i++ {
			buf[s.nodes[i].Word] = bigramBackOff + s.nodes[i].LogProb
		}
	}

	if first, last := s.nodes[bigramIndex].ChildIndex, s.childRangeEnd(bigramIndex); first >= 0 && last > first {
		for i := first; i < last; i++ {
			buf[s.nodes[i].Word] = s.nodes[i].LogProb
		}
	}

	for i, w := range targets {
		out[i] = buf[w]
	}
	return nil
}
