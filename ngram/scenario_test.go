package ngram

import "testing"

// buildScenario1 builds a small shared fixture store: vocabulary
// ["<unk>","a","b","c"], unigrams a/-1/-0.5, b/-1/-0.5, c/-1/0, bigram
// (a,b)/-0.3/-0.2, trigram (a,b,c)/-0.7/0.
func buildScenario1(t *testing.T) *Store {
	t.Helper()

	s := NewStore()
	s.ReserveNodes(8)
	for _, w := range []string{"<unk>", "a", "b", "c"} {
		s.AddWord(w)
	}

	grams := []struct {
		gram            []int32
		logProb, backOff float32
	}{
		{[]int32{1}, -1, -0.5},
		{[]int32{2}, -1, -0.5},
		{[]int32{3}, -1, 0},
		{[]int32{1, 2}, -0.3, -0.2},
		{[]int32{1, 2, 3}, -0.7, 0},
	}
	for _, g := range grams {
		if err := s.AddGram(g.gram, g.logProb, g.backOff); err != nil {
			t.Fatalf("AddGram(%v): %v", g.gram, err)
		}
	}
	return s
}
