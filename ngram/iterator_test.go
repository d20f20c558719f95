package ngram

import "testing"

func TestIteratorNextOrderFindsTrigram(t *testing.T) {
	s := buildScenario1(t)
	it := s.Iterator()

	found := false
	for it.NextOrder(3) {
		gram := it.Gram()
		if len(gram) == 3 && gram[0] == 1 && gram[1] == 2 && gram[2] == 3 {
			found = true
			break
		}
	}
	if !found {
		t.Error("iterator never reached the trigram [a,b,c]")
	}
}

func TestIteratorVisitsEachNodeExactlyOnce(t *testing.T) {
	s := buildScenario1(t)
	it := s.Iterator()

	seen := make(map[int]int)
	for it.Next() {
		idx := it.indexStack[len(it.indexStack)-1]
		seen[idx]++
	}

	if len(seen) != s.NumNodes()-1 {
		t.Errorf("visited %d distinct nodes, want %d (all but the root)", len(seen), s.NumNodes()-1)
	}
	for idx, count := range seen {
		if count != 1 {
			t.Errorf("node %d visited %d times, want 1", idx, count)
		}
	}
}

func TestIteratorUpDownRoundTrip(t *testing.T) {
	s := buildScenario1(t)
	it := s.IteratorAt([]int32{1, 2})
	if len(it.Gram()) != 2 {
		t.Fatalf("IteratorAt([a,b]) positioned at depth %d, want 2", len(it.Gram()))
	}

	if !it.Down() {
		t.Fatal("Down() from (a,b) should succeed: (a,b,c) is a child")
	}
	if got := it.Gram(); len(got) != 3 || got[2] != 3 {
		t.Errorf("after Down(), gram = %v, want [.,.,3]", got)
	}

	if !it.Up() {
		t.Fatal("Up() should succeed back to (a,b)")
	}
	if len(it.Gram()) != 2 {
		t.Errorf("after Up(), depth = %d, want 2", len(it.Gram()))
	}
}

func TestIteratorMoveInContextBounds(t *testing.T) {
	s := buildScenario1(t)
	it := s.IteratorAt([]int32{1})
	if len(it.Gram()) != 1 {
		t.Fatalf("IteratorAt([a]) positioned at depth %d, want 1", len(it.Gram()))
	}

	if it.MoveInContext(-1) {
		t.Error("MoveInContext(-1) from the first unigram should fail")
	}
	if !it.MoveInContext(1) {
		t.Error("MoveInContext(1) from a to b should succeed")
	}
	if got := it.Gram(); got[0] != 2 {
		t.Errorf("after MoveInContext(1), word = %d, want 2 (b)", got[0])
	}
}
