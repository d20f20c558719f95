package ngram

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	s := buildScenario1(t)

	var buf bytes.Buffer
	require.NoError(t, s.Write(&buf, false))

	loaded := NewStore()
	require.NoError(t, loaded.Read(&buf))

	assert.Equal(t, s.NumWords(), loaded.NumWords())
	assert.Equal(t, s.NumNodes(), loaded.NumNodes())
	assert.Equal(t, s.Order(), loaded.Order())
	for i := range s.nodes {
		assert.Equal(t, s.nodes[i], loaded.nodes[i], "node %d", i)
	}
}

func TestWriteReadRoundTripByteIdentical(t *testing.T) {
	s := buildScenario1(t)

	var first, second bytes.Buffer
	require.NoError(t, s.Write(&first, false), "Write(reflip=false)")
	require.NoError(t, s.Write(&second, true), "Write(reflip=true)")

	assert.Equal(t, first.Bytes(), second.Bytes(), "reflip changed the written bytes; the wire format must always be little-endian regardless")
}

func TestReadRejectsBadMagic(t *testing.T) {
	loaded := NewStore()
	err := loaded.Read(bytes.NewReader([]byte("not-a-model\n")))
	if err == nil {
		t.Error("Read should reject a file with the wrong magic header")
	}
}

func TestReadRejectsOrderCountMismatch(t *testing.T) {
	bad := "cis-binlm2\nbackoff\n1\n<unk>\n1 5\n99\n"
	loaded := NewStore()
	err := loaded.Read(bytes.NewReader([]byte(bad)))
	if err == nil {
		t.Error("Read should reject a file whose order_count sum disagrees with num_nodes-1")
	}
}

func TestLogProbConsistentAcrossRoundTrip(t *testing.T) {
	s := buildScenario1(t)

	var buf bytes.Buffer
	if err := s.Write(&buf, false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	loaded := NewStore()
	if err := loaded.Read(&buf); err != nil {
		t.Fatalf("Read: %v", err)
	}

	ctx := &QueryContext{}
	want, err := s.LogProb(ctx, []int32{1, 2, 3})
	if err != nil {
		t.Fatalf("LogProb (original): %v", err)
	}
	got, err := loaded.LogProb(ctx, []int32{1, 2, 3})
	if err != nil {
		t.Fatalf("LogProb (loaded): %v", err)
	}
	if got != want {
		t.Errorf("LogProb after round-trip = %v, want %v", got, want)
	}
}
