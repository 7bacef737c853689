package simd

import "testing"

func TestChunkStridePositive(t *testing.T) {
	if s := ChunkStride(); s != chunkWide && s != chunkNarrow {
		t.Errorf("ChunkStride() = %d, want %d or %d", s, chunkWide, chunkNarrow)
	}
}

func TestContainsAnyFindsNeedle(t *testing.T) {
	needles := [][]byte{[]byte("cat"), []byte("dog")}
	if !ContainsAny([]byte("I have a dog"), needles) {
		t.Error("expected a match for 'dog'")
	}
	if !ContainsAny([]byte("the cat sat"), needles) {
		t.Error("expected a match for 'cat'")
	}
	if ContainsAny([]byte("a bird flew"), needles) {
		t.Error("expected no match")
	}
}

func TestContainsAnyEmptyNeedleList(t *testing.T) {
	if ContainsAny([]byte("anything"), nil) {
		t.Error("an empty needle list can never match")
	}
}

func TestContainsAnyNeedleLongerThanHaystack(t *testing.T) {
	if ContainsAny([]byte("hi"), [][]byte{[]byte("hello")}) {
		t.Error("a needle longer than the haystack cannot match")
	}
}

func TestContainsAnySpansChunkBoundary(t *testing.T) {
	haystack := make([]byte, chunkWide*3)
	for i := range haystack {
		haystack[i] = 'x'
	}
	needle := []byte("marker")
	copy(haystack[chunkWide-2:], needle)
	if !ContainsAny(haystack, [][]byte{needle}) {
		t.Error("expected a match straddling a chunk boundary")
	}
}
