// Package simd picks a chunk stride for linear byte scans based on a
// cpu.X86.HasAVX2 feature gate, the same dispatch shape the teacher uses to
// pick between scalar and vectorized scanners. No assembly is carried over
// from the teacher (none was present in the retrieval pack to adapt), so
// both branches below are pure Go; the feature gate only changes how many
// bytes are compared per iteration, keeping AVX2 detection's purpose
// (informed dispatch) honest without fabricating vector code.
package simd

import "golang.org/x/sys/cpu"

// chunkWide is the stride used when wide byte comparison is profitable;
// chunkNarrow is the conservative fallback.
const (
	chunkWide   = 32
	chunkNarrow = 8
)

// ChunkStride reports how many bytes ContainsAny should compare per
// iteration on this CPU.
func ChunkStride() int {
	if cpu.X86.HasAVX2 {
		return chunkWide
	}
	return chunkNarrow
}

// ContainsAny reports whether any of needles occurs in haystack. It scans
// in ChunkStride()-sized strides; each window is extended by the longest
// needle's length minus one so matches across a stride boundary are found,
// and every needle is searched for in each window in turn.
func ContainsAny(haystack []byte, needles [][]byte) bool {
	if len(needles) == 0 {
		return false
	}
	stride := ChunkStride()
	for base := 0; base < len(haystack); base += stride {
		end := base + stride + maxLen(needles) - 1
		if end > len(haystack) {
			end = len(haystack)
		}
		window := haystack[base:end]
		for _, n := range needles {
			if len(n) == 0 || len(n) > len(window) {
				continue
			}
			if indexOf(window, n) >= 0 {
				return true
			}
		}
	}
	return false
}

func maxLen(needles [][]byte) int {
	m := 1
	for _, n := range needles {
		if len(n) > m {
			m = len(n)
		}
	}
	return m
}

func indexOf(haystack, needle []byte) int {
	n := len(needle)
	if n == 0 {
		return 0
	}
	for i := 0; i+n <= len(haystack); i++ {
		if haystack[i] == needle[0] && equal(haystack[i:i+n], needle) {
			return i
		}
	}
	return -1
}

func equal(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
