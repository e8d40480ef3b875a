package chunker

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/custodia-labs/paperdex/internal/core/domain"
)

func TestRecursive_Name(t *testing.T) {
	r, err := NewRecursive()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Name() != "recursive" {
		t.Errorf("expected name 'recursive', got %q", r.Name())
	}
}

func TestRecursive_OneChunkPerShortSection(t *testing.T) {
	r, _ := NewRecursive(WithChunkSize(50), WithOverlap(0))

	blocks := []domain.Block{
		{Text: "This paper studies X.", Metadata: map[string]string{domain.MetaSourceSection: "abstract"}},
		{Text: "We propose Y.", Metadata: map[string]string{domain.MetaSourceSection: "introduction"}},
		{Text: "We show Z.", Metadata: map[string]string{domain.MetaSourceSection: "results"}},
	}

	chunks, err := r.Chunk(blocks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, b := range blocks {
		if chunks[i].Content != b.Text {
			t.Errorf("chunk %d: expected %q, got %q", i, b.Text, chunks[i].Content)
		}
		if chunks[i].Section() != b.Metadata[domain.MetaSourceSection] {
			t.Errorf("chunk %d: wrong section %q", i, chunks[i].Section())
		}
		if chunks[i].Metadata[domain.MetaChunkIndex] != "0" {
			t.Errorf("chunk %d: expected chunk_index 0", i)
		}
	}
}

func TestRecursive_CharacterFallbackOverlap(t *testing.T) {
	r, _ := NewRecursive(WithChunkSize(10), WithOverlap(3))

	chunks, _ := r.Chunk([]domain.Block{{Text: "abcdefghijklmnopqrstuvwxyz"}})

	want := []string{"abcdefghij", "hijklmnopq", "opqrstuvwx", "vwxyz"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(chunks))
	}
	for i, w := range want {
		if chunks[i].Content != w {
			t.Errorf("chunk %d: expected %q, got %q", i, w, chunks[i].Content)
		}
	}
}

func TestRecursive_WordBoundaries(t *testing.T) {
	r, _ := NewRecursive(WithChunkSize(9), WithOverlap(4))

	chunks, _ := r.Chunk([]domain.Block{{Text: "aaaa bbbb cccc dddd"}})

	want := []string{"aaaa bbbb", "bbbb cccc", "cccc dddd"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(chunks))
	}
	for i, w := range want {
		if chunks[i].Content != w {
			t.Errorf("chunk %d: expected %q, got %q", i, w, chunks[i].Content)
		}
	}
}

func TestRecursive_SizeBound(t *testing.T) {
	for _, size := range []int{20, 64, 100, 333} {
		r, err := NewRecursive(WithChunkSize(size), WithOverlap(size/5))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		chunks, err := r.Chunk([]domain.Block{{Text: longText()}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(chunks) < 2 {
			t.Fatalf("size %d: expected several chunks, got %d", size, len(chunks))
		}
		checkSizeBound(t, chunks, size)
	}
}

func TestRecursive_SizeBoundMixedBreaks(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	words := []string{"x", "a", "accc", "vector", "index", "retrieval", "embedding"}
	breaks := []string{" ", " ", " ", "\n", "\n\n"}

	pairs := []struct{ size, overlap int }{
		{5, 0}, {5, 2}, {12, 3}, {50, 10}, {80, 0}, {200, 40},
	}
	for _, p := range pairs {
		r, err := NewRecursive(WithChunkSize(p.size), WithOverlap(p.overlap))
		if err != nil {
			t.Fatalf("size %d overlap %d: unexpected error: %v", p.size, p.overlap, err)
		}
		for trial := 0; trial < 50; trial++ {
			var sb strings.Builder
			for w := 0; w < 300; w++ {
				sb.WriteString(words[rng.IntN(len(words))])
				sb.WriteString(breaks[rng.IntN(len(breaks))])
			}
			chunks, err := r.Chunk([]domain.Block{{Text: sb.String()}})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			checkSizeBound(t, chunks, p.size)
		}
	}
}

func TestRecursive_BoundResplitsOversizePieces(t *testing.T) {
	r, _ := NewRecursive(WithChunkSize(5), WithOverlap(0))

	got := r.bound([]string{"abc", "x accc"})

	want := []string{"abc", "x acc", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("piece %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestRecursive_CoversAllWords(t *testing.T) {
	r, _ := NewRecursive(WithChunkSize(40), WithOverlap(0))
	text := longText()

	chunks, _ := r.Chunk([]domain.Block{{Text: text}})

	var joined strings.Builder
	for _, c := range chunks {
		joined.WriteString(c.Content)
		joined.WriteString(" ")
	}
	if got, want := strings.Fields(joined.String()), strings.Fields(text); len(got) != len(want) {
		t.Errorf("expected %d words across chunks, got %d", len(want), len(got))
	}
}
