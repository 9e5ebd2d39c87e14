package source

import "testing"

func TestLineIndexResolve(t *testing.T) {
	idx := NewLineIndex("a\nbb\nccc")
	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{1, LineCol{Line: 1, Col: 2}},
		{2, LineCol{Line: 2, Col: 1}},
		{5, LineCol{Line: 3, Col: 1}},
		{7, LineCol{Line: 3, Col: 3}},
	}
	for _, c := range cases {
		if got := idx.Resolve(c.off); got != c.want {
			t.Fatalf("Resolve(%d) = %+v, want %+v", c.off, got, c.want)
		}
	}
}

func TestLineIndexOffsetRoundTrip(t *testing.T) {
	text := "one\ntwo\nthree"
	idx := NewLineIndex(text)
	for off := uint32(0); off <= uint32(len(text)); off++ {
		lc := idx.Resolve(off)
		back := idx.Offset(lc)
		if back != off {
			t.Fatalf("offset %d -> %+v -> %d, want round trip", off, lc, back)
		}
	}
}

func TestLineIndexLineCount(t *testing.T) {
	if got := NewLineIndex("no newlines").LineCount(); got != 1 {
		t.Fatalf("LineCount() = %d, want 1", got)
	}
	if got := NewLineIndex("a\nb\nc\n").LineCount(); got != 4 {
		t.Fatalf("LineCount() = %d, want 4", got)
	}
}
