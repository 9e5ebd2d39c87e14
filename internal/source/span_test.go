package source

import "testing"

func TestSpanEmpty(t *testing.T) {
	if !(Span{Start: 5, End: 5}).Empty() {
		t.Fatalf("zero-length span should be Empty")
	}
	if (Span{Start: 5, End: 6}).Empty() {
		t.Fatalf("non-zero span should not be Empty")
	}
}

func TestSpanLen(t *testing.T) {
	if got := (Span{Start: 3, End: 10}).Len(); got != 7 {
		t.Fatalf("Len() = %d, want 7", got)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{Start: 10, End: 20}
	b := Span{Start: 5, End: 15}
	want := Span{Start: 5, End: 20}
	if got := a.Cover(b); got != want {
		t.Fatalf("Cover() = %+v, want %+v", got, want)
	}
	if got := b.Cover(a); got != want {
		t.Fatalf("Cover() is not commutative: got %+v, want %+v", got, want)
	}
}

func TestSpanContains(t *testing.T) {
	s := Span{Start: 10, End: 20}
	if !s.Contains(10) || !s.Contains(19) {
		t.Fatalf("Contains should include [Start, End)")
	}
	if s.Contains(20) || s.Contains(9) {
		t.Fatalf("Contains must exclude End and anything before Start")
	}
}

func TestSpanAtStartAtEnd(t *testing.T) {
	s := Span{Start: 10, End: 20}
	if got := s.AtStart(); got.Start != 10 || got.End != 10 {
		t.Fatalf("AtStart() = %+v, want zero-length at 10", got)
	}
	if got := s.AtEnd(); got.Start != 20 || got.End != 20 {
		t.Fatalf("AtEnd() = %+v, want zero-length at 20", got)
	}
}
