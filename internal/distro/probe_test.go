package distro

import (
	"context"
	"testing"

	"github.com/texlab-project/texlab-core/internal/db"
)

func TestProbeNoHelperConfigured(t *testing.T) {
	resolver, kind := Probe(context.Background(), "", []string{"amsmath"})
	if kind != db.DistroUnknown {
		t.Fatalf("expected DistroUnknown, got %v", kind)
	}
	if _, ok := resolver.Resolve("amsmath"); ok {
		t.Fatalf("expected NullResolver to resolve nothing")
	}
}

func TestProbeMissingHelperBinary(t *testing.T) {
	resolver, kind := Probe(context.Background(), "/no/such/texlab-distro-helper", []string{"amsmath"})
	if kind != db.DistroUnknown {
		t.Fatalf("expected DistroUnknown on spawn failure, got %v", kind)
	}
	if resolver.IsDistroComponent("amsmath") {
		t.Fatalf("expected no components resolved on spawn failure")
	}
}

func TestKindName(t *testing.T) {
	cases := map[db.DistroKind]string{
		db.DistroTexlive: "TeX Live",
		db.DistroMiktex:  "MiKTeX",
		db.DistroNone:    "none",
		db.DistroUnknown: "unknown",
	}
	for kind, want := range cases {
		if got := KindName(kind); got != want {
			t.Fatalf("KindName(%v) = %q, want %q", kind, got, want)
		}
	}
}
