// Package distro builds a db.DistroResolver by probing an external TeX
// distribution helper process once per server run (spec.md §6 "Subprocess
// contracts"). The core never shells out to kpsewhich or mktexlsr itself:
// it hands a component name list to whatever helper the editor or CLI
// configured and decodes the name->path map the helper returns. Neither the
// probe result nor any cache of it survives a restart (spec.md §7
// "Persisted state: None") — Probe is called fresh each run.
package distro

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/texlab-project/texlab-core/internal/db"
)

// Request is sent to the helper process on stdin, msgpack-encoded: the set
// of component stems (packages, classes, and their .sty/.cls forms) the
// core wants resolved in one round trip, avoiding one subprocess spawn per
// \usepackage.
type Request struct {
	Names []string `msgpack:"names"`
}

// Response is read back from the helper's stdout, msgpack-encoded.
type Response struct {
	// Paths maps a resolved name to its absolute path on disk.
	Paths map[string]string `msgpack:"paths"`
	// Kind self-reports which distribution the helper detected, purely
	// informational (db.DistroKind).
	Kind uint8 `msgpack:"kind"`
}

// resolver is the db.DistroResolver built from one Response.
type resolver struct {
	paths map[string]string
}

func (r resolver) Resolve(name string) (string, bool) {
	p, ok := r.paths[name]
	return p, ok
}

func (r resolver) IsDistroComponent(stem string) bool {
	_, ok := r.paths[stem]
	return ok
}

// Probe runs helperPath as a subprocess, feeding it a Request naming every
// component stem names is asked about, and decodes its Response into a
// db.DistroResolver plus the distribution kind it reported. Returns
// db.NullResolver{} and db.DistroUnknown on any failure (a missing or
// misbehaving helper is not fatal: include-target resolution simply skips
// the distro fallback and relies on workspace-relative candidates alone).
func Probe(ctx context.Context, helperPath string, names []string) (db.DistroResolver, db.DistroKind) {
	if helperPath == "" {
		return db.NullResolver{}, db.DistroUnknown
	}

	reqBytes, err := msgpack.Marshal(Request{Names: names})
	if err != nil {
		return db.NullResolver{}, db.DistroUnknown
	}

	runCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(runCtx, helperPath)
	cmd.Stdin = bytes.NewReader(reqBytes)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return db.NullResolver{}, db.DistroUnknown
	}

	var resp Response
	if err := msgpack.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return db.NullResolver{}, db.DistroUnknown
	}
	return resolver{paths: resp.Paths}, db.DistroKind(resp.Kind)
}

// KindName renders a db.DistroKind for log/diagnostic output.
func KindName(kind db.DistroKind) string {
	switch kind {
	case db.DistroTexlive:
		return "TeX Live"
	case db.DistroMiktex:
		return "MiKTeX"
	case db.DistroNone:
		return "none"
	default:
		return "unknown"
	}
}

// ErrHelperUnavailable is returned by callers that want to distinguish "no
// helper configured" from a successful empty resolver, e.g. to decide
// whether to log a one-time warning.
var ErrHelperUnavailable = fmt.Errorf("distro: no helper process configured")
