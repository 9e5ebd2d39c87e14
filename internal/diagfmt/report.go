package diagfmt

import (
	"github.com/texlab-project/texlab-core/internal/diag"
	"github.com/texlab-project/texlab-core/internal/source"
)

// Report pairs one document's diagnostics with the source text needed to
// render them. The teacher's pretty/json/sarif printers took a single
// multi-file source.FileSet; texlab's db.Store interns documents
// independently and diag.Bag.Primary spans are document-relative, so a
// printer here works over a slice of Reports instead, one per document
// `texlab diagnose` touched.
type Report struct {
	URI  string
	File *source.File
	Bag  *diag.Bag
}
