package extractors

import (
	"github.com/custodia-labs/kbase-cli/internal/extractors/docx"
	"github.com/custodia-labs/kbase-cli/internal/extractors/pdf"
	"github.com/custodia-labs/kbase-cli/internal/extractors/plaintext"
	"github.com/custodia-labs/kbase-cli/internal/extractors/xls"
	"github.com/custodia-labs/kbase-cli/internal/extractors/xlsx"
)

// NewDefaultRegistry registers all built-in extractors.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(pdf.New())
	r.Register(docx.New())
	r.Register(xlsx.New())
	r.Register(xls.New())
	return r
}
