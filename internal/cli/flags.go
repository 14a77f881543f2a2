package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/costvar/internal/domain"
	"github.com/spf13/pflag"
)

// viewFlag is a pflag.Value restricted to the two tree views.
type viewFlag struct {
	view domain.View
}

var _ pflag.Value = (*viewFlag)(nil)

func newViewFlag() *viewFlag { return &viewFlag{view: domain.ViewByProcess} }

func (f *viewFlag) String() string { return string(f.view) }

func (f *viewFlag) Set(s string) error {
	v, err := domain.ParseView(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	f.view = v
	return nil
}

func (f *viewFlag) Type() string { return "view" }

func addViewFlag(fs *pflag.FlagSet) *viewFlag {
	f := newViewFlag()
	fs.Var(f, "view", "Tree view: by_process or by_type")
	return f
}

// exportFormat selects the export file type.
type exportFormat string

const (
	formatXLSX exportFormat = "xlsx"
	formatPDF  exportFormat = "pdf"
)

var _ pflag.Value = (*exportFormat)(nil)

func (f *exportFormat) String() string { return string(*f) }

func (f *exportFormat) Set(s string) error {
	switch exportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case formatXLSX, "excel":
		*f = formatXLSX
	case formatPDF:
		*f = formatPDF
	default:
		return fmt.Errorf("unsupported format %q (want xlsx or pdf)", s)
	}
	return nil
}

func (f *exportFormat) Type() string { return "format" }
