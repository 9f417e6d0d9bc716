package format

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Tabular is implemented by command results that have a human table rendering.
type Tabular interface {
	TableHeader() table.Row
	TableRows() []table.Row
}

// Rows is a ready-made Tabular.
type Rows struct {
	Header table.Row
	Body   []table.Row
	// Empty is printed instead of a table when Body is empty.
	Empty string
}

func (r Rows) TableHeader() table.Row { return r.Header }
func (r Rows) TableRows() []table.Row { return r.Body }

func WriteTable(w io.Writer, v Tabular) error {
	rows := v.TableRows()
	if len(rows) == 0 {
		msg := "(empty)"
		if r, ok := v.(Rows); ok && r.Empty != "" {
			msg = r.Empty
		}
		_, err := fmt.Fprintln(w, msg)
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	if h := v.TableHeader(); len(h) > 0 {
		t.AppendHeader(h)
	}
	t.AppendRows(rows)
	t.Render()
	return nil
}
