package cli

import (
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// newTable returns a table writer rendering into w. Terminals get rounded
// borders, a bold header and rows bounded by the terminal width; anything
// else gets plain ASCII.
func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)

	f, tty := terminal(w)
	if !tty {
		tw.SetStyle(table.StyleDefault)
		return tw
	}

	tw.SetStyle(table.StyleRounded)
	if os.Getenv("NO_COLOR") == "" {
		tw.Style().Color.Header = text.Colors{text.Bold}
	}
	if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
		tw.SetAllowedRowLength(width)
	}
	return tw
}

func terminal(w io.Writer) (*os.File, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return nil, false
	}
	fd := f.Fd()
	return f, isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
