package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"wyweb/internal/diag"
)

type palette struct {
	err, note, gutter, caret, bold *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		note:   color.New(color.FgCyan, color.Bold),
		gutter: color.New(color.FgBlue, color.Bold),
		caret:  color.New(color.FgRed, color.Bold),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.note, p.gutter, p.caret, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty prints d with the offending line and a caret underline:
//
//	error[VER5001]: assertion failed
//	  --> main.wy:3:8
//	   |
//	 3 | assert x > 0;
//	   |        ^~~~~
//	   = counterexample: {x=0}
func Pretty(w io.Writer, d diag.Diagnostic, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	tab := opts.TabWidth
	if tab <= 0 {
		tab = 4
	}

	label := d.Severity.String()
	if opts.ShowCode {
		label += "[" + d.Code.ID() + "]"
	}
	num := fmt.Sprint(d.Line.Number)
	pad := strings.Repeat(" ", len(num))
	bar := p.gutter.Sprint("|")

	text := d.Line.Text
	start := clamp(d.Line.ColumnStart(), len(text))
	end := clamp(d.Line.ColumnEnd(), len(text))
	lead := runewidth.StringWidth(expandTabs(text[:start], tab))
	width := max(runewidth.StringWidth(expandTabs(text[start:end], tab)), 1)

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", p.err.Sprint(label), p.bold.Sprint(d.Message))
	fmt.Fprintf(&b, "%s%s %s:%d:%d\n", pad, p.gutter.Sprint("-->"), d.Path, d.Line.Number, d.Column())
	fmt.Fprintf(&b, "%s %s\n", pad, bar)
	fmt.Fprintf(&b, "%s %s %s\n", p.gutter.Sprint(num), bar, expandTabs(text, tab))
	fmt.Fprintf(&b, "%s %s %s%s\n", pad, bar, strings.Repeat(" ", lead),
		p.caret.Sprint("^"+strings.Repeat("~", width-1)))
	if d.HasCounterexample {
		fmt.Fprintf(&b, "%s %s counterexample: %s\n", pad, p.note.Sprint("="), d.Counterexample)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// PrettyException prints a failure that has no location.
func PrettyException(w io.Writer, text string, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	_, err := fmt.Fprintf(w, "%s: %s\n", p.err.Sprint("internal error"), text)
	return err
}

func clamp(n, hi int) int {
	return min(max(n, 0), hi)
}

func expandTabs(s string, width int) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", width))
}
