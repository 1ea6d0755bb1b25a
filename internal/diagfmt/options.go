package diagfmt

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color    bool
	TabWidth int // columns per tab in the source excerpt, 4 when zero
	ShowCode bool
}
