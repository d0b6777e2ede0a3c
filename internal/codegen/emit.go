package codegen

import "strings"

// docWriter accumulates generated source lines, honoring the Minify and
// IncludeComments options uniformly across emitters.
type docWriter struct {
	lines    []string
	minify   bool
	comments bool
}

func newDocWriter(opts Options) *docWriter {
	return &docWriter{minify: opts.Minify, comments: opts.IncludeComments}
}

// line appends one source line. Under minify, leading indentation is
// dropped.
func (w *docWriter) line(s string) {
	if w.minify {
		s = strings.TrimLeft(s, " \t")
	}
	w.lines = append(w.lines, s)
}

// blank appends an empty separator line, skipped under minify.
func (w *docWriter) blank() {
	if w.minify {
		return
	}
	w.lines = append(w.lines, "")
}

// banner appends a section banner comment when IncludeComments is set.
func (w *docWriter) banner(title string) {
	if !w.comments {
		return
	}
	w.blank()
	w.line("// --- " + title + " ---")
}

func (w *docWriter) String() string {
	return strings.Join(w.lines, "\n") + "\n"
}
