package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/hkcm91/StickerNestV3-sub007/internal/codegen"
	"github.com/hkcm91/StickerNestV3-sub007/internal/registry"
	"github.com/hkcm91/StickerNestV3-sub007/internal/spec"
)

// ANSI color codes.
const (
	reset   = "\033[0m"
	bold    = "\033[1m"
	dim     = "\033[2m"
	blue    = "\033[34m"
	yellow  = "\033[33m"
	green   = "\033[32m"
	red     = "\033[31m"
	cyan    = "\033[36m"
	magenta = "\033[35m"
)

// Printer writes human-facing output to stderr, keeping stdout clean for
// machine-readable data.
type Printer struct{}

// New returns a Printer.
func New() *Printer {
	return &Printer{}
}

// Banner prints the startup banner.
func (p *Printer) Banner() {
	fmt.Fprintln(os.Stderr, bold+cyan+"  ╔═══════════════════════════════════╗"+reset)
	fmt.Fprintln(os.Stderr, bold+cyan+"  ║"+reset+bold+"   STICKERC  "+dim+"widget compiler"+reset+bold+cyan+"      ║"+reset)
	fmt.Fprintln(os.Stderr, bold+cyan+"  ╚═══════════════════════════════════╝"+reset)
	fmt.Fprintln(os.Stderr)
}

// Error prints an error line.
func (p *Printer) Error(msg string) {
	fmt.Fprintf(os.Stderr, red+bold+"error: "+reset+"%s\n", msg)
}

// Info prints a dim informational line.
func (p *Printer) Info(msg string) {
	fmt.Fprintf(os.Stderr, dim+"%s"+reset+"\n", msg)
}

// ValidationResult prints a full validation report: errors then warnings,
// each with path, code, and an optional suggestion.
func (p *Printer) ValidationResult(id string, res spec.Result) {
	if res.Valid && len(res.Warnings) == 0 {
		fmt.Fprintf(os.Stderr, green+bold+"✓ %s"+reset+" — valid, no warnings\n", id)
		return
	}
	if res.Valid {
		fmt.Fprintf(os.Stderr, green+bold+"✓ %s"+reset+" — valid, %d warning(s)\n", id, len(res.Warnings))
	} else {
		fmt.Fprintf(os.Stderr, red+bold+"✗ %s"+reset+" — %d error(s), %d warning(s)\n", id, len(res.Errors), len(res.Warnings))
	}
	for _, d := range res.Errors {
		p.diagnostic(red, "✗", d)
	}
	for _, d := range res.Warnings {
		p.diagnostic(yellow, "⚠", d)
	}
}

func (p *Printer) diagnostic(color, symbol string, d spec.Diagnostic) {
	fmt.Fprintf(os.Stderr, "  "+color+symbol+" %-40s"+reset+" "+dim+"[%s]"+reset+" %s\n", d.Path, d.Code, d.Message)
	if d.Suggestion != "" {
		fmt.Fprintf(os.Stderr, "      "+dim+"↳ %s"+reset+"\n", d.Suggestion)
	}
}

// BuildSummary prints the emitted file list with sizes after a build.
func (p *Printer) BuildSummary(pkg *codegen.Package, outDir string) {
	fmt.Fprintf(os.Stderr, green+bold+"✓ built %s"+reset+dim+" (template %s)"+reset+"\n", pkg.ID, pkg.TemplateVersion)
	for _, f := range pkg.Files {
		fmt.Fprintf(os.Stderr, "  "+cyan+"+"+reset+" %-18s "+dim+"%6d bytes"+reset+"\n", f.Path, len(f.Content))
	}
	if outDir != "" {
		fmt.Fprintf(os.Stderr, dim+"  → %s"+reset+"\n", outDir)
	}
}

// WatchEvent prints one line per rebuild cycle in watch mode.
func (p *Printer) WatchEvent(file string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, red+"↻ %s"+reset+" — %v\n", file, err)
		return
	}
	fmt.Fprintf(os.Stderr, magenta+"↻ %s"+reset+dim+" rebuilt"+reset+"\n", file)
}

// Watching announces watch mode startup.
func (p *Printer) Watching(dir string) {
	fmt.Fprintf(os.Stderr, bold+magenta+"── watching %s ──"+reset+dim+" (ctrl-c to stop)"+reset+"\n", dir)
}

// RegistryList prints installed widgets in a fixed-width table.
func (p *Printer) RegistryList(entries []registry.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, dim+"(no widgets installed)"+reset)
		return
	}
	fmt.Fprintf(os.Stderr, bold+"%-24s %-10s %-12s %-6s %s"+reset+"\n", "ID", "VERSION", "CATEGORY", "FILES", "INSTALLED")
	for _, e := range entries {
		fmt.Fprintf(os.Stderr, "%-24s %-10s %-12s %-6d %s\n",
			e.ID, e.Version, e.Category, e.FileCount, e.InstalledAt.Format("2006-01-02 15:04"))
	}
}

// SessionState prints a widget session's mirrored state.
func (p *Printer) SessionState(id string, state map[string]any, keys []string) {
	fmt.Fprintf(os.Stderr, cyan+"◆ %s"+reset+"\n", id)
	for _, k := range keys {
		fmt.Fprintf(os.Stderr, "  %-16s %v\n", k, state[k])
	}
}

// Serving announces the websocket host address.
func (p *Printer) Serving(addr string, widgets []string) {
	fmt.Fprintf(os.Stderr, bold+blue+"▶ serving"+reset+" ws://%s/session/{widget}\n", addr)
	if len(widgets) > 0 {
		fmt.Fprintf(os.Stderr, dim+"  widgets: %s"+reset+"\n", strings.Join(widgets, ", "))
	}
}
