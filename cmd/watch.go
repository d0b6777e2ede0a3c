package cmd

import (
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hkcm91/StickerNestV3-sub007/internal/codegen"
	"github.com/hkcm91/StickerNestV3-sub007/internal/config"
	"github.com/hkcm91/StickerNestV3-sub007/internal/project"
	"github.com/hkcm91/StickerNestV3-sub007/internal/spec"
	"github.com/hkcm91/StickerNestV3-sub007/internal/telemetry"
	"github.com/hkcm91/StickerNestV3-sub007/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the project whenever its spec file changes",
	Long: `Watches the project directory and rebuilds the configured spec file on
every save. A spec that fails validation reports its diagnostics and
leaves the previous output untouched.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	printer := ui.New()
	printer.Banner()

	m, err := findManifest()
	if err != nil {
		return err
	}

	trace, err := openTrace(&cfg)
	if err != nil {
		return err
	}
	defer trace.Close()

	opts := codegen.Options{
		Minify:          m.Build.Minify,
		IncludeTests:    m.Build.Tests,
		IncludeComments: m.Build.Comments,
	}

	rebuild := func(path string) {
		s, err := spec.Load(path)
		if err != nil {
			printer.WatchEvent(filepath.Base(path), err)
			return
		}
		res := spec.Validate(s)
		if !res.Valid {
			printer.ValidationResult(s.ID, res)
			printer.WatchEvent(filepath.Base(path), errors.New("spec invalid, output unchanged"))
			return
		}
		pkg, err := codegen.Generate(s, opts)
		if err != nil {
			printer.WatchEvent(filepath.Base(path), err)
			return
		}
		if err := codegen.WritePackage(pkg, m.OutDir(), codegen.WriteOptions{Overwrite: true}); err != nil {
			printer.WatchEvent(filepath.Base(path), err)
			return
		}
		trace.Emit(telemetry.Event{Kind: telemetry.KindWatchRebuild, WidgetID: s.ID}) //nolint:errcheck
		printer.WatchEvent(filepath.Base(path), nil)
	}

	// Initial build before entering the loop.
	rebuild(m.SpecPath())

	w, err := project.NewWatcher(m.Dir)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	printer.Watching(m.Dir)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	specPath := m.SpecPath()
	for {
		select {
		case change, ok := <-w.Changes:
			if !ok {
				return nil
			}
			if change.Kind == project.ChangeRemoved {
				if change.File == specPath {
					printer.WatchEvent(filepath.Base(change.File), errors.New("spec file removed"))
				}
				continue
			}
			if change.File != specPath {
				continue
			}
			rebuild(change.File)
		case <-sigCh:
			printer.Info("stopping watch")
			return nil
		}
	}
}

// openTrace opens the configured telemetry file, or returns a nil no-op
// emitter when tracing is disabled.
func openTrace(cfg *config.Config) (*telemetry.Emitter, error) {
	if cfg.TracePath == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.TracePath), 0o755); err != nil {
		return nil, err
	}
	return telemetry.NewEmitter(cfg.TracePath)
}
