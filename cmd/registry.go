package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hkcm91/StickerNestV3-sub007/internal/codegen"
	"github.com/hkcm91/StickerNestV3-sub007/internal/config"
	"github.com/hkcm91/StickerNestV3-sub007/internal/registry"
	"github.com/hkcm91/StickerNestV3-sub007/internal/spec"
	"github.com/hkcm91/StickerNestV3-sub007/internal/telemetry"
	"github.com/hkcm91/StickerNestV3-sub007/internal/ui"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Manage the local widget registry",
}

var registryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed widgets",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openRegistry()
		if err != nil {
			return err
		}
		defer reg.Close()

		entries, err := reg.List(context.Background())
		if err != nil {
			return err
		}
		ui.New().RegistryList(entries)
		return nil
	},
}

var registryInstallCmd = &cobra.Command{
	Use:   "install <spec.json>",
	Short: "Build a spec and install the package",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		printer := ui.New()

		s, err := spec.Load(args[0])
		if err != nil {
			return err
		}

		trace, err := openTrace(&cfg)
		if err != nil {
			return err
		}
		defer trace.Close()

		pkg, err := buildForInstall(&cfg, s, trace)
		if err != nil {
			return err
		}

		if err := installPackage(&cfg, pkg); err != nil {
			return err
		}
		printer.Info(fmt.Sprintf("installed %s %s", pkg.ID, pkg.Spec.Version))
		return nil
	},
}

var registryShowCmd = &cobra.Command{
	Use:   "show <widget-id>",
	Short: "Show an installed widget's entry and files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openRegistry()
		if err != nil {
			return err
		}
		defer reg.Close()

		entries, err := reg.List(context.Background())
		if err != nil {
			return err
		}
		printer := ui.New()
		found := false
		for _, e := range entries {
			if e.ID == args[0] {
				printer.RegistryList([]registry.Entry{e})
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%s: %w", args[0], registry.ErrNotInstalled)
		}

		pkg, err := reg.Get(context.Background(), args[0])
		if err != nil {
			return err
		}
		for _, f := range pkg.Files {
			printer.Info(fmt.Sprintf("  %-14s %s (%d bytes)", f.Type, f.Path, len(f.Content)))
		}
		return nil
	},
}

var registryRemoveCmd = &cobra.Command{
	Use:   "remove <widget-id>",
	Short: "Remove an installed widget",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openRegistry()
		if err != nil {
			return err
		}
		defer reg.Close()

		if err := reg.Remove(context.Background(), args[0]); err != nil {
			return err
		}
		ui.New().Info(fmt.Sprintf("removed %s", args[0]))
		return nil
	},
}

var registryExportCmd = &cobra.Command{
	Use:   "export <widget-id> <dir>",
	Short: "Write an installed package's files to a directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openRegistry()
		if err != nil {
			return err
		}
		defer reg.Close()

		pkg, err := reg.Get(context.Background(), args[0])
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")
		return writeExport(args[1], pkg, force)
	},
}

func init() {
	registryExportCmd.Flags().BoolP("force", "f", false, "overwrite the target directory")
	registryCmd.AddCommand(registryListCmd, registryInstallCmd, registryShowCmd, registryRemoveCmd, registryExportCmd)
	rootCmd.AddCommand(registryCmd)
}

// buildForInstall generates a package with the configured options,
// recording the build in the trace.
func buildForInstall(cfg *config.Config, s *spec.WidgetSpec, trace *telemetry.Emitter) (*codegen.Package, error) {
	trace.Emit(telemetry.Event{Kind: telemetry.KindBuildStart, WidgetID: s.ID}) //nolint:errcheck
	pkg, err := codegen.Generate(s, codegen.Options{
		Minify:          cfg.Minify,
		IncludeTests:    cfg.IncludeTests,
		IncludeComments: cfg.IncludeComments,
	})
	if err != nil {
		trace.Emit(telemetry.Event{Kind: telemetry.KindBuildRejected, WidgetID: s.ID, Data: err.Error()}) //nolint:errcheck
		return nil, err
	}
	trace.Emit(telemetry.Event{Kind: telemetry.KindBuildDone, WidgetID: s.ID}) //nolint:errcheck
	return pkg, nil
}

// writeExport writes a stored package to dir and prints the file list.
func writeExport(dir string, pkg *codegen.Package, force bool) error {
	if err := codegen.WritePackage(pkg, dir, codegen.WriteOptions{Overwrite: force}); err != nil {
		if errors.Is(err, codegen.ErrDirExists) {
			return fmt.Errorf("%s exists; pass --force to overwrite", dir)
		}
		return err
	}
	ui.New().BuildSummary(pkg, dir)
	return nil
}

func openRegistry() (*registry.Registry, error) {
	cfg := config.Load()
	if err := os.MkdirAll(filepath.Dir(cfg.RegistryPath), 0o755); err != nil {
		return nil, fmt.Errorf("create registry dir: %w", err)
	}
	return registry.Open(context.Background(), cfg.RegistryPath)
}
