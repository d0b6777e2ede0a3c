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
	"github.com/hkcm91/StickerNestV3-sub007/internal/project"
	"github.com/hkcm91/StickerNestV3-sub007/internal/registry"
	"github.com/hkcm91/StickerNestV3-sub007/internal/spec"
	"github.com/hkcm91/StickerNestV3-sub007/internal/ui"
)

var buildCmd = &cobra.Command{
	Use:   "build [spec.json]",
	Short: "Compile a widget spec into a runnable package",
	Long: `Compiles a spec file into manifest, entry document, state module, actions
module, stylesheet, and optional test scaffold. Without an argument the
project manifest's spec file is built into its configured output directory.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringP("out", "o", "", "output directory (default from widget.toml or <spec>-dist)")
	buildCmd.Flags().Bool("minify", false, "strip indentation and blank lines from emitted code")
	buildCmd.Flags().Bool("tests", true, "emit the widget.test.js scaffold")
	buildCmd.Flags().Bool("comments", true, "emit section banner comments")
	buildCmd.Flags().BoolP("force", "f", false, "overwrite the output directory if it exists")
	buildCmd.Flags().Bool("install", false, "also install the package into the local registry")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	printer := ui.New()

	specPath, outDir, opts, err := resolveBuild(cmd, args, &cfg)
	if err != nil {
		return err
	}

	s, err := spec.Load(specPath)
	if err != nil {
		return err
	}

	res := spec.Validate(s)
	printer.ValidationResult(s.ID, res)

	pkg, err := codegen.Generate(s, opts)
	if err != nil {
		return err
	}

	force, _ := cmd.Flags().GetBool("force")
	if err := codegen.WritePackage(pkg, outDir, codegen.WriteOptions{Overwrite: force}); err != nil {
		if errors.Is(err, codegen.ErrDirExists) {
			return fmt.Errorf("%s exists; pass --force to overwrite", outDir)
		}
		return err
	}
	printer.BuildSummary(pkg, outDir)

	if install, _ := cmd.Flags().GetBool("install"); install {
		if err := installPackage(&cfg, pkg); err != nil {
			return err
		}
		printer.Info(fmt.Sprintf("installed %s into registry", pkg.ID))
	}
	return nil
}

// resolveBuild determines the spec path, output directory, and generation
// options from args, flags, the project manifest, and config, in that
// precedence order.
func resolveBuild(cmd *cobra.Command, args []string, cfg *config.Config) (specPath, outDir string, opts codegen.Options, err error) {
	opts = codegen.Options{
		Minify:          cfg.Minify,
		IncludeTests:    cfg.IncludeTests,
		IncludeComments: cfg.IncludeComments,
	}

	if len(args) > 0 {
		specPath = args[0]
		base := filepath.Base(specPath)
		outDir = base[:len(base)-len(filepath.Ext(base))] + "-dist"
	} else {
		var m *project.Manifest
		m, err = findManifest()
		if err != nil {
			return "", "", opts, err
		}
		specPath = m.SpecPath()
		outDir = m.OutDir()
		opts.Minify = m.Build.Minify
		opts.IncludeTests = m.Build.Tests
		opts.IncludeComments = m.Build.Comments
	}

	if v, _ := cmd.Flags().GetString("out"); v != "" {
		outDir = v
	}
	if cmd.Flags().Changed("minify") {
		opts.Minify, _ = cmd.Flags().GetBool("minify")
	}
	if cmd.Flags().Changed("tests") {
		opts.IncludeTests, _ = cmd.Flags().GetBool("tests")
	}
	if cmd.Flags().Changed("comments") {
		opts.IncludeComments, _ = cmd.Flags().GetBool("comments")
	}
	return specPath, outDir, opts, nil
}

// findManifest locates widget.toml starting from the working directory.
func findManifest() (*project.Manifest, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return project.Find(wd)
}

// installPackage opens the configured registry and installs the package.
func installPackage(cfg *config.Config, pkg *codegen.Package) error {
	path := cfg.RegistryPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create registry dir: %w", err)
	}
	reg, err := registry.Open(context.Background(), path)
	if err != nil {
		return err
	}
	defer reg.Close()
	return reg.Install(context.Background(), pkg)
}
