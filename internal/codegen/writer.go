package codegen

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrDirExists indicates the output directory already exists and Overwrite
// was not set.
var ErrDirExists = errors.New("output directory already exists")

// WriteOptions controls how a package is written to disk.
type WriteOptions struct {
	Overwrite bool // If true, replace an existing package directory.
}

// WritePackage writes every generated file to outputDir. Files are written
// to a temp directory first and renamed into place, so a failed write never
// leaves a partial package behind.
func WritePackage(pkg *Package, outputDir string, opts WriteOptions) error {
	if info, err := os.Stat(outputDir); err == nil && info.IsDir() {
		if !opts.Overwrite {
			return fmt.Errorf("%w: %s; use --force to overwrite", ErrDirExists, outputDir)
		}
	}

	tmpDir := outputDir + ".tmp"
	if err := os.RemoveAll(tmpDir); err != nil {
		return fmt.Errorf("cleaning temp directory: %w", err)
	}

	success := false
	defer func() {
		if !success {
			os.RemoveAll(tmpDir)
		}
	}()

	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return fmt.Errorf("creating temp directory: %w", err)
	}

	for _, f := range pkg.Files {
		path := filepath.Join(tmpDir, f.Path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", f.Path, err)
		}
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", f.Path, err)
		}
	}

	if err := os.RemoveAll(outputDir); err != nil {
		return fmt.Errorf("removing previous output: %w", err)
	}
	if err := os.Rename(tmpDir, outputDir); err != nil {
		return fmt.Errorf("moving package into place: %w", err)
	}

	success = true
	return nil
}
