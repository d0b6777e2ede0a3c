package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hkcm91/StickerNestV3-sub007/internal/spec"
	"github.com/hkcm91/StickerNestV3-sub007/internal/ui"
)

var validateCmd = &cobra.Command{
	Use:   "validate [spec.json...]",
	Short: "Validate widget spec files and report every finding",
	Long: `Validates each spec file against the full rule set and prints all errors
and warnings with stable diagnostic codes. Without arguments the project
manifest's spec file is validated.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().Bool("quiet", false, "suppress warnings, report errors only")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	printer := ui.New()
	quiet, _ := cmd.Flags().GetBool("quiet")

	paths := args
	if len(paths) == 0 {
		m, err := findManifest()
		if err != nil {
			return err
		}
		paths = []string{m.SpecPath()}
	}

	failed := false
	for _, path := range paths {
		s, err := spec.Load(path)
		if err != nil {
			printer.Error(fmt.Sprintf("%s: %v", path, err))
			failed = true
			continue
		}

		res := spec.Validate(s)
		if quiet {
			res.Warnings = nil
		}
		printer.ValidationResult(s.ID, res)
		if !res.Valid {
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
	return nil
}
