package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systemd-tools/timer-ops/internal/manifest"
)

// ValidateCommand represents the validate command for timer-ops CLI.
type ValidateCommand struct{}

var validateFile string

// GetCobraCommand returns the cobra command for validating manifests.
func (c *ValidateCommand) GetCobraCommand() *cobra.Command {
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a manifest file or directory without applying it",
		Long: `Validate a manifest file or directory without applying it.

Checks that every present timer declares at least one scheduling field and
a command, and that every tmpfile resolves to a valid drop-in name.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			m, err := manifest.Load(validateFile)
			if err != nil {
				return err
			}

			failures := 0
			for _, spec := range m.Timers {
				w := spec.Wrapper()
				if err := w.Validate(); err != nil {
					fmt.Printf("timer %s: %v\n", spec.Name, err)
					failures++
				}
			}
			for _, spec := range m.Tmpfiles {
				d := spec.Dropin()
				if _, err := d.ResolveFilename(); err != nil {
					fmt.Printf("tmpfile %s: %v\n", spec.Title, err)
					failures++
				}
			}

			if failures > 0 {
				return fmt.Errorf("%d invalid declarations", failures)
			}

			fmt.Printf("All %d declarations are valid\n", len(m.Timers)+len(m.Tmpfiles))
			return nil
		},
		SilenceUsage: true,
	}

	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "Manifest file or directory to validate")
	_ = validateCmd.MarkFlagRequired("file")

	return validateCmd
}
