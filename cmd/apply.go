package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systemd-tools/timer-ops/internal/log"
	"github.com/systemd-tools/timer-ops/internal/manifest"
)

// ApplyCommand represents the apply command for timer-ops CLI.
type ApplyCommand struct{}

var applyFile string

// GetCobraCommand returns the cobra command for applying manifests.
func (c *ApplyCommand) GetCobraCommand() *cobra.Command {
	applyCmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply timer and tmpfiles declarations from a manifest file or directory",
		Long: `Apply timer and tmpfiles declarations from a manifest file or directory.

Each timer declaration renders a service/timer unit pair, reloads systemd
when the files change, and enables and starts the timer. Declarations with
ensure: absent are torn down in reverse order.

Example manifest:

timers:
  - name: backup
    command: /usr/local/bin/backup
    on_calendar: daily
tmpfiles:
  - title: random_tmpfile.conf
    content: |
      random stuff`,
		RunE: func(_ *cobra.Command, _ []string) error {
			m, err := manifest.Load(applyFile)
			if err != nil {
				return err
			}

			sets, err := planManifest(m)
			if err != nil {
				return err
			}

			orch, closeDB, err := newOrchestrator(true)
			if err != nil {
				return err
			}
			defer closeDB()

			result, err := orch.Apply(sets)
			if err != nil {
				return err
			}

			log.GetLogger().Info("Apply complete", "changed", len(result.Changed))
			fmt.Printf("Applied %d declarations, %d resources changed\n", len(sets), len(result.Changed))
			return nil
		},
		SilenceUsage: true,
	}

	applyCmd.Flags().StringVarP(&applyFile, "file", "f", "", "Manifest file or directory to apply")
	_ = applyCmd.MarkFlagRequired("file")

	return applyCmd
}
