package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systemd-tools/timer-ops/internal/manifest"
	"github.com/systemd-tools/timer-ops/internal/resource"
)

// DownCommand represents the down command for timer-ops CLI.
type DownCommand struct{}

var downFile string

// GetCobraCommand returns the cobra command for tearing down manifests.
func (c *DownCommand) GetCobraCommand() *cobra.Command {
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Tear down every declaration in a manifest file or directory",
		Long: `Tear down every declaration in a manifest file or directory.

Every declaration is treated as ensure: absent regardless of what the
manifest says: timers are stopped and disabled first, then their unit
files and drop-ins are removed.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			m, err := manifest.Load(downFile)
			if err != nil {
				return err
			}

			for i := range m.Timers {
				m.Timers[i].Ensure = string(resource.Absent)
			}
			for i := range m.Tmpfiles {
				m.Tmpfiles[i].Ensure = string(resource.Absent)
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

			fmt.Printf("Removed %d declarations, %d resources changed\n", len(sets), len(result.Changed))
			return nil
		},
		SilenceUsage: true,
	}

	downCmd.Flags().StringVarP(&downFile, "file", "f", "", "Manifest file or directory to tear down")
	_ = downCmd.MarkFlagRequired("file")

	return downCmd
}
