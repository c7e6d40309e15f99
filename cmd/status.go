package cmd

import (
	"github.com/spf13/cobra"

	"github.com/systemd-tools/timer-ops/internal/timer"
	"github.com/systemd-tools/timer-ops/internal/unit"
)

// StatusCommand represents the status command for timer-ops CLI.
type StatusCommand struct{}

// GetCobraCommand returns the cobra command for showing timer status.
func (c *StatusCommand) GetCobraCommand() *cobra.Command {
	statusCmd := &cobra.Command{
		Use:   "status [timer-name]",
		Short: "Show configuration and state of a managed timer",
		Long: `Show configuration and state of a managed timer.

The name is escaped the same way declarations are, so the title used in
the manifest works directly:

  timer-ops status backup
  timer-ops status "nightly/backup"`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			w := timer.Wrapper{Name: args[0]}
			manager := newUnitManager()
			return manager.GetUnit(w.UnitName() + "." + unit.KindTimer).Show()
		},
		SilenceUsage: true,
	}

	return statusCmd
}
