package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/systemd-tools/timer-ops/internal/db"
	"github.com/systemd-tools/timer-ops/internal/log"
	"github.com/systemd-tools/timer-ops/internal/unit"
)

// ListCommand represents the list command for timer-ops CLI.
type ListCommand struct{}

// GetCobraCommand returns the cobra command for listing managed units.
func (c *ListCommand) GetCobraCommand() *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Lists units and drop-ins currently managed by timer-ops",
		RunE: func(_ *cobra.Command, _ []string) error {
			conn, err := db.Connect()
			if err != nil {
				return fmt.Errorf("error connecting to database: %w", err)
			}
			defer func() { _ = conn.Close() }()

			units, err := db.NewUnitRepository(conn).FindAll()
			if err != nil {
				return fmt.Errorf("error finding units: %w", err)
			}

			manager := newUnitManager()

			headerFmt := color.New(color.FgGreen, color.Underline).SprintfFunc()
			columnFmt := color.New(color.FgYellow).SprintfFunc()
			tbl := table.New("Name", "Kind", "State", "SHA1", "Created")
			tbl.WithHeaderFormatter(headerFmt).WithFirstColumnFormatter(columnFmt)

			for _, u := range units {
				state := "-"
				if u.Kind == unit.KindTimer || u.Kind == unit.KindService {
					state, err = manager.GetStatus(u.Name + "." + u.Kind)
					if err != nil {
						log.GetLogger().Debug("Error getting unit status", "name", u.Name, "error", err)
						state = "UNKNOWN"
					}
				}

				hash := u.SHA1Hash
				if len(hash) > 12 {
					hash = hash[:12]
				}

				tbl.AddRow(u.Name, u.Kind, state, hash, u.CreatedAt.Format("2006-01-02 15:04:05"))
			}

			tbl.Print()
			return nil
		},
		SilenceUsage: true,
	}

	return listCmd
}
