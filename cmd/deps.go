package cmd

import (
	"fmt"

	"github.com/systemd-tools/timer-ops/internal/config"
	"github.com/systemd-tools/timer-ops/internal/db"
	"github.com/systemd-tools/timer-ops/internal/fs"
	"github.com/systemd-tools/timer-ops/internal/log"
	"github.com/systemd-tools/timer-ops/internal/manifest"
	"github.com/systemd-tools/timer-ops/internal/orchestrator"
	"github.com/systemd-tools/timer-ops/internal/resource"
	"github.com/systemd-tools/timer-ops/internal/systemd"
)

// newUnitManager assembles the production systemd unit manager.
func newUnitManager() systemd.UnitManager {
	logger := log.GetLogger()
	return systemd.NewDefaultUnitManager(
		systemd.NewConnectionFactory(logger),
		systemd.NewDefaultContextProvider(),
		systemd.NewDefaultTextCaser(),
		configProvider(),
		logger,
	)
}

func configProvider() config.Provider {
	provider := config.NewDefaultConfigProvider()
	provider.SetConfig(cfg)
	return provider
}

// newOrchestrator assembles the production orchestrator. With tracking
// enabled, applied units are recorded in the database for later orphan
// cleanup; without it the database is left alone.
func newOrchestrator(withTracking bool) (*orchestrator.Orchestrator, func(), error) {
	provider := configProvider()
	logger := log.GetLogger()

	var units db.UnitRepository
	closer := func() {}

	if withTracking {
		conn, err := db.Connect()
		if err != nil {
			return nil, nil, fmt.Errorf("error connecting to database: %w", err)
		}
		units = db.NewUnitRepository(conn)
		closer = func() { _ = conn.Close() }
	}

	orch := orchestrator.NewOrchestrator(
		fs.NewServiceWithLogger(provider, logger),
		newUnitManager(),
		provider,
		logger,
		units,
	)
	return orch, closer, nil
}

// planManifest expands every declaration in a manifest into resource sets.
// Validation failures are fatal: nothing is applied from a manifest that
// fails to compile.
func planManifest(m *manifest.Manifest) ([]*resource.Set, error) {
	var sets []*resource.Set

	for _, spec := range m.Timers {
		w := spec.Wrapper()
		set, err := w.Plan()
		if err != nil {
			return nil, fmt.Errorf("timer %s: %w", spec.Name, err)
		}
		sets = append(sets, set)
	}

	for _, spec := range m.Tmpfiles {
		d := spec.Dropin()
		set, err := d.Plan(cfg.TmpfilesDir)
		if err != nil {
			return nil, fmt.Errorf("tmpfile %s: %w", spec.Title, err)
		}
		sets = append(sets, set)
	}

	return sets, nil
}
