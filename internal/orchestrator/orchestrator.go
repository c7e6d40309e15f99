// Package orchestrator applies expanded declarations to the system: unit
// files and tmpfiles drop-ins on disk, unit state over D-Bus, and the
// tracking database used for orphan cleanup.
package orchestrator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/systemd-tools/timer-ops/internal/config"
	"github.com/systemd-tools/timer-ops/internal/db"
	"github.com/systemd-tools/timer-ops/internal/dependency"
	"github.com/systemd-tools/timer-ops/internal/fs"
	"github.com/systemd-tools/timer-ops/internal/log"
	"github.com/systemd-tools/timer-ops/internal/resource"
	"github.com/systemd-tools/timer-ops/internal/systemd"
	"github.com/systemd-tools/timer-ops/internal/unit"
)

// Orchestrator walks resource sets in dependency order and converges the
// system to match them.
type Orchestrator struct {
	fs             *fs.Service
	unitManager    systemd.UnitManager
	configProvider config.Provider
	logger         log.Logger
	units          db.UnitRepository // optional, nil disables tracking
}

// Result summarizes a completed apply.
type Result struct {
	Changed []string // IDs of resources that were created, updated or removed
}

// NewOrchestrator creates an orchestrator with injected dependencies. The
// unit repository may be nil when state tracking is not wanted, e.g. for
// one-shot applies from a local manifest.
func NewOrchestrator(fsService *fs.Service, unitManager systemd.UnitManager, configProvider config.Provider, logger log.Logger, units db.UnitRepository) *Orchestrator {
	return &Orchestrator{
		fs:             fsService,
		unitManager:    unitManager,
		configProvider: configProvider,
		logger:         logger,
		units:          units,
	}
}

// Apply converges the system to the given resource sets. Each set is walked
// in its declared order: unit files before unit state for present
// declarations, the exact reverse for absent ones.
func (o *Orchestrator) Apply(sets []*resource.Set) (*Result, error) {
	result := &Result{}
	reloadPending := false

	for _, set := range sets {
		order, err := o.orderFor(set)
		if err != nil {
			return nil, err
		}

		for _, id := range order {
			res := set.Find(id)
			if res == nil {
				return nil, fmt.Errorf("resource %s missing from set", id)
			}

			changed, err := o.applyResource(res, &reloadPending)
			if err != nil {
				return nil, err
			}
			if changed {
				result.Changed = append(result.Changed, res.ID)
			}
		}
	}

	// Absent declarations remove their files after the state teardown, so
	// systemd still references the deleted units until a final reload.
	if reloadPending {
		if err := o.unitManager.ReloadSystemd(); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (o *Orchestrator) orderFor(set *resource.Set) ([]string, error) {
	graph := dependency.NewGraph()
	for _, res := range set.Resources {
		if err := graph.AddResource(res.ID); err != nil {
			return nil, err
		}
	}
	for _, edge := range set.Edges {
		if err := graph.AddOrdering(edge.Before, edge.After); err != nil {
			return nil, err
		}
	}

	if set.Ensure == resource.Absent {
		return graph.TeardownOrder()
	}
	return graph.ApplyOrder()
}

func (o *Orchestrator) applyResource(res *resource.Resource, reloadPending *bool) (bool, error) {
	switch res.Kind {
	case resource.KindUnitFile:
		return o.applyUnitFile(res, reloadPending)
	case resource.KindUnitState:
		return o.applyUnitState(res, reloadPending)
	case resource.KindFile:
		return o.applyFile(res)
	default:
		return false, fmt.Errorf("unknown resource kind %q for %s", res.Kind, res.ID)
	}
}

func (o *Orchestrator) applyUnitFile(res *resource.Resource, reloadPending *bool) (bool, error) {
	path := o.fs.GetUnitFilePath(res.Unit.Filename())

	if res.Ensure == resource.Absent {
		o.logger.Debug("Removing unit file", "path", path)
		if err := o.fs.RemoveFile(path); err != nil {
			return false, err
		}
		*reloadPending = true
		o.untrack(res.Unit.Name, res.Unit.Kind)
		return true, nil
	}

	content, err := res.Unit.Render()
	if err != nil {
		return false, err
	}

	if !o.fs.HasChanged(path, content) {
		o.logger.Debug("Unit file unchanged", "path", path)
		o.track(res.Unit.Name, res.Unit.Kind, content)
		return false, nil
	}

	o.logger.Info("Writing unit file", "path", path)
	if err := o.fs.WriteUnitFile(path, content); err != nil {
		return false, err
	}
	*reloadPending = true
	o.track(res.Unit.Name, res.Unit.Kind, content)
	return true, nil
}

func (o *Orchestrator) applyUnitState(res *resource.Resource, reloadPending *bool) (bool, error) {
	// Pick up freshly written unit files before acting on them.
	if *reloadPending {
		if err := o.unitManager.ReloadSystemd(); err != nil {
			return false, err
		}
		*reloadPending = false
	}

	if res.Ensure == resource.Absent {
		o.logger.Info("Stopping and disabling unit", "name", res.UnitName)
		if err := o.unitManager.Stop(res.UnitName); err != nil {
			o.logger.Warn("Failed to stop unit", "name", res.UnitName, "error", err)
		}
		if err := o.unitManager.Disable(res.UnitName); err != nil {
			o.logger.Warn("Failed to disable unit", "name", res.UnitName, "error", err)
		}
		return true, nil
	}

	o.logger.Info("Enabling and starting unit", "name", res.UnitName)
	if err := o.unitManager.Enable(res.UnitName); err != nil {
		return false, err
	}
	if err := o.unitManager.Start(res.UnitName); err != nil {
		return false, err
	}
	return true, nil
}

func (o *Orchestrator) applyFile(res *resource.Resource) (bool, error) {
	if res.Ensure == resource.Absent {
		o.logger.Debug("Removing file", "path", res.Path)
		if err := o.fs.RemoveFile(res.Path); err != nil {
			return false, err
		}
		o.untrack(filepath.Base(res.Path), "tmpfile")
		return true, nil
	}

	if !o.fs.HasChanged(res.Path, res.Content) {
		o.logger.Debug("File unchanged", "path", res.Path)
		o.track(filepath.Base(res.Path), "tmpfile", res.Content)
		return false, nil
	}

	o.logger.Info("Writing file", "path", res.Path, "mode", res.Mode)
	if err := o.fs.WriteFile(res.Path, res.Content, res.Mode); err != nil {
		return false, err
	}
	o.track(filepath.Base(res.Path), "tmpfile", res.Content)
	return true, nil
}

// CleanupOrphans tears down every tracked unit whose name is not in the
// active set. Timer state is stopped and disabled before any file removal
// so nothing fires against a half-removed pair.
func (o *Orchestrator) CleanupOrphans(active map[string]bool) error {
	if o.units == nil {
		return nil
	}

	tracked, err := o.units.FindAll()
	if err != nil {
		return fmt.Errorf("error listing tracked units: %w", err)
	}

	removed := 0
	for _, t := range tracked {
		if active[t.Name+"."+t.Kind] {
			continue
		}

		o.logger.Info("Removing orphaned unit", "name", t.Name, "kind", t.Kind)

		switch t.Kind {
		case unit.KindTimer:
			timerName := t.Name + "." + unit.KindTimer
			if err := o.unitManager.Stop(timerName); err != nil {
				o.logger.Warn("Failed to stop orphaned timer", "name", timerName, "error", err)
			}
			if err := o.unitManager.Disable(timerName); err != nil {
				o.logger.Warn("Failed to disable orphaned timer", "name", timerName, "error", err)
			}
			if err := o.fs.RemoveFile(o.fs.GetUnitFilePath(timerName)); err != nil {
				return err
			}
		case unit.KindService:
			if err := o.fs.RemoveFile(o.fs.GetUnitFilePath(t.Name + "." + unit.KindService)); err != nil {
				return err
			}
		case "tmpfile":
			if err := o.fs.RemoveFile(filepath.Join(o.fs.GetTmpfilesDirectory(), t.Name)); err != nil {
				return err
			}
		default:
			o.logger.Warn("Unknown tracked unit kind", "name", t.Name, "kind", t.Kind)
		}

		if err := o.units.Delete(t.Name, t.Kind); err != nil {
			return fmt.Errorf("error untracking %s.%s: %w", t.Name, t.Kind, err)
		}
		removed++
	}

	if removed > 0 {
		if err := o.unitManager.ReloadSystemd(); err != nil {
			return err
		}
		o.logger.Info("Removed orphaned units", "count", removed)
	}

	return nil
}

// TrackingKeys returns the set of tracking identities ("name.kind") the
// given sets declare as present. Used by sync to decide which tracked
// units are orphans.
func TrackingKeys(sets []*resource.Set) map[string]bool {
	keys := make(map[string]bool)
	for _, set := range sets {
		if set.Ensure == resource.Absent {
			continue
		}
		for _, res := range set.Resources {
			switch res.Kind {
			case resource.KindUnitFile:
				keys[res.Unit.Filename()] = true
			case resource.KindFile:
				keys[filepath.Base(res.Path)+".tmpfile"] = true
			}
		}
	}
	return keys
}

func (o *Orchestrator) track(name, kind, content string) {
	if o.units == nil {
		return
	}

	name = strings.TrimSuffix(name, "."+kind)
	record := &db.Unit{
		Name:     name,
		Kind:     kind,
		SHA1Hash: fmt.Sprintf("%x", fs.GetContentHash(content)),
		UserMode: o.configProvider.GetConfig().UserMode,
	}
	if _, err := o.units.Upsert(record); err != nil {
		o.logger.Warn("Failed to track unit", "name", name, "kind", kind, "error", err)
	}
}

func (o *Orchestrator) untrack(name, kind string) {
	if o.units == nil {
		return
	}

	name = strings.TrimSuffix(name, "."+kind)
	if err := o.units.Delete(name, kind); err != nil {
		o.logger.Warn("Failed to untrack unit", "name", name, "kind", kind, "error", err)
	}
}
