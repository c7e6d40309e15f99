// Package timer expands high-level timer declarations into systemd
// timer/service unit pairs plus the enablement state of the timer.
package timer

import (
	"github.com/systemd-tools/timer-ops/internal/resource"
	"github.com/systemd-tools/timer-ops/internal/unit"
)

// Fixed directives for wrapped timers. The backing service always runs
// the command once per activation; the timer is pulled in by
// timers.target like any other installed timer.
const (
	ServiceType   = "oneshot"
	TimerWantedBy = "timers.target"
)

// Wrapper declares a systemd timer and its backing oneshot service from
// high-level parameters. Zero-valued fields are treated as unset and
// dropped from the generated unit files.
type Wrapper struct {
	Name    string
	Ensure  resource.Ensure
	Command string
	User    string

	// Timer triggers, verbatim systemd time spans / calendar events.
	OnActiveSec       string
	OnBootSec         string
	OnStartupSec      string
	OnUnitActiveSec   string
	OnUnitInactiveSec string
	OnCalendar        string

	// [Unit] section contents for the generated files, passed through
	// as-is when set.
	ServiceUnitOverrides map[string]string
	TimerUnitOverrides   map[string]string

	// Merged on top of the computed [Service] / [Timer] directives,
	// override winning on key collision.
	ServiceOverrides map[string]string
	TimerOverrides   map[string]string
}

// UnitName returns the systemd-safe unit name derived from the
// declaration title.
func (w *Wrapper) UnitName() string {
	return unit.Escape(w.Name)
}

// timerDirectives builds the [Timer] map from the trigger fields,
// dropping any that are unset.
func (w *Wrapper) timerDirectives() map[string]string {
	directives := make(map[string]string)
	triggers := []struct {
		key   string
		value string
	}{
		{"OnActiveSec", w.OnActiveSec},
		{"OnBootSec", w.OnBootSec},
		{"OnStartupSec", w.OnStartupSec},
		{"OnUnitActiveSec", w.OnUnitActiveSec},
		{"OnUnitInactiveSec", w.OnUnitInactiveSec},
		{"OnCalendar", w.OnCalendar},
	}
	for _, t := range triggers {
		if t.value != "" {
			directives[t.key] = t.value
		}
	}
	return directives
}

// serviceDirectives builds the [Service] map for the backing unit.
func (w *Wrapper) serviceDirectives() map[string]string {
	directives := map[string]string{
		"Type": ServiceType,
	}
	if w.Command != "" {
		directives["ExecStart"] = w.Command
	}
	if w.User != "" {
		directives["User"] = w.User
	}
	return directives
}

// Validate checks the parameter combination. Present declarations need at
// least one trigger and a command; absent declarations always validate,
// so stale units can be removed without re-stating how they ran.
func (w *Wrapper) Validate() error {
	ensure, err := resource.ParseEnsure(string(w.Ensure))
	if err != nil {
		return err
	}
	if ensure == resource.Absent {
		return nil
	}
	if len(w.timerDirectives()) == 0 {
		return &MissingTriggerError{Name: w.Name}
	}
	if w.Command == "" {
		return &MissingCommandError{Name: w.Name}
	}
	return nil
}

// Plan expands the declaration into its resource set: one service unit
// file, one timer unit file and one enablement resource for the timer,
// with ordering edges between them. For present declarations resources
// are listed in apply order (service unit, timer unit, enablement); for
// absent declarations the list is reversed so the timer is stopped and
// disabled before its backing unit files go away.
func (w *Wrapper) Plan() (*resource.Set, error) {
	ensure, err := resource.ParseEnsure(string(w.Ensure))
	if err != nil {
		return nil, err
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	name := w.UnitName()

	serviceFile := &unit.File{
		Name: name,
		Kind: unit.KindService,
		Unit: cloneMap(w.ServiceUnitOverrides),
		Body: unit.MergeOptions(w.serviceDirectives(), w.ServiceOverrides),
	}

	timerFile := &unit.File{
		Name:    name,
		Kind:    unit.KindTimer,
		Unit:    cloneMap(w.TimerUnitOverrides),
		Body:    unit.MergeOptions(w.timerDirectives(), w.TimerOverrides),
		Install: map[string]string{"WantedBy": TimerWantedBy},
	}

	serviceID := serviceFile.Filename()
	timerID := timerFile.Filename()
	stateID := timerID + "/state"

	set := &resource.Set{
		Ensure: ensure,
		Resources: []resource.Resource{
			{
				ID:     serviceID,
				Kind:   resource.KindUnitFile,
				Ensure: ensure,
				Unit:   serviceFile,
			},
			{
				ID:     timerID,
				Kind:   resource.KindUnitFile,
				Ensure: ensure,
				Unit:   timerFile,
			},
			{
				ID:       stateID,
				Kind:     resource.KindUnitState,
				Ensure:   ensure,
				UnitName: timerID,
				Enabled:  ensure == resource.Present,
				Active:   ensure == resource.Present,
			},
		},
		Edges: []resource.Edge{
			{Before: serviceID, After: timerID},
			{Before: timerID, After: stateID},
		},
	}

	if ensure == resource.Absent {
		reverse(set.Resources)
	}
	return set, nil
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	clone := make(map[string]string, len(m))
	for k, v := range m {
		clone[k] = v
	}
	return clone
}

func reverse(resources []resource.Resource) {
	for i, j := 0, len(resources)-1; i < j; i, j = i+1, j-1 {
		resources[i], resources[j] = resources[j], resources[i]
	}
}
