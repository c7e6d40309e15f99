// Package unit provides the systemd unit file model for timer-ops.
//
// A unit file is represented as flat directive maps per section. Maps are
// built once per declaration and rendered deterministically: keys are
// written in sorted order so repeated runs produce byte-identical files.
package unit

import (
	"bytes"
	"fmt"
	"maps"
	"slices"

	systemdunit "github.com/coreos/go-systemd/v22/unit"
	"gopkg.in/ini.v1"
)

// Unit file kinds managed by timer-ops.
const (
	KindService = "service"
	KindTimer   = "timer"
)

// File represents a systemd unit file: a [Unit] section, a kind-specific
// body section ([Service] or [Timer]) and an optional [Install] section.
type File struct {
	Name    string // escaped unit name, without the kind suffix
	Kind    string // KindService or KindTimer
	Unit    map[string]string
	Body    map[string]string
	Install map[string]string
}

// Filename returns the on-disk file name, e.g. "backup.timer".
func (f *File) Filename() string {
	return fmt.Sprintf("%s.%s", f.Name, f.Kind)
}

// BodySection returns the section name holding the kind-specific directives.
func (f *File) BodySection() (string, error) {
	switch f.Kind {
	case KindService:
		return "Service", nil
	case KindTimer:
		return "Timer", nil
	default:
		return "", fmt.Errorf("unknown unit kind: %s", f.Kind)
	}
}

// Render serializes the unit file using go-ini. Sections with no
// directives are omitted entirely.
func (f *File) Render() (string, error) {
	bodySection, err := f.BodySection()
	if err != nil {
		return "", err
	}

	ini.PrettyEqual = false
	ini.PrettyFormat = false

	file := ini.Empty()
	// DEFAULT section is implicit in go-ini; we only ever write named ones.

	sections := []struct {
		name       string
		directives map[string]string
	}{
		{"Unit", f.Unit},
		{bodySection, f.Body},
		{"Install", f.Install},
	}

	for _, s := range sections {
		if len(s.directives) == 0 {
			continue
		}
		section, err := file.NewSection(s.name)
		if err != nil {
			return "", fmt.Errorf("creating [%s] section: %w", s.name, err)
		}
		writeOrderedSection(section, s.directives)
	}

	var buf bytes.Buffer
	if _, err := file.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("rendering unit %s: %w", f.Filename(), err)
	}
	return buf.String(), nil
}

// writeOrderedSection writes directives to an INI section with keys in
// sorted order for deterministic output.
func writeOrderedSection(section *ini.Section, directives map[string]string) {
	for _, key := range slices.Sorted(maps.Keys(directives)) {
		_, _ = section.NewKey(key, directives[key])
	}
}

// MergeOptions merges overrides on top of defaults with right-biased
// precedence: on key collision the override value wins. Neither input map
// is mutated. Keys absent from both stay absent.
func MergeOptions(defaults, overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(defaults)+len(overrides))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// Escape converts an arbitrary declaration title into a systemd-safe unit
// name using the systemd escaping rules.
func Escape(name string) string {
	return systemdunit.UnitNameEscape(name)
}
