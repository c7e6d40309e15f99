// Package manifest loads timer and tmpfiles declarations from YAML documents.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/systemd-tools/timer-ops/internal/resource"
	"github.com/systemd-tools/timer-ops/internal/timer"
	"github.com/systemd-tools/timer-ops/internal/tmpfiles"
)

// TimerSpec is the YAML form of a timer declaration.
type TimerSpec struct {
	Name              string            `yaml:"name"`
	Ensure            string            `yaml:"ensure,omitempty"`
	Command           string            `yaml:"command,omitempty"`
	User              string            `yaml:"user,omitempty"`
	OnActiveSec       string            `yaml:"on_active_sec,omitempty"`
	OnBootSec         string            `yaml:"on_boot_sec,omitempty"`
	OnStartupSec      string            `yaml:"on_start_up_sec,omitempty"`
	OnUnitActiveSec   string            `yaml:"on_unit_active_sec,omitempty"`
	OnUnitInactiveSec string            `yaml:"on_unit_inactive_sec,omitempty"`
	OnCalendar        string            `yaml:"on_calendar,omitempty"`
	ServiceUnitConfig map[string]string `yaml:"service_unit_overrides,omitempty"`
	TimerUnitConfig   map[string]string `yaml:"timer_unit_overrides,omitempty"`
	ServiceConfig     map[string]string `yaml:"service_overrides,omitempty"`
	TimerConfig       map[string]string `yaml:"timer_overrides,omitempty"`
}

// TmpfileSpec is the YAML form of a tmpfiles.d drop-in declaration.
type TmpfileSpec struct {
	Title    string `yaml:"title"`
	Ensure   string `yaml:"ensure,omitempty"`
	Filename string `yaml:"filename,omitempty"`
	Content  string `yaml:"content,omitempty"`
}

// Manifest is a parsed declaration document.
type Manifest struct {
	Timers   []TimerSpec   `yaml:"timers,omitempty"`
	Tmpfiles []TmpfileSpec `yaml:"tmpfiles,omitempty"`
}

// Wrapper converts a timer spec into its declaration form.
func (s *TimerSpec) Wrapper() timer.Wrapper {
	return timer.Wrapper{
		Name:                 s.Name,
		Ensure:               resource.Ensure(s.Ensure),
		Command:              s.Command,
		User:                 s.User,
		OnActiveSec:          s.OnActiveSec,
		OnBootSec:            s.OnBootSec,
		OnStartupSec:         s.OnStartupSec,
		OnUnitActiveSec:      s.OnUnitActiveSec,
		OnUnitInactiveSec:    s.OnUnitInactiveSec,
		OnCalendar:           s.OnCalendar,
		ServiceUnitOverrides: s.ServiceUnitConfig,
		TimerUnitOverrides:   s.TimerUnitConfig,
		ServiceOverrides:     s.ServiceConfig,
		TimerOverrides:       s.TimerConfig,
	}
}

// Dropin converts a tmpfile spec into its declaration form.
func (s *TmpfileSpec) Dropin() tmpfiles.Dropin {
	return tmpfiles.Dropin{
		Title:    s.Title,
		Filename: s.Filename,
		Content:  s.Content,
		Ensure:   resource.Ensure(s.Ensure),
	}
}

// Parse decodes a single YAML document.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("error parsing manifest: %w", err)
	}

	for i, t := range m.Timers {
		if t.Name == "" {
			return nil, fmt.Errorf("timer declaration %d has no name", i)
		}
	}
	for i, f := range m.Tmpfiles {
		if f.Title == "" {
			return nil, fmt.Errorf("tmpfile declaration %d has no title", i)
		}
	}

	return &m, nil
}

// LoadFile reads and parses a manifest file.
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Manifest paths come from operator configuration
	if err != nil {
		return nil, fmt.Errorf("error reading manifest %s: %w", path, err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// LoadDir parses every .yaml/.yml file directly under dir and merges the
// results. Files are processed in lexical order.
func LoadDir(dir string) (*Manifest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading manifest directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	merged := &Manifest{}
	for _, name := range names {
		m, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		merged.Timers = append(merged.Timers, m.Timers...)
		merged.Tmpfiles = append(merged.Tmpfiles, m.Tmpfiles...)
	}

	return merged, nil
}

// Load accepts either a manifest file or a directory of manifests.
func Load(path string) (*Manifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error reading manifest path %s: %w", path, err)
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	return LoadFile(path)
}
