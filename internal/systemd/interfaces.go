// Package systemd provides systemd unit state management over D-Bus.
package systemd

import (
	"context"

	"github.com/coreos/go-systemd/v22/dbus"
)

// Connection wraps systemd D-Bus operations for testability.
type Connection interface {
	// GetUnitProperty gets a property of a systemd unit.
	GetUnitProperty(ctx context.Context, unitName, propertyName string) (*dbus.Property, error)

	// GetUnitProperties gets all properties of a systemd unit.
	GetUnitProperties(ctx context.Context, unitName string) (map[string]interface{}, error)

	// StartUnit starts a systemd unit.
	StartUnit(ctx context.Context, unitName, mode string) (chan string, error)

	// StopUnit stops a systemd unit.
	StopUnit(ctx context.Context, unitName, mode string) (chan string, error)

	// RestartUnit restarts a systemd unit.
	RestartUnit(ctx context.Context, unitName, mode string) (chan string, error)

	// EnableUnitFiles enables the given unit files.
	EnableUnitFiles(ctx context.Context, files []string, runtime, force bool) error

	// DisableUnitFiles disables the given unit files.
	DisableUnitFiles(ctx context.Context, files []string, runtime bool) error

	// ResetFailedUnit resets the failed state of a unit.
	ResetFailedUnit(ctx context.Context, unitName string) error

	// Reload reloads systemd configuration.
	Reload(ctx context.Context) error

	// Close closes the connection.
	Close() error
}

// Unit exposes the state operations of a single named unit.
type Unit interface {
	// GetUnitName returns the full unit name, e.g. "backup.timer".
	GetUnitName() string

	// GetStatus returns the unit's ActiveState.
	GetStatus() (string, error)

	// Start starts the unit.
	Start() error

	// Stop stops the unit.
	Stop() error

	// Enable enables the unit.
	Enable() error

	// Disable disables the unit.
	Disable() error

	// Show displays the unit configuration and status.
	Show() error

	// ResetFailed resets the failed state of the unit.
	ResetFailed() error
}

// UnitManager manages systemd units and their operations.
type UnitManager interface {
	// GetUnit creates a Unit interface for the given full unit name.
	GetUnit(name string) Unit

	// GetStatus returns the current ActiveState of a unit.
	GetStatus(name string) (string, error)

	// Start starts a unit.
	Start(name string) error

	// Stop stops a unit.
	Stop(name string) error

	// Enable enables a unit.
	Enable(name string) error

	// Disable disables a unit.
	Disable(name string) error

	// ReloadSystemd reloads systemd configuration.
	ReloadSystemd() error
}

// ContextProvider provides context for systemd operations.
type ContextProvider interface {
	// GetContext returns a context for systemd operations.
	GetContext() context.Context
}

// TextCaser provides text casing operations.
type TextCaser interface {
	// Title converts text to title case.
	Title(text string) string
}

// ConnectionFactory creates Connection instances.
type ConnectionFactory interface {
	// NewConnection creates a new systemd connection based on configuration.
	NewConnection(ctx context.Context, userMode bool) (Connection, error)
}
