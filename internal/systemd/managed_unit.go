package systemd

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/systemd-tools/timer-ops/internal/config"
	"github.com/systemd-tools/timer-ops/internal/log"
)

// ManagedUnit operates on a single named unit with injected dependencies for testing.
type ManagedUnit struct {
	// Name is the full unit name including its kind suffix, e.g. "backup.timer".
	Name              string
	connectionFactory ConnectionFactory
	contextProvider   ContextProvider
	textCaser         TextCaser
	configProvider    config.Provider
	logger            log.Logger
}

// NewManagedUnit creates a new managed unit with injected dependencies.
func NewManagedUnit(name string, connectionFactory ConnectionFactory, contextProvider ContextProvider, textCaser TextCaser, configProvider config.Provider, logger log.Logger) *ManagedUnit {
	return &ManagedUnit{
		Name:              name,
		connectionFactory: connectionFactory,
		contextProvider:   contextProvider,
		textCaser:         textCaser,
		configProvider:    configProvider,
		logger:            logger,
	}
}

// GetUnitName returns the full unit name.
func (u *ManagedUnit) GetUnitName() string {
	return u.Name
}

// kind returns the unit kind suffix, e.g. "timer" for "backup.timer".
func (u *ManagedUnit) kind() string {
	if idx := strings.LastIndex(u.Name, "."); idx >= 0 {
		return u.Name[idx+1:]
	}
	return ""
}

// GetStatus returns the current ActiveState of the unit.
func (u *ManagedUnit) GetStatus() (string, error) {
	conn, err := u.connectionFactory.NewConnection(u.contextProvider.GetContext(), u.configProvider.GetConfig().UserMode)
	if err != nil {
		return "", err // Connection factory already wraps with proper error type
	}
	defer func() { _ = conn.Close() }()

	prop, err := conn.GetUnitProperty(u.contextProvider.GetContext(), u.Name, "ActiveState")
	if err != nil {
		return "", NewError("GetStatus", u.Name, err)
	}
	return prop.Value.Value().(string), nil
}

// Start starts the unit.
func (u *ManagedUnit) Start() error {
	conn, err := u.connectionFactory.NewConnection(u.contextProvider.GetContext(), u.configProvider.GetConfig().UserMode)
	if err != nil {
		return fmt.Errorf("error connecting to systemd: %w", err)
	}
	defer func() { _ = conn.Close() }()

	u.logger.Debug("Attempting to start unit", "name", u.Name)

	ch, err := conn.StartUnit(u.contextProvider.GetContext(), u.Name, "replace")
	if err != nil {
		return fmt.Errorf("error starting unit %s: %w", u.Name, err)
	}

	result := <-ch
	if result != "done" {
		return NewError("Start", u.Name, fmt.Errorf("job finished with result %q", result))
	}

	u.logger.Debug("Successfully started unit", "name", u.Name)
	return nil
}

// Stop stops the unit.
func (u *ManagedUnit) Stop() error {
	conn, err := u.connectionFactory.NewConnection(u.contextProvider.GetContext(), u.configProvider.GetConfig().UserMode)
	if err != nil {
		return fmt.Errorf("error connecting to systemd: %w", err)
	}
	defer func() { _ = conn.Close() }()

	u.logger.Debug("Attempting to stop unit", "name", u.Name)

	ch, err := conn.StopUnit(u.contextProvider.GetContext(), u.Name, "replace")
	if err != nil {
		return fmt.Errorf("error stopping unit %s: %w", u.Name, err)
	}

	result := <-ch
	if result != "done" {
		return NewError("Stop", u.Name, fmt.Errorf("job finished with result %q", result))
	}

	u.logger.Debug("Successfully stopped unit", "name", u.Name)
	return nil
}

// Enable enables the unit so it starts on boot.
func (u *ManagedUnit) Enable() error {
	conn, err := u.connectionFactory.NewConnection(u.contextProvider.GetContext(), u.configProvider.GetConfig().UserMode)
	if err != nil {
		return fmt.Errorf("error connecting to systemd: %w", err)
	}
	defer func() { _ = conn.Close() }()

	u.logger.Debug("Enabling unit", "name", u.Name)
	err = conn.EnableUnitFiles(u.contextProvider.GetContext(), []string{u.Name}, false, true)
	if err != nil {
		return NewError("Enable", u.Name, err)
	}

	return nil
}

// Disable disables the unit.
func (u *ManagedUnit) Disable() error {
	conn, err := u.connectionFactory.NewConnection(u.contextProvider.GetContext(), u.configProvider.GetConfig().UserMode)
	if err != nil {
		return fmt.Errorf("error connecting to systemd: %w", err)
	}
	defer func() { _ = conn.Close() }()

	u.logger.Debug("Disabling unit", "name", u.Name)
	err = conn.DisableUnitFiles(u.contextProvider.GetContext(), []string{u.Name}, false)
	if err != nil {
		return NewError("Disable", u.Name, err)
	}

	return nil
}

// Show displays the unit configuration and status.
func (u *ManagedUnit) Show() error {
	conn, err := u.connectionFactory.NewConnection(u.contextProvider.GetContext(), u.configProvider.GetConfig().UserMode)
	if err != nil {
		return fmt.Errorf("error connecting to systemd: %w", err)
	}
	defer func() { _ = conn.Close() }()

	prop, err := conn.GetUnitProperties(u.contextProvider.GetContext(), u.Name)
	if err != nil {
		return fmt.Errorf("error getting unit properties: %w", err)
	}

	fmt.Printf("\n=== %s ===\n\n", u.Name)

	fmt.Println("Status:")
	fmt.Printf("  %-20s: %v\n", "State", prop["ActiveState"])
	fmt.Printf("  %-20s: %v\n", "Sub-State", prop["SubState"])
	fmt.Printf("  %-20s: %v\n", "Load State", prop["LoadState"])

	fmt.Println("\nUnit Information:")
	fmt.Printf("  %-20s: %v\n", "Description", prop["Description"])
	fmt.Printf("  %-20s: %v\n", "Path", prop["FragmentPath"])

	// Read and display the scheduling or execution directives from the unit file
	if fragmentPath, ok := prop["FragmentPath"].(string); ok {
		content, err := os.ReadFile(fragmentPath) //nolint:gosec // Safe as path comes from systemd D-Bus interface, not user input
		if err == nil {
			unitConfig, _ := ini.Load(content)
			sectionName := u.textCaser.Title(u.kind())
			if section, err := unitConfig.GetSection(sectionName); err == nil {
				fmt.Printf("\n%s Configuration:\n", sectionName)
				for _, key := range section.Keys() {
					fmt.Printf("  %-20s: %s\n", key.Name(), key.Value())
				}
			}
		}
	}

	fmt.Println()
	return nil
}

// ResetFailed resets the failed state of the unit.
func (u *ManagedUnit) ResetFailed() error {
	conn, err := u.connectionFactory.NewConnection(u.contextProvider.GetContext(), u.configProvider.GetConfig().UserMode)
	if err != nil {
		return fmt.Errorf("error connecting to systemd: %w", err)
	}
	defer func() { _ = conn.Close() }()

	u.logger.Debug("Resetting failed unit", "name", u.Name)
	err = conn.ResetFailedUnit(u.contextProvider.GetContext(), u.Name)
	if err != nil {
		return fmt.Errorf("error resetting failed unit %s: %w", u.Name, err)
	}

	return nil
}
