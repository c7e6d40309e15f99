package systemd

import (
	"context"
	"fmt"

	"github.com/coreos/go-systemd/v22/dbus"
)

// MockConnection implements Connection interface for testing.
type MockConnection struct {
	GetUnitPropertyFunc   func(ctx context.Context, unitName, propertyName string) (*dbus.Property, error)
	GetUnitPropertiesFunc func(ctx context.Context, unitName string) (map[string]interface{}, error)
	StartUnitFunc         func(ctx context.Context, unitName, mode string) (chan string, error)
	StopUnitFunc          func(ctx context.Context, unitName, mode string) (chan string, error)
	RestartUnitFunc       func(ctx context.Context, unitName, mode string) (chan string, error)
	EnableUnitFilesFunc   func(ctx context.Context, files []string, runtime, force bool) error
	DisableUnitFilesFunc  func(ctx context.Context, files []string, runtime bool) error
	ResetFailedUnitFunc   func(ctx context.Context, unitName string) error
	ReloadFunc            func(ctx context.Context) error
	CloseFunc             func() error
}

// GetUnitProperty gets a property of a systemd unit.
func (m *MockConnection) GetUnitProperty(ctx context.Context, unitName, propertyName string) (*dbus.Property, error) {
	if m.GetUnitPropertyFunc != nil {
		return m.GetUnitPropertyFunc(ctx, unitName, propertyName)
	}
	return nil, fmt.Errorf("mock not implemented")
}

// GetUnitProperties gets all properties of a systemd unit.
func (m *MockConnection) GetUnitProperties(ctx context.Context, unitName string) (map[string]interface{}, error) {
	if m.GetUnitPropertiesFunc != nil {
		return m.GetUnitPropertiesFunc(ctx, unitName)
	}
	return nil, fmt.Errorf("mock not implemented")
}

// StartUnit starts a systemd unit.
func (m *MockConnection) StartUnit(ctx context.Context, unitName, mode string) (chan string, error) {
	if m.StartUnitFunc != nil {
		return m.StartUnitFunc(ctx, unitName, mode)
	}
	return nil, fmt.Errorf("mock not implemented")
}

// StopUnit stops a systemd unit.
func (m *MockConnection) StopUnit(ctx context.Context, unitName, mode string) (chan string, error) {
	if m.StopUnitFunc != nil {
		return m.StopUnitFunc(ctx, unitName, mode)
	}
	return nil, fmt.Errorf("mock not implemented")
}

// RestartUnit restarts a systemd unit.
func (m *MockConnection) RestartUnit(ctx context.Context, unitName, mode string) (chan string, error) {
	if m.RestartUnitFunc != nil {
		return m.RestartUnitFunc(ctx, unitName, mode)
	}
	return nil, fmt.Errorf("mock not implemented")
}

// EnableUnitFiles enables the given unit files.
func (m *MockConnection) EnableUnitFiles(ctx context.Context, files []string, runtime, force bool) error {
	if m.EnableUnitFilesFunc != nil {
		return m.EnableUnitFilesFunc(ctx, files, runtime, force)
	}
	return fmt.Errorf("mock not implemented")
}

// DisableUnitFiles disables the given unit files.
func (m *MockConnection) DisableUnitFiles(ctx context.Context, files []string, runtime bool) error {
	if m.DisableUnitFilesFunc != nil {
		return m.DisableUnitFilesFunc(ctx, files, runtime)
	}
	return fmt.Errorf("mock not implemented")
}

// ResetFailedUnit resets the failed state of a unit.
func (m *MockConnection) ResetFailedUnit(ctx context.Context, unitName string) error {
	if m.ResetFailedUnitFunc != nil {
		return m.ResetFailedUnitFunc(ctx, unitName)
	}
	return fmt.Errorf("mock not implemented")
}

// Reload reloads systemd configuration.
func (m *MockConnection) Reload(ctx context.Context) error {
	if m.ReloadFunc != nil {
		return m.ReloadFunc(ctx)
	}
	return fmt.Errorf("mock not implemented")
}

// Close closes the connection.
func (m *MockConnection) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// MockConnectionFactory implements ConnectionFactory interface for testing.
type MockConnectionFactory struct {
	NewConnectionFunc func(ctx context.Context, userMode bool) (Connection, error)
	Connection        Connection
}

// NewConnection creates a new systemd connection based on configuration.
func (m *MockConnectionFactory) NewConnection(ctx context.Context, userMode bool) (Connection, error) {
	if m.NewConnectionFunc != nil {
		return m.NewConnectionFunc(ctx, userMode)
	}
	if m.Connection != nil {
		return m.Connection, nil
	}
	return nil, fmt.Errorf("mock not configured")
}

// MockContextProvider implements ContextProvider interface for testing.
type MockContextProvider struct {
	GetContextFunc func() context.Context
	Ctx            context.Context
}

// GetContext returns a context for systemd operations.
func (m *MockContextProvider) GetContext() context.Context {
	if m.GetContextFunc != nil {
		return m.GetContextFunc()
	}
	if m.Ctx != nil {
		return m.Ctx
	}
	return context.Background()
}

// MockTextCaser implements TextCaser interface for testing.
type MockTextCaser struct {
	TitleFunc func(text string) string
}

// Title converts text to title case.
func (m *MockTextCaser) Title(text string) string {
	if m.TitleFunc != nil {
		return m.TitleFunc(text)
	}
	// Default simple title case implementation for testing
	if len(text) == 0 {
		return text
	}
	return string(text[0]-32) + text[1:] // Simple uppercase first character
}

// MockUnitManager implements UnitManager interface for testing.
type MockUnitManager struct {
	GetUnitFunc       func(name string) Unit
	GetStatusFunc     func(name string) (string, error)
	StartFunc         func(name string) error
	StopFunc          func(name string) error
	EnableFunc        func(name string) error
	DisableFunc       func(name string) error
	ReloadSystemdFunc func() error

	// Calls records every state operation in invocation order, e.g. "start backup.timer".
	Calls []string
}

// GetUnit creates a Unit interface for the given full unit name.
func (m *MockUnitManager) GetUnit(name string) Unit {
	if m.GetUnitFunc != nil {
		return m.GetUnitFunc(name)
	}
	return &ManagedUnit{Name: name}
}

// GetStatus returns the current status of a unit.
func (m *MockUnitManager) GetStatus(name string) (string, error) {
	if m.GetStatusFunc != nil {
		return m.GetStatusFunc(name)
	}
	return "inactive", nil
}

// Start starts a unit.
func (m *MockUnitManager) Start(name string) error {
	m.Calls = append(m.Calls, "start "+name)
	if m.StartFunc != nil {
		return m.StartFunc(name)
	}
	return nil
}

// Stop stops a unit.
func (m *MockUnitManager) Stop(name string) error {
	m.Calls = append(m.Calls, "stop "+name)
	if m.StopFunc != nil {
		return m.StopFunc(name)
	}
	return nil
}

// Enable enables a unit.
func (m *MockUnitManager) Enable(name string) error {
	m.Calls = append(m.Calls, "enable "+name)
	if m.EnableFunc != nil {
		return m.EnableFunc(name)
	}
	return nil
}

// Disable disables a unit.
func (m *MockUnitManager) Disable(name string) error {
	m.Calls = append(m.Calls, "disable "+name)
	if m.DisableFunc != nil {
		return m.DisableFunc(name)
	}
	return nil
}

// ReloadSystemd reloads systemd configuration.
func (m *MockUnitManager) ReloadSystemd() error {
	m.Calls = append(m.Calls, "daemon-reload")
	if m.ReloadSystemdFunc != nil {
		return m.ReloadSystemdFunc()
	}
	return nil
}
