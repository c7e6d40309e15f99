package systemd

import (
	"context"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/systemd-tools/timer-ops/internal/config"
	"github.com/systemd-tools/timer-ops/internal/log"
)

// DefaultContextProvider implements ContextProvider interface.
type DefaultContextProvider struct {
	ctx context.Context
}

// NewDefaultContextProvider creates a new default context provider.
func NewDefaultContextProvider() *DefaultContextProvider {
	return &DefaultContextProvider{
		ctx: context.Background(),
	}
}

// GetContext returns a context for systemd operations.
func (p *DefaultContextProvider) GetContext() context.Context {
	return p.ctx
}

// DefaultTextCaser implements TextCaser interface.
type DefaultTextCaser struct {
	caser cases.Caser
}

// NewDefaultTextCaser creates a new default text caser.
func NewDefaultTextCaser() *DefaultTextCaser {
	return &DefaultTextCaser{
		caser: cases.Title(language.English),
	}
}

// Title converts text to title case.
func (c *DefaultTextCaser) Title(text string) string {
	return c.caser.String(text)
}

// DefaultUnitManager implements UnitManager interface.
type DefaultUnitManager struct {
	connectionFactory ConnectionFactory
	contextProvider   ContextProvider
	textCaser         TextCaser
	configProvider    config.Provider
	logger            log.Logger
}

// NewDefaultUnitManager creates a new default unit manager.
func NewDefaultUnitManager(connectionFactory ConnectionFactory, contextProvider ContextProvider, textCaser TextCaser, configProvider config.Provider, logger log.Logger) *DefaultUnitManager {
	return &DefaultUnitManager{
		connectionFactory: connectionFactory,
		contextProvider:   contextProvider,
		textCaser:         textCaser,
		configProvider:    configProvider,
		logger:            logger,
	}
}

// GetUnit creates a Unit interface for the given full unit name.
func (m *DefaultUnitManager) GetUnit(name string) Unit {
	return &ManagedUnit{
		Name:              name,
		connectionFactory: m.connectionFactory,
		contextProvider:   m.contextProvider,
		textCaser:         m.textCaser,
		configProvider:    m.configProvider,
		logger:            m.logger,
	}
}

// GetStatus returns the current status of a unit.
func (m *DefaultUnitManager) GetStatus(name string) (string, error) {
	return m.GetUnit(name).GetStatus()
}

// Start starts a unit.
func (m *DefaultUnitManager) Start(name string) error {
	return m.GetUnit(name).Start()
}

// Stop stops a unit.
func (m *DefaultUnitManager) Stop(name string) error {
	return m.GetUnit(name).Stop()
}

// Enable enables a unit.
func (m *DefaultUnitManager) Enable(name string) error {
	return m.GetUnit(name).Enable()
}

// Disable disables a unit.
func (m *DefaultUnitManager) Disable(name string) error {
	return m.GetUnit(name).Disable()
}

// ReloadSystemd reloads systemd configuration.
func (m *DefaultUnitManager) ReloadSystemd() error {
	conn, err := m.connectionFactory.NewConnection(m.contextProvider.GetContext(), m.configProvider.GetConfig().UserMode)
	if err != nil {
		return fmt.Errorf("error connecting to systemd: %w", err)
	}
	defer func() { _ = conn.Close() }()

	m.logger.Debug("Reloading systemd")
	return conn.Reload(m.contextProvider.GetContext())
}
