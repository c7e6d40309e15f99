package config

// MockProvider implements the Provider interface for testing.
type MockProvider struct {
	Config *Settings
}

// GetConfig returns the mock configuration.
func (m *MockProvider) GetConfig() *Settings {
	return m.Config
}

// SetConfig sets the mock configuration.
func (m *MockProvider) SetConfig(c *Settings) {
	m.Config = c
}

// InitConfig returns the mock configuration unchanged.
func (m *MockProvider) InitConfig() *Settings {
	return m.Config
}

// SetConfigFilePath is a no-op for the mock provider.
func (m *MockProvider) SetConfigFilePath(string) {}
