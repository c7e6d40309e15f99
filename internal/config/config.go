// Package config provides configuration management for timer-ops
package config

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

// Provider defines the interface for configuration providers.
type Provider interface {
	// GetConfig returns the current application configuration.
	GetConfig() *Settings
	// SetConfig sets the application configuration.
	SetConfig(c *Settings)
	// InitConfig initializes the application configuration.
	InitConfig() *Settings
	// SetConfigFilePath sets the configuration file path.
	SetConfigFilePath(p string)
}

// defaultConfigProvider implements the Provider interface.
type defaultConfigProvider struct {
	cfg *Settings
}

// NewDefaultConfigProvider creates a new default config provider.
func NewDefaultConfigProvider() Provider {
	return &defaultConfigProvider{}
}

var defaultProvider = NewDefaultConfigProvider()

// Default configuration values for the timer-ops system. Separate
// system and user mode paths mirror systemd's own search locations.
const (
	DefaultUnitDir           = "/etc/systemd/system"
	DefaultTmpfilesDir       = "/etc/tmpfiles.d"
	DefaultRepositoryDir     = "/var/lib/timer-ops"
	DefaultDBPath            = "/var/lib/timer-ops/timer-ops.db"
	DefaultSyncInterval      = 5 * time.Minute
	DefaultUserUnitDir       = "$HOME/.config/systemd/user"
	DefaultUserTmpfilesDir   = "$HOME/.config/user-tmpfiles.d"
	DefaultUserRepositoryDir = "$HOME/.local/share/timer-ops"
	DefaultUserDBPath        = "$HOME/.local/share/timer-ops/timer-ops.db"
	DefaultUserMode          = false
	DefaultVerbose           = false
)

// Repository represents a git repository of timer manifests managed by
// timer-ops. Manifests are read from ManifestDir inside the checkout.
type Repository struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	Reference   string `yaml:"ref,omitempty"`
	ManifestDir string `yaml:"manifestDir,omitempty"`
	Cleanup     string `yaml:"cleanup,omitempty"`
}

// Settings represents the configuration for the timer-ops system.
type Settings struct {
	UnitDir       string        `yaml:"unitDir"`
	TmpfilesDir   string        `yaml:"tmpfilesDir"`
	RepositoryDir string        `yaml:"repositoryDir"`
	Repositories  []Repository  `yaml:"repositories"`
	DBPath        string        `yaml:"dbPath"`
	SyncInterval  time.Duration `yaml:"syncInterval"`
	UserMode      bool          `yaml:"userMode"`
	Verbose       bool          `yaml:"verbose"`
}

func (p *defaultConfigProvider) SetConfig(c *Settings) {
	p.cfg = c
}

func (p *defaultConfigProvider) GetConfig() *Settings {
	return p.cfg
}

func (p *defaultConfigProvider) SetConfigFilePath(path string) {
	viper.SetConfigFile(path)
}

func (p *defaultConfigProvider) InitConfig() *Settings {
	p.cfg = initConfigInternal()
	return p.cfg
}

// SetConfig sets the application configuration.
func SetConfig(c *Settings) {
	defaultProvider.SetConfig(c)
}

// GetConfig returns the current application configuration.
func GetConfig() *Settings {
	return defaultProvider.GetConfig()
}

// SetConfigFilePath sets the configuration file path.
func SetConfigFilePath(p string) {
	defaultProvider.SetConfigFilePath(p)
}

// InitConfig initializes the application configuration.
func InitConfig() *Settings {
	return defaultProvider.InitConfig()
}

func initConfigInternal() *Settings {
	cfg := &Settings{
		UnitDir:       DefaultUnitDir,
		TmpfilesDir:   DefaultTmpfilesDir,
		RepositoryDir: DefaultRepositoryDir,
		DBPath:        DefaultDBPath,
		SyncInterval:  DefaultSyncInterval,
		UserMode:      DefaultUserMode,
		Verbose:       DefaultVerbose,
	}

	viper.SetDefault("unitDir", DefaultUnitDir)
	viper.SetDefault("tmpfilesDir", DefaultTmpfilesDir)
	viper.SetDefault("repositoryDir", DefaultRepositoryDir)
	viper.SetDefault("dbPath", DefaultDBPath)
	viper.SetDefault("syncInterval", DefaultSyncInterval)
	viper.SetDefault("userMode", DefaultUserMode)
	viper.SetDefault("verbose", DefaultVerbose)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(os.ExpandEnv("$HOME/.config/timer-ops"))
	viper.AddConfigPath("/etc/timer-ops")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(err)
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		panic(err)
	}

	return cfg
}
