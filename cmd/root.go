// Package cmd provides the command line interface for timer-ops.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/systemd-tools/timer-ops/internal/config"
	"github.com/systemd-tools/timer-ops/internal/db"
	"github.com/systemd-tools/timer-ops/internal/log"
)

// RootCommand represents the root command for timer-ops CLI.
type RootCommand struct{}

var (
	cfg            *config.Settings
	userMode       bool
	configFilePath string
	dbPath         string
	unitDir        string
	tmpfilesDir    string
	repositoryDir  string
	verbose        bool
)

// GetCobraCommand returns the cobra root command for timer-ops CLI.
func (c *RootCommand) GetCobraCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "timer-ops",
		Short: "Timer-Ops manages systemd timer/service unit pairs and tmpfiles.d drop-ins from declarative manifests.",
		Long: `Timer-Ops manages systemd timer/service unit pairs and tmpfiles.d drop-ins from declarative manifests.
It renders unit files, enables and starts the timers over D-Bus, and keeps the system in sync with Git-hosted manifest repositories.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if configFilePath != "" {
				config.SetConfigFilePath(configFilePath)
			}
			cfg = config.InitConfig()
			log.Init(verbose)

			if verbose {
				fmt.Printf("%s using config: %s\n\n", cmd.Root().Use, viper.GetViper().ConfigFileUsed())
				cfg.Verbose = verbose
			}

			if userMode {
				cfg.UserMode = userMode
				cfg.RepositoryDir = os.ExpandEnv(config.DefaultUserRepositoryDir)
				cfg.UnitDir = os.ExpandEnv(config.DefaultUserUnitDir)
				cfg.TmpfilesDir = os.ExpandEnv(config.DefaultUserTmpfilesDir)
				if dbPath == "" {
					cfg.DBPath = os.ExpandEnv(config.DefaultUserDBPath)
				}
			}

			if repositoryDir != "" {
				cfg.RepositoryDir = repositoryDir
			}

			if unitDir != "" {
				cfg.UnitDir = unitDir
			}

			if tmpfilesDir != "" {
				cfg.TmpfilesDir = tmpfilesDir
			}

			if dbPath != "" {
				cfg.DBPath = dbPath
			}

			err := db.Up(*cfg)
			if err != nil {
				log.GetLogger().Error("Failed to initialize database", "error", err)
				os.Exit(1)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&userMode, "user", "u", false, "Run in user mode")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configFilePath, "config", "", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db-path", "", "Path to the database file")
	rootCmd.PersistentFlags().StringVar(&unitDir, "unit-dir", "", "Path to the systemd unit directory")
	rootCmd.PersistentFlags().StringVar(&tmpfilesDir, "tmpfiles-dir", "", "Path to the tmpfiles.d directory")
	rootCmd.PersistentFlags().StringVar(&repositoryDir, "repository-dir", "", "Path to the repository directory")

	rootCmd.AddCommand(
		(&ApplyCommand{}).GetCobraCommand(),
		(&DownCommand{}).GetCobraCommand(),
		(&SyncCommand{}).GetCobraCommand(),
		(&ListCommand{}).GetCobraCommand(),
		(&StatusCommand{}).GetCobraCommand(),
		(&ValidateCommand{}).GetCobraCommand(),
		(&UpdateCommand{}).GetCobraCommand(),
		(&VersionCommand{}).GetCobraCommand(),
	)

	return rootCmd
}
