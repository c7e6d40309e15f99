package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/systemd-tools/timer-ops/internal/git"
	"github.com/systemd-tools/timer-ops/internal/log"
	"github.com/systemd-tools/timer-ops/internal/manifest"
	"github.com/systemd-tools/timer-ops/internal/orchestrator"
	"github.com/systemd-tools/timer-ops/internal/resource"
)

// SyncCommand represents the sync command for timer-ops CLI.
type SyncCommand struct{}

var (
	dryRun   bool
	repoName string
)

// GetCobraCommand returns the cobra command for sync operations.
func (c *SyncCommand) GetCobraCommand() *cobra.Command {
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronizes manifests from configured repositories with timer units on the local system.",
		Long: `Synchronizes manifests from configured repositories with timer units on the local system.

Repositories are defined in the timer-ops config file as a list of Repository objects.

---
repositories:
  - name: timer-manifests
    url: https://example.com/timer-manifests.git
    ref: main
    manifestDir: timers`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := os.MkdirAll(cfg.RepositoryDir, 0750); err != nil {
				return fmt.Errorf("error creating repository directory: %w", err)
			}
			return c.syncRepositories()
		},
		SilenceUsage: true,
	}

	syncCmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Perform a dry run without making any changes.")
	syncCmd.Flags().StringVarP(&repoName, "repo", "r", "", "Synchronize a single, named, repository.")

	return syncCmd
}

func (c *SyncCommand) syncRepositories() error {
	logger := log.GetLogger()
	provider := configProvider()

	var allSets []*resource.Set
	synced := 0

	for _, repoConfig := range cfg.Repositories {
		if repoName != "" && repoConfig.Name != repoName {
			logger.Debug("Skipping repository as it does not match the specified name", "repo", repoConfig.Name)
			continue
		}

		if dryRun {
			logger.Info("Dry-run: would process repository", "name", repoConfig.Name)
			continue
		}

		logger.Debug("Processing repository", "name", repoConfig.Name)

		gitRepo := git.NewGitRepository(repoConfig, provider)
		if err := gitRepo.SyncRepository(); err != nil {
			logger.Error("Failed to sync repository", "name", repoConfig.Name, "error", err)
			continue
		}

		logger.Debug("Looking for manifests", "dir", gitRepo.ManifestPath())

		m, err := manifest.Load(gitRepo.ManifestPath())
		if err != nil {
			logger.Error("Failed to read manifests from repository", "name", repoConfig.Name, "error", err)
			continue
		}

		sets, err := planManifest(m)
		if err != nil {
			logger.Error("Failed to compile manifests from repository", "name", repoConfig.Name, "error", err)
			continue
		}

		allSets = append(allSets, sets...)
		synced++
	}

	if dryRun {
		return nil
	}

	orch, closeDB, err := newOrchestrator(true)
	if err != nil {
		return err
	}
	defer closeDB()

	result, err := orch.Apply(allSets)
	if err != nil {
		return err
	}

	// Orphan cleanup only makes sense when every repository contributed its
	// declarations to the active set.
	if repoName == "" {
		if err := orch.CleanupOrphans(orchestrator.TrackingKeys(allSets)); err != nil {
			return err
		}
	}

	fmt.Printf("Synced %d repositories, %d resources changed\n", synced, len(result.Changed))
	return nil
}
