package orchestrator

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systemd-tools/timer-ops/internal/config"
	"github.com/systemd-tools/timer-ops/internal/db"
	"github.com/systemd-tools/timer-ops/internal/fs"
	"github.com/systemd-tools/timer-ops/internal/log"
	"github.com/systemd-tools/timer-ops/internal/resource"
	"github.com/systemd-tools/timer-ops/internal/systemd"
	"github.com/systemd-tools/timer-ops/internal/timer"
	"github.com/systemd-tools/timer-ops/internal/tmpfiles"
)

// fakeUnitRepo is an in-memory UnitRepository for cleanup tests.
type fakeUnitRepo struct {
	units map[string]db.Unit
}

func newFakeUnitRepo() *fakeUnitRepo {
	return &fakeUnitRepo{units: make(map[string]db.Unit)}
}

func (r *fakeUnitRepo) FindAll() ([]db.Unit, error) {
	var out []db.Unit
	for _, u := range r.units {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUnitRepo) FindByName(name, kind string) (db.Unit, error) {
	u, ok := r.units[name+"."+kind]
	if !ok {
		return db.Unit{}, sql.ErrNoRows
	}
	return u, nil
}

func (r *fakeUnitRepo) Upsert(unit *db.Unit) (int64, error) {
	r.units[unit.Name+"."+unit.Kind] = *unit
	return int64(len(r.units)), nil
}

func (r *fakeUnitRepo) Delete(name, kind string) error {
	delete(r.units, name+"."+kind)
	return nil
}

func setupOrchestrator(t *testing.T, repo db.UnitRepository) (*Orchestrator, *systemd.MockUnitManager, string) {
	tmpDir := t.TempDir()
	configProvider := &config.MockProvider{Config: &config.Settings{
		UnitDir:     filepath.Join(tmpDir, "units"),
		TmpfilesDir: filepath.Join(tmpDir, "tmpfiles.d"),
	}}
	manager := &systemd.MockUnitManager{}
	orch := NewOrchestrator(fs.NewServiceWithLogger(configProvider, log.Nop()), manager, configProvider, log.Nop(), repo)
	return orch, manager, tmpDir
}

func backupWrapper(ensure resource.Ensure) *timer.Wrapper {
	return &timer.Wrapper{
		Name:       "backup",
		Ensure:     ensure,
		Command:    "/usr/local/bin/backup",
		OnCalendar: "daily",
	}
}

func TestApplyPresentTimer(t *testing.T) {
	orch, manager, tmpDir := setupOrchestrator(t, nil)

	set, err := backupWrapper(resource.Present).Plan()
	require.NoError(t, err)

	result, err := orch.Apply([]*resource.Set{set})
	require.NoError(t, err)
	assert.Len(t, result.Changed, 3)

	serviceContent, err := os.ReadFile(filepath.Join(tmpDir, "units", "backup.service"))
	require.NoError(t, err)
	assert.Contains(t, string(serviceContent), "ExecStart=/usr/local/bin/backup")
	assert.Contains(t, string(serviceContent), "Type=oneshot")

	timerContent, err := os.ReadFile(filepath.Join(tmpDir, "units", "backup.timer"))
	require.NoError(t, err)
	assert.Contains(t, string(timerContent), "OnCalendar=daily")
	assert.Contains(t, string(timerContent), "WantedBy=timers.target")

	// Reload happens after the files land and before any state change.
	assert.Equal(t, []string{"daemon-reload", "enable backup.timer", "start backup.timer"}, manager.Calls)
}

func TestApplyUnchangedSkipsReload(t *testing.T) {
	orch, manager, _ := setupOrchestrator(t, nil)

	set, err := backupWrapper(resource.Present).Plan()
	require.NoError(t, err)

	_, err = orch.Apply([]*resource.Set{set})
	require.NoError(t, err)

	manager.Calls = nil
	result, err := orch.Apply([]*resource.Set{set})
	require.NoError(t, err)

	// Only the state resource reports a change; unit files are untouched.
	assert.Equal(t, []string{"backup.timer/state"}, result.Changed)
	assert.Equal(t, []string{"enable backup.timer", "start backup.timer"}, manager.Calls)
}

func TestApplyAbsentTimer(t *testing.T) {
	orch, manager, tmpDir := setupOrchestrator(t, nil)

	present, err := backupWrapper(resource.Present).Plan()
	require.NoError(t, err)
	_, err = orch.Apply([]*resource.Set{present})
	require.NoError(t, err)

	manager.Calls = nil
	absent, err := backupWrapper(resource.Absent).Plan()
	require.NoError(t, err)

	result, err := orch.Apply([]*resource.Set{absent})
	require.NoError(t, err)
	assert.Len(t, result.Changed, 3)

	// Enablement torn down before the files go away, reload at the end.
	assert.Equal(t, []string{"stop backup.timer", "disable backup.timer", "daemon-reload"}, manager.Calls)

	assert.NoFileExists(t, filepath.Join(tmpDir, "units", "backup.timer"))
	assert.NoFileExists(t, filepath.Join(tmpDir, "units", "backup.service"))
}

func TestApplyTmpfileDropin(t *testing.T) {
	orch, manager, tmpDir := setupOrchestrator(t, nil)

	dropin := &tmpfiles.Dropin{Title: "random_tmpfile.conf", Content: "random stuff", Ensure: resource.Present}
	set, err := dropin.Plan(filepath.Join(tmpDir, "tmpfiles.d"))
	require.NoError(t, err)

	result, err := orch.Apply([]*resource.Set{set})
	require.NoError(t, err)
	assert.Len(t, result.Changed, 1)
	assert.Empty(t, manager.Calls)

	path := filepath.Join(tmpDir, "tmpfiles.d", "random_tmpfile.conf")
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "random stuff", string(content))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o444), info.Mode().Perm())
}

func TestApplyTracksUnits(t *testing.T) {
	repo := newFakeUnitRepo()
	orch, _, _ := setupOrchestrator(t, repo)

	set, err := backupWrapper(resource.Present).Plan()
	require.NoError(t, err)
	_, err = orch.Apply([]*resource.Set{set})
	require.NoError(t, err)

	assert.Contains(t, repo.units, "backup.timer")
	assert.Contains(t, repo.units, "backup.service")
	assert.NotEmpty(t, repo.units["backup.timer"].SHA1Hash)

	absent, err := backupWrapper(resource.Absent).Plan()
	require.NoError(t, err)
	_, err = orch.Apply([]*resource.Set{absent})
	require.NoError(t, err)

	assert.Empty(t, repo.units)
}

func TestCleanupOrphans(t *testing.T) {
	repo := newFakeUnitRepo()
	orch, manager, tmpDir := setupOrchestrator(t, repo)

	set, err := backupWrapper(resource.Present).Plan()
	require.NoError(t, err)
	_, err = orch.Apply([]*resource.Set{set})
	require.NoError(t, err)

	manager.Calls = nil

	// Nothing is active anymore, so the backup pair is an orphan.
	err = orch.CleanupOrphans(map[string]bool{})
	require.NoError(t, err)

	assert.Contains(t, manager.Calls, "stop backup.timer")
	assert.Contains(t, manager.Calls, "disable backup.timer")
	assert.Equal(t, "daemon-reload", manager.Calls[len(manager.Calls)-1])

	assert.NoFileExists(t, filepath.Join(tmpDir, "units", "backup.timer"))
	assert.NoFileExists(t, filepath.Join(tmpDir, "units", "backup.service"))
	assert.Empty(t, repo.units)
}

func TestCleanupOrphansKeepsActive(t *testing.T) {
	repo := newFakeUnitRepo()
	orch, manager, tmpDir := setupOrchestrator(t, repo)

	set, err := backupWrapper(resource.Present).Plan()
	require.NoError(t, err)
	_, err = orch.Apply([]*resource.Set{set})
	require.NoError(t, err)

	manager.Calls = nil

	err = orch.CleanupOrphans(TrackingKeys([]*resource.Set{set}))
	require.NoError(t, err)

	assert.Empty(t, manager.Calls)
	assert.FileExists(t, filepath.Join(tmpDir, "units", "backup.timer"))
	assert.Len(t, repo.units, 2)
}

func TestTrackingKeys(t *testing.T) {
	present, err := backupWrapper(resource.Present).Plan()
	require.NoError(t, err)

	absent, err := (&timer.Wrapper{Name: "old", Ensure: resource.Absent}).Plan()
	require.NoError(t, err)

	dropin := &tmpfiles.Dropin{Title: "random_tmpfile.conf", Content: "x"}
	fileSet, err := dropin.Plan("/etc/tmpfiles.d")
	require.NoError(t, err)

	keys := TrackingKeys([]*resource.Set{present, absent, fileSet})

	assert.True(t, keys["backup.timer"])
	assert.True(t, keys["backup.service"])
	assert.True(t, keys["random_tmpfile.conf.tmpfile"])
	assert.False(t, keys["old.timer"])
}
