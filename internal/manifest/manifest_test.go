package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systemd-tools/timer-ops/internal/resource"
)

const sampleManifest = `
timers:
  - name: backup
    command: /usr/local/bin/backup
    user: root
    on_calendar: daily
    timer_overrides:
      RandomizedDelaySec: 1h
  - name: cleanup
    ensure: absent
tmpfiles:
  - title: random_tmpfile.conf
    content: |
      random stuff
`

func TestParse(t *testing.T) {
	m, err := Parse([]byte(sampleManifest))
	require.NoError(t, err)

	require.Len(t, m.Timers, 2)
	require.Len(t, m.Tmpfiles, 1)

	backup := m.Timers[0]
	assert.Equal(t, "backup", backup.Name)
	assert.Equal(t, "/usr/local/bin/backup", backup.Command)
	assert.Equal(t, "root", backup.User)
	assert.Equal(t, "daily", backup.OnCalendar)
	assert.Equal(t, map[string]string{"RandomizedDelaySec": "1h"}, backup.TimerConfig)

	assert.Equal(t, "absent", m.Timers[1].Ensure)
	assert.Equal(t, "random_tmpfile.conf", m.Tmpfiles[0].Title)
}

func TestParseRejectsNamelessTimer(t *testing.T) {
	_, err := Parse([]byte("timers:\n  - command: /bin/true\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no name")
}

func TestParseRejectsTitlelessTmpfile(t *testing.T) {
	_, err := Parse([]byte("tmpfiles:\n  - content: stuff\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no title")
}

func TestParseRejectsInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("timers: [unclosed"))
	require.Error(t, err)
}

func TestTimerSpecWrapper(t *testing.T) {
	spec := TimerSpec{
		Name:       "backup",
		Ensure:     "present",
		Command:    "/usr/local/bin/backup",
		OnCalendar: "daily",
	}

	w := spec.Wrapper()
	assert.Equal(t, "backup", w.Name)
	assert.Equal(t, resource.Present, w.Ensure)

	set, err := w.Plan()
	require.NoError(t, err)
	assert.Len(t, set.Resources, 3)
}

func TestTmpfileSpecDropin(t *testing.T) {
	spec := TmpfileSpec{Title: "10-cleanup.conf", Content: "d /run/cleanup 0755"}

	d := spec.Dropin()
	name, err := d.ResolveFilename()
	require.NoError(t, err)
	assert.Equal(t, "10-cleanup.conf", name)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte("timers:\n  - name: second\n    on_boot_sec: \"60\"\n    command: /bin/b\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yml"), []byte("timers:\n  - name: first\n    on_calendar: daily\n    command: /bin/a\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("not yaml"), 0600))

	m, err := LoadDir(dir)
	require.NoError(t, err)

	require.Len(t, m.Timers, 2)
	assert.Equal(t, "first", m.Timers[0].Name)
	assert.Equal(t, "second", m.Timers[1].Name)
}

func TestLoadFileOrDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "timers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleManifest), 0600))

	fromFile, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, fromFile.Timers, 2)

	fromDir, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, fromDir.Timers, 2)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
