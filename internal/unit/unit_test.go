package unit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		name     string
		file     File
		expected string
	}{
		{"service", File{Name: "backup", Kind: KindService}, "backup.service"},
		{"timer", File{Name: "backup", Kind: KindTimer}, "backup.timer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.file.Filename())
		})
	}
}

func TestRenderService(t *testing.T) {
	f := &File{
		Name: "backup",
		Kind: KindService,
		Unit: map[string]string{
			"Description": "nightly backup",
		},
		Body: map[string]string{
			"Type":      "oneshot",
			"ExecStart": "/usr/local/bin/backup.sh",
			"User":      "backup",
		},
	}

	out, err := f.Render()
	require.NoError(t, err)

	assert.Contains(t, out, "[Unit]")
	assert.Contains(t, out, "Description=nightly backup")
	assert.Contains(t, out, "[Service]")
	assert.Contains(t, out, "Type=oneshot")
	assert.Contains(t, out, "ExecStart=/usr/local/bin/backup.sh")
	assert.Contains(t, out, "User=backup")
	assert.NotContains(t, out, "[Install]", "empty sections are omitted")
}

func TestRenderTimer(t *testing.T) {
	f := &File{
		Name: "backup",
		Kind: KindTimer,
		Body: map[string]string{
			"OnCalendar": "daily",
		},
		Install: map[string]string{
			"WantedBy": "timers.target",
		},
	}

	out, err := f.Render()
	require.NoError(t, err)

	assert.Contains(t, out, "[Timer]")
	assert.Contains(t, out, "OnCalendar=daily")
	assert.Contains(t, out, "[Install]")
	assert.Contains(t, out, "WantedBy=timers.target")
	assert.NotContains(t, out, "[Unit]")
}

func TestRenderDeterministicKeyOrder(t *testing.T) {
	f := &File{
		Name: "job",
		Kind: KindTimer,
		Body: map[string]string{
			"OnCalendar":         "daily",
			"AccuracySec":        "1min",
			"RandomizedDelaySec": "300",
		},
	}

	first, err := f.Render()
	require.NoError(t, err)

	for range 10 {
		again, err := f.Render()
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	// Sorted output: AccuracySec before OnCalendar before RandomizedDelaySec.
	assert.Regexp(t, `(?s)AccuracySec=.*OnCalendar=.*RandomizedDelaySec=`, first)
}

func TestRenderUnknownKind(t *testing.T) {
	f := &File{Name: "x", Kind: "socket"}
	_, err := f.Render()
	assert.Error(t, err)
}

func TestMergeOptions(t *testing.T) {
	tests := []struct {
		name      string
		defaults  map[string]string
		overrides map[string]string
		expected  map[string]string
	}{
		{
			name:      "override wins on collision",
			defaults:  map[string]string{"Type": "oneshot", "User": "root"},
			overrides: map[string]string{"Type": "exec"},
			expected:  map[string]string{"Type": "exec", "User": "root"},
		},
		{
			name:      "disjoint keys union",
			defaults:  map[string]string{"ExecStart": "/bin/true"},
			overrides: map[string]string{"Nice": "10"},
			expected:  map[string]string{"ExecStart": "/bin/true", "Nice": "10"},
		},
		{
			name:      "nil overrides",
			defaults:  map[string]string{"Type": "oneshot"},
			overrides: nil,
			expected:  map[string]string{"Type": "oneshot"},
		},
		{
			name:      "nil defaults",
			defaults:  nil,
			overrides: map[string]string{"Type": "exec"},
			expected:  map[string]string{"Type": "exec"},
		},
		{
			name:      "both empty",
			defaults:  map[string]string{},
			overrides: map[string]string{},
			expected:  map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeOptions(tt.defaults, tt.overrides)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMergeOptionsDoesNotMutateInputs(t *testing.T) {
	defaults := map[string]string{"Type": "oneshot"}
	overrides := map[string]string{"Type": "exec"}

	_ = MergeOptions(defaults, overrides)

	assert.Equal(t, "oneshot", defaults["Type"])
	assert.Equal(t, "exec", overrides["Type"])
}

func TestEscape(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"plain", "backup", "backup"},
		{"slash", "nightly/backup", "nightly-backup"},
		{"space", "my job", `my\x20job`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Escape(tt.in))
		})
	}
}
