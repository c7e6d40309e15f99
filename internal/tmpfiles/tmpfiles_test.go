package tmpfiles

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systemd-tools/timer-ops/internal/resource"
)

func TestResolveFilename(t *testing.T) {
	tests := []struct {
		name     string
		dropin   Dropin
		expected string
		wantErr  bool
	}{
		{
			name:     "plain conf title",
			dropin:   Dropin{Title: "random_tmpfile.conf"},
			expected: "random_tmpfile.conf",
		},
		{
			name:     "numeric prefix",
			dropin:   Dropin{Title: "10-cleanup.conf"},
			expected: "10-cleanup.conf",
		},
		{
			name:    "bad suffix",
			dropin:  Dropin{Title: "test.badtype"},
			wantErr: true,
		},
		{
			name:    "path separator",
			dropin:  Dropin{Title: "dir/name.conf"},
			wantErr: true,
		},
		{
			name:     "bad title with explicit filename",
			dropin:   Dropin{Title: "test.badtype", Filename: "goodname.conf"},
			expected: "goodname.conf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.dropin.ResolveFilename()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsInvalidDropinNameError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPlan(t *testing.T) {
	d := &Dropin{
		Title:   "random_tmpfile.conf",
		Content: "random stuff",
		Ensure:  resource.Present,
	}

	set, err := d.Plan("/etc/tmpfiles.d")
	require.NoError(t, err)
	require.Len(t, set.Resources, 1)

	file := set.Resources[0]
	assert.Equal(t, resource.KindFile, file.Kind)
	assert.Equal(t, "/etc/tmpfiles.d/random_tmpfile.conf", file.Path)
	assert.Equal(t, "random stuff", file.Content)
	assert.Equal(t, fs.FileMode(0o444), file.Mode)
	assert.Equal(t, resource.Present, file.Ensure)
}

func TestPlanBadTitleEmitsNoResources(t *testing.T) {
	d := &Dropin{Title: "test.badtype", Content: "nope"}

	set, err := d.Plan("/etc/tmpfiles.d")
	require.Error(t, err)
	assert.True(t, IsInvalidDropinNameError(err))
	assert.Nil(t, set)
}

func TestPlanFilenameOverride(t *testing.T) {
	d := &Dropin{Title: "test.badtype", Filename: "goodname.conf", Content: "ok"}

	set, err := d.Plan("/etc/tmpfiles.d")
	require.NoError(t, err)
	assert.Equal(t, "/etc/tmpfiles.d/goodname.conf", set.Resources[0].Path)
}

func TestPlanAbsent(t *testing.T) {
	d := &Dropin{Title: "old.conf", Ensure: resource.Absent}

	set, err := d.Plan("/etc/tmpfiles.d")
	require.NoError(t, err)
	assert.Equal(t, resource.Absent, set.Resources[0].Ensure)
}
