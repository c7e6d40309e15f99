// Package tmpfiles expands tmpfiles.d drop-in declarations into file
// resources under the systemd tmpfiles.d directory.
package tmpfiles

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"

	"github.com/systemd-tools/timer-ops/internal/resource"
)

// Mode is the fixed file mode for generated tmpfiles.d entries. The
// snippets are configuration read by systemd-tmpfiles, never written to.
const Mode fs.FileMode = 0o444

// dropinPattern accepts drop-in configuration names: NAME.conf,
// including numerically prefixed forms like 10-NAME.conf. Anything with
// a path separator or another suffix is rejected.
var dropinPattern = regexp.MustCompile(`^[^/]+\.conf$`)

// InvalidDropinNameError indicates a declaration title that does not
// form a valid tmpfiles.d drop-in name and no explicit filename was given.
type InvalidDropinNameError struct {
	Title string
}

// Error implements the error interface.
func (e *InvalidDropinNameError) Error() string {
	return fmt.Sprintf("tmpfile %s: title does not match a tmpfiles.d drop-in name (NAME.conf); set filename explicitly to override", e.Title)
}

// IsInvalidDropinNameError checks if an error is an InvalidDropinNameError.
func IsInvalidDropinNameError(err error) bool {
	_, ok := err.(*InvalidDropinNameError)
	return ok
}

// Dropin declares a single tmpfiles.d configuration snippet.
type Dropin struct {
	Title    string
	Filename string // optional, overrides the title-derived name
	Content  string
	Ensure   resource.Ensure
}

// ResolveFilename returns the on-disk file name for the drop-in. An
// explicit Filename wins unconditionally; otherwise the title must match
// the drop-in naming pattern.
func (d *Dropin) ResolveFilename() (string, error) {
	if d.Filename != "" {
		return d.Filename, nil
	}
	if !dropinPattern.MatchString(d.Title) {
		return "", &InvalidDropinNameError{Title: d.Title}
	}
	return d.Title, nil
}

// Plan expands the declaration into its single file resource rooted at
// the given tmpfiles.d directory. Name validation happens before any
// resource is emitted.
func (d *Dropin) Plan(tmpfilesDir string) (*resource.Set, error) {
	ensure, err := resource.ParseEnsure(string(d.Ensure))
	if err != nil {
		return nil, err
	}

	filename, err := d.ResolveFilename()
	if err != nil {
		return nil, err
	}

	path := filepath.Join(tmpfilesDir, filename)
	return &resource.Set{
		Ensure: ensure,
		Resources: []resource.Resource{
			{
				ID:      path,
				Kind:    resource.KindFile,
				Ensure:  ensure,
				Path:    path,
				Content: d.Content,
				Mode:    Mode,
			},
		},
	}, nil
}
