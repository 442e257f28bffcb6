// Package versionfile keeps an embedded version literal (e.g. in a
// startup banner) in sync with the release tag.
package versionfile

import (
	"fmt"
	"os"
	"regexp"
)

// literalPattern matches dotted version literals like v1.5.0.
var literalPattern = regexp.MustCompile(`v[0-9]+(\.[0-9]+)+`)

// Sync rewrites every version literal in the file at path to tag and
// reports whether the file changed. When dryRun is set the rewrite is
// computed but not written.
func Sync(path, tag string, dryRun bool) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("versionfile: read %s: %w", path, err)
	}

	updated := literalPattern.ReplaceAll(content, []byte(tag))
	if string(updated) == string(content) {
		return false, nil
	}
	if dryRun {
		return true, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("versionfile: stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, updated, info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("versionfile: write %s: %w", path, err)
	}
	return true, nil
}
