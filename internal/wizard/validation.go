package wizard

import (
	"fmt"
	"regexp"
	"strings"
)

var repoPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

// ValidateRepo checks the owner/name form of the main repository.
func ValidateRepo(repo string) error {
	trimmed := strings.TrimSpace(repo)
	if trimmed == "" {
		return fmt.Errorf("repository is required")
	}
	if !repoPattern.MatchString(trimmed) {
		return fmt.Errorf("repository must be owner/name, e.g. go-lynx/lynx")
	}
	return nil
}

// ValidatePluginsFile checks the plugin list filename.
func ValidatePluginsFile(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil // defaults to plugins.json
	}
	if strings.ContainsAny(trimmed, " \t") {
		return fmt.Errorf("plugins file must not contain spaces")
	}
	switch {
	case strings.HasSuffix(trimmed, ".json"),
		strings.HasSuffix(trimmed, ".yaml"),
		strings.HasSuffix(trimmed, ".yml"):
		return nil
	}
	return fmt.Errorf("plugins file must end in .json, .yaml or .yml")
}
