package wizard

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// gitignoreEntries keeps run-local files out of version control.
var gitignoreEntries = []string{".relctl/", ".env", ".env.local"}

// GenerateFiles scaffolds relctl.toml, the plugins file, and .env in
// the current directory.
func GenerateFiles(input SetupInput) (*InitResult, error) {
	result := &InitResult{}

	configPath := "relctl.toml"
	configExists := false
	if _, err := os.Stat(configPath); err == nil {
		configExists = true
	}
	if err := generateConfigTOML(configPath, input); err != nil {
		return nil, fmt.Errorf("failed to generate relctl.toml: %w", err)
	}
	result.ConfigPath = configPath
	if configExists {
		result.ConfigUpdated = true
	} else {
		result.ConfigCreated = true
	}

	pluginsPath := strings.TrimSpace(input.PluginsFile)
	if pluginsPath == "" {
		pluginsPath = "plugins.json"
	}
	result.PluginsPath = pluginsPath
	if _, err := os.Stat(pluginsPath); os.IsNotExist(err) {
		if err := generatePluginsFile(pluginsPath); err != nil {
			return nil, fmt.Errorf("failed to generate %s: %w", pluginsPath, err)
		}
		result.PluginsCreated = true
	}

	if token := strings.TrimSpace(input.Token); token != "" {
		if err := generateEnvFile(".env", token); err != nil {
			return nil, fmt.Errorf("failed to generate .env: %w", err)
		}
		result.EnvCreated = true
	}

	updated, err := updateGitignore()
	if err != nil {
		return nil, fmt.Errorf("failed to update .gitignore: %w", err)
	}
	result.GitignoreUpdated = updated

	return result, nil
}

func generateConfigTOML(path string, input SetupInput) error {
	type mainSection struct {
		Repo        string `toml:"repo"`
		VersionFile string `toml:"version_file,omitempty"`
		PluginsFile string `toml:"plugins_file,omitempty"`
	}
	doc := struct {
		Main mainSection `toml:"main"`
	}{
		Main: mainSection{
			Repo:        strings.TrimSpace(input.Repo),
			VersionFile: strings.TrimSpace(input.VersionFile),
			PluginsFile: strings.TrimSpace(input.PluginsFile),
		},
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func generatePluginsFile(path string) error {
	var content string
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		content = `# Plugin repositories released alongside the main project.
# Each plugin's checkout is expected as a sibling directory named
# after the plugin.
plugins:
  # - name: lynx-redis
  #   repo: go-lynx/redis
`
	} else {
		content = `{
  "plugins": []
}
`
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

func generateEnvFile(path, token string) error {
	content := fmt.Sprintf("# GitHub token used for release creation. Keep out of version control.\nGITHUB_TOKEN=%s\n", token)
	return os.WriteFile(path, []byte(content), 0o600)
}

// updateGitignore appends the run-local entries that are not already
// present, creating the file when missing.
func updateGitignore() (bool, error) {
	existing := ""
	if data, err := os.ReadFile(".gitignore"); err == nil {
		existing = string(data)
	}

	present := make(map[string]bool)
	for _, line := range strings.Split(existing, "\n") {
		present[strings.TrimSpace(line)] = true
	}

	var missing []string
	for _, entry := range gitignoreEntries {
		if !present[entry] {
			missing = append(missing, entry)
		}
	}
	if len(missing) == 0 {
		return false, nil
	}

	var b strings.Builder
	b.WriteString(existing)
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		b.WriteString("\n")
	}
	if existing != "" {
		b.WriteString("\n# relctl\n")
	} else {
		b.WriteString("# relctl\n")
	}
	for _, entry := range missing {
		b.WriteString(entry + "\n")
	}
	if err := os.WriteFile(".gitignore", []byte(b.String()), 0o644); err != nil {
		return false, err
	}
	return true, nil
}
