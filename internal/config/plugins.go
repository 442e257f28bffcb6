package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/relctl/relctl/internal/release"
)

// pluginsSchema validates plugins.json before any Target is built, so
// shape errors surface as one message instead of half-parsed targets.
const pluginsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["plugins"],
  "properties": {
    "plugins": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "repo"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "repo": {"type": "string", "pattern": "^[^/]+/[^/]+$"},
          "enabled": {"type": "boolean"}
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`

// Plugin is one entry of the plugin list.
type Plugin struct {
	Name string `json:"name" yaml:"name"`
	Repo string `json:"repo" yaml:"repo"`
	// Enabled defaults to true when omitted.
	Enabled *bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
}

// On reports whether the plugin participates in releases.
func (p Plugin) On() bool { return p.Enabled == nil || *p.Enabled }

type pluginsFile struct {
	Plugins []Plugin `json:"plugins" yaml:"plugins"`
}

// LoadPlugins reads the plugin list at path. JSON files are validated
// against the embedded schema first; YAML files are checked field by
// field after decoding.
func LoadPlugins(path string) ([]Plugin, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read plugins file: %w", err)
	}

	var doc pluginsFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		for i, p := range doc.Plugins {
			if p.Name == "" {
				return nil, fmt.Errorf("config: %s: plugins[%d] missing name", path, i)
			}
			if !strings.Contains(p.Repo, "/") {
				return nil, fmt.Errorf("config: %s: plugin %s repo must be owner/name, got %q", path, p.Name, p.Repo)
			}
		}
	default:
		result, err := gojsonschema.Validate(
			gojsonschema.NewStringLoader(pluginsSchema),
			gojsonschema.NewBytesLoader(data),
		)
		if err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		if !result.Valid() {
			var issues []string
			for _, desc := range result.Errors() {
				issues = append(issues, desc.String())
			}
			return nil, fmt.Errorf("config: invalid plugins file %s: %s", path, strings.Join(issues, "; "))
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if len(doc.Plugins) == 0 {
		return nil, fmt.Errorf("config: no plugins defined in %s", path)
	}
	return doc.Plugins, nil
}

// EnabledPlugins filters the list down to enabled entries.
func EnabledPlugins(plugins []Plugin) []Plugin {
	var out []Plugin
	for _, p := range plugins {
		if p.On() {
			out = append(out, p)
		}
	}
	return out
}

// PluginTargets converts plugins into release targets. Each plugin's
// checkout is expected as a sibling of the main project root, named
// after the plugin.
func PluginTargets(root string, plugins []Plugin) ([]release.Target, error) {
	targets := make([]release.Target, 0, len(plugins))
	for _, p := range plugins {
		owner, repo, ok := strings.Cut(p.Repo, "/")
		if !ok || owner == "" || repo == "" {
			return nil, fmt.Errorf("config: plugin %s: repo must be owner/name, got %q", p.Name, p.Repo)
		}
		targets = append(targets, release.Target{
			Name:  p.Name,
			Dir:   filepath.Join(filepath.Dir(root), p.Name),
			Owner: owner,
			Repo:  repo,
		})
	}
	return targets, nil
}
