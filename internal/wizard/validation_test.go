package wizard

import "testing"

func TestValidateRepo(t *testing.T) {
	tests := []struct {
		name    string
		repo    string
		wantErr bool
	}{
		{name: "valid", repo: "go-lynx/lynx"},
		{name: "valid with dots and dashes", repo: "my-org/my.repo-name"},
		{name: "surrounding whitespace", repo: "  go-lynx/lynx  "},
		{name: "empty", repo: "", wantErr: true},
		{name: "missing owner", repo: "/lynx", wantErr: true},
		{name: "missing name", repo: "go-lynx/", wantErr: true},
		{name: "no slash", repo: "go-lynx", wantErr: true},
		{name: "too many segments", repo: "a/b/c", wantErr: true},
		{name: "spaces inside", repo: "go lynx/lynx", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRepo(tt.repo)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRepo(%q) error = %v, wantErr %v", tt.repo, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePluginsFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		wantErr bool
	}{
		{name: "empty defaults", file: ""},
		{name: "json", file: "plugins.json"},
		{name: "yaml", file: "plugins.yaml"},
		{name: "yml", file: "my-plugins.yml"},
		{name: "wrong extension", file: "plugins.toml", wantErr: true},
		{name: "spaces", file: "my plugins.json", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePluginsFile(tt.file)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePluginsFile(%q) error = %v, wantErr %v", tt.file, err, tt.wantErr)
			}
		})
	}
}
