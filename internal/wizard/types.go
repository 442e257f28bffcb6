package wizard

import (
	"github.com/charmbracelet/bubbles/textinput"
)

// WizardState represents the current screen
type WizardState int

const (
	StateWelcome WizardState = iota
	StateCheckExisting
	StateDetails
	StateSummary
	StateCreating
	StateDone
	StateError
)

// Field indexes into the details inputs.
const (
	fieldRepo = iota
	fieldVersionFile
	fieldPluginsFile
	fieldToken
	fieldCount
)

// SetupInput collects what the wizard needs to scaffold a project.
type SetupInput struct {
	// Repo is the main repository's owner/name pair.
	Repo string
	// VersionFile is the optional banner/source file to keep in sync.
	VersionFile string
	// PluginsFile is the plugin list filename, default plugins.json.
	PluginsFile string
	// Token is the optional GitHub token written to .env.
	Token string
}

// InitResult describes what the wizard created.
type InitResult struct {
	ConfigPath       string
	ConfigCreated    bool
	ConfigUpdated    bool
	PluginsPath      string
	PluginsCreated   bool
	EnvCreated       bool
	GitignoreUpdated bool
}

// WizardModel is the Bubble Tea model for the init flow.
type WizardModel struct {
	state WizardState
	force bool

	inputs     []textinput.Model
	focusIndex int
	errors     map[int]string

	existingConfigPath string

	result *InitResult
	err    error

	width  int
	height int
}
