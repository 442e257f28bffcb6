// Package wizard is the interactive init flow scaffolding a relctl
// project.
package wizard

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the wizard. With force set, an existing relctl.toml is
// overwritten without the confirmation screen.
func Run(force bool) error {
	model := New(force)
	program := tea.NewProgram(model)
	final, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(WizardModel); ok && m.err != nil {
		return m.err
	}
	return nil
}

// New creates a new wizard model
func New(force bool) WizardModel {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 200
		inputs[i] = ti
	}
	inputs[fieldRepo].Placeholder = "go-lynx/lynx"
	inputs[fieldVersionFile].Placeholder = "internal/banner/banner.txt (optional)"
	inputs[fieldPluginsFile].Placeholder = "plugins.json"
	inputs[fieldToken].Placeholder = "ghp_... (optional, written to .env)"
	inputs[fieldToken].EchoMode = textinput.EchoPassword
	inputs[fieldRepo].Focus()

	return WizardModel{
		state:  StateWelcome,
		force:  force,
		inputs: inputs,
		errors: make(map[int]string),
	}
}

type existingConfigMsg struct{ path string }

type fileCreationResultMsg struct {
	result *InitResult
	err    error
}

func checkForExistingConfig() tea.Msg {
	if _, err := os.Stat("relctl.toml"); err == nil {
		return existingConfigMsg{path: "relctl.toml"}
	}
	return existingConfigMsg{}
}

// Init initializes the wizard (Bubble Tea Init)
func (m WizardModel) Init() tea.Cmd {
	return checkForExistingConfig
}

// Update handles state transitions (Bubble Tea Update)
func (m WizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != StateDetails {
				return m, tea.Quit
			}
			return m.handleTextInput(msg)

		case "enter":
			return m.handleEnter()

		case "tab", "down":
			return m.cycleFocus(1)

		case "shift+tab", "up":
			return m.cycleFocus(-1)

		default:
			return m.handleTextInput(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case existingConfigMsg:
		if msg.path != "" && !m.force {
			m.existingConfigPath = msg.path
			m.state = StateCheckExisting
		} else {
			m.state = StateWelcome
		}
		return m, nil

	case fileCreationResultMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = StateError
			return m, tea.Quit
		}
		m.result = msg.result
		m.state = StateDone
		return m, tea.Quit
	}

	return m, nil
}

// View renders the wizard UI (Bubble Tea View)
func (m WizardModel) View() string {
	switch m.state {
	case StateWelcome:
		return m.renderWelcome()
	case StateCheckExisting:
		return m.renderCheckExisting()
	case StateDetails:
		return m.renderDetails()
	case StateSummary:
		return m.renderSummary()
	case StateCreating:
		return borderStyle.Render("Creating files...")
	case StateDone:
		return m.renderDone()
	case StateError:
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	default:
		return "Unknown state"
	}
}

func (m WizardModel) handleEnter() (tea.Model, tea.Cmd) {
	switch m.state {
	case StateWelcome:
		m.state = StateDetails
		return m, textinput.Blink

	case StateCheckExisting:
		// Enter confirms overwrite; q aborted earlier.
		m.state = StateDetails
		return m, textinput.Blink

	case StateDetails:
		if m.focusIndex < fieldCount-1 {
			return m.cycleFocus(1)
		}
		if !m.validate() {
			return m, nil
		}
		m.state = StateSummary
		return m, nil

	case StateSummary:
		m.state = StateCreating
		input := m.collect()
		return m, func() tea.Msg {
			result, err := GenerateFiles(input)
			return fileCreationResultMsg{result: result, err: err}
		}
	}
	return m, nil
}

func (m WizardModel) cycleFocus(delta int) (tea.Model, tea.Cmd) {
	if m.state != StateDetails {
		return m, nil
	}
	m.inputs[m.focusIndex].Blur()
	m.focusIndex = (m.focusIndex + delta + fieldCount) % fieldCount
	cmd := m.inputs[m.focusIndex].Focus()
	return m, cmd
}

func (m WizardModel) handleTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state != StateDetails {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
	return m, cmd
}

func (m *WizardModel) validate() bool {
	m.errors = make(map[int]string)
	if err := ValidateRepo(m.inputs[fieldRepo].Value()); err != nil {
		m.errors[fieldRepo] = err.Error()
	}
	if err := ValidatePluginsFile(m.inputs[fieldPluginsFile].Value()); err != nil {
		m.errors[fieldPluginsFile] = err.Error()
	}
	return len(m.errors) == 0
}

func (m WizardModel) collect() SetupInput {
	return SetupInput{
		Repo:        strings.TrimSpace(m.inputs[fieldRepo].Value()),
		VersionFile: strings.TrimSpace(m.inputs[fieldVersionFile].Value()),
		PluginsFile: strings.TrimSpace(m.inputs[fieldPluginsFile].Value()),
		Token:       strings.TrimSpace(m.inputs[fieldToken].Value()),
	}
}

// Rendering

func (m WizardModel) renderWelcome() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("relctl init"))
	b.WriteString("\n\n")
	b.WriteString("This wizard scaffolds a release configuration:\n")
	b.WriteString("  • relctl.toml with the main repository settings\n")
	b.WriteString("  • a plugins file for fan-out releases\n")
	b.WriteString("  • .env for the GitHub token\n")
	b.WriteString(helpStyle.Render("enter to continue • q to quit"))
	return borderStyle.Render(b.String())
}

func (m WizardModel) renderCheckExisting() string {
	var b strings.Builder
	b.WriteString(errorStyle.Render("relctl.toml already exists"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Found %s in the current directory.\n", m.existingConfigPath))
	b.WriteString("Continuing will overwrite it.\n")
	b.WriteString(helpStyle.Render("enter to overwrite • q to quit"))
	return borderStyle.Render(b.String())
}

func (m WizardModel) renderDetails() string {
	labels := [fieldCount]string{
		"Main repository (owner/name)",
		"Version file to sync",
		"Plugins file",
		"GitHub token",
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Project details"))
	b.WriteString("\n\n")
	for i, input := range m.inputs {
		label := labelStyle.Render(labels[i])
		if i == m.focusIndex {
			label = selectedStyle.Render(labels[i])
		}
		b.WriteString(label + "\n")
		b.WriteString(input.View() + "\n")
		if msg, ok := m.errors[i]; ok {
			b.WriteString(errorStyle.Render("  " + msg) + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("tab/↓ next • shift+tab/↑ previous • enter on last field to review"))
	return borderStyle.Render(b.String())
}

func (m WizardModel) renderSummary() string {
	input := m.collect()
	pluginsFile := input.PluginsFile
	if pluginsFile == "" {
		pluginsFile = "plugins.json"
	}
	token := "(not set, tag-only mode)"
	if input.Token != "" {
		token = "(provided, written to .env)"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Summary"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Repository:    %s\n", input.Repo))
	if input.VersionFile != "" {
		b.WriteString(fmt.Sprintf("Version file:  %s\n", input.VersionFile))
	}
	b.WriteString(fmt.Sprintf("Plugins file:  %s\n", pluginsFile))
	b.WriteString(fmt.Sprintf("GitHub token:  %s\n", token))
	b.WriteString(helpStyle.Render("enter to create files • ctrl+c to abort"))
	return borderStyle.Render(b.String())
}

func (m WizardModel) renderDone() string {
	var b strings.Builder
	b.WriteString(successStyle.Render("✓ Project initialized"))
	b.WriteString("\n\n")
	if m.result != nil {
		if m.result.ConfigCreated {
			b.WriteString(fmt.Sprintf("  created %s\n", m.result.ConfigPath))
		} else if m.result.ConfigUpdated {
			b.WriteString(fmt.Sprintf("  updated %s\n", m.result.ConfigPath))
		}
		if m.result.PluginsCreated {
			b.WriteString(fmt.Sprintf("  created %s\n", m.result.PluginsPath))
		}
		if m.result.EnvCreated {
			b.WriteString("  created .env\n")
		}
		if m.result.GitignoreUpdated {
			b.WriteString("  updated .gitignore\n")
		}
	}
	b.WriteString("\nNext: relctl release <version> --dry-run\n")
	return borderStyle.Render(b.String())
}
