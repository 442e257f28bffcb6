package cmd

import (
	"strings"
	"testing"
)

func TestRootCommand(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("rootCmd should not be nil")
	}
	if rootCmd.Use != "relctl" {
		t.Errorf("expected Use to be 'relctl', got %q", rootCmd.Use)
	}
}

func TestCommandsRegistered(t *testing.T) {
	expected := map[string]bool{
		"release": false,
		"plugins": false,
		"plan":    false,
		"history": false,
		"init":    false,
		"version": false,
	}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := expected[cmd.Name()]; ok {
			expected[cmd.Name()] = true
		}
	}
	for name, registered := range expected {
		if !registered {
			t.Errorf("expected command %q to be registered", name)
		}
	}
}

func TestVerboseFlagRegistered(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	if flag == nil {
		t.Fatal("expected persistent --verbose flag")
	}
	if flag.Shorthand != "v" {
		t.Errorf("expected -v shorthand, got %q", flag.Shorthand)
	}
}

func TestBuildVersionNeverEmpty(t *testing.T) {
	v := buildVersion()
	if strings.TrimSpace(v) == "" {
		t.Error("buildVersion should always return something printable")
	}
}
