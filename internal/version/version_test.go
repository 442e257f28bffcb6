package version

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Tag
	}{
		{
			name:  "bare version gets prefix",
			input: "1.2.3",
			want:  "v1.2.3",
		},
		{
			name:  "prefixed version unchanged",
			input: "v1.2.3",
			want:  "v1.2.3",
		},
		{
			name:  "two component version",
			input: "1.5",
			want:  "v1.5",
		},
		{
			name:  "single component version",
			input: "7",
			want:  "v7",
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  1.2.3 ",
			want:  "v1.2.3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if err != nil {
				t.Fatalf("Normalize(%q) returned error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizePrefixEquivalence(t *testing.T) {
	inputs := []string{"1.2.3", "0.1", "10.20.30", "2"}
	for _, in := range inputs {
		bare, err := Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q) returned error: %v", in, err)
		}
		prefixed, err := Normalize("v" + in)
		if err != nil {
			t.Fatalf("Normalize(%q) returned error: %v", "v"+in, err)
		}
		if bare != prefixed {
			t.Errorf("Normalize(%q) = %q, Normalize(%q) = %q, want equal", in, bare, "v"+in, prefixed)
		}
	}
}

func TestNormalizeInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "lone prefix", input: "v"},
		{name: "letters in body", input: "1.2.3-beta"},
		{name: "semver prerelease", input: "v1.0.0-rc1"},
		{name: "embedded space", input: "1. 2"},
		{name: "alpha version", input: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.input)
			if err == nil {
				t.Fatalf("Normalize(%q) succeeded, want error", tt.input)
			}
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("Normalize(%q) error = %v, want ErrInvalidFormat", tt.input, err)
			}
		})
	}
}

func TestTagBare(t *testing.T) {
	tag, err := Normalize("1.5.1")
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if got := tag.Bare(); got != "1.5.1" {
		t.Errorf("Bare() = %q, want %q", got, "1.5.1")
	}
	if got := tag.String(); got != "v1.5.1" {
		t.Errorf("String() = %q, want %q", got, "v1.5.1")
	}
}
