package cli

import (
	"reflect"
	"testing"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to png", "", []string{"png"}},
		{"single", "svg", []string{"svg"}},
		{"multiple", "png,svg,json", []string{"png", "svg", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		specPath string
		want     string
	}{
		{"empty output strips spec extension", "", "plots/temp.toml", "plots/temp"},
		{"output with format extension", "out.png", "temp.toml", "out"},
		{"output without extension", "out", "temp.toml", "out"},
		{"output with unrelated extension", "out.data", "temp.toml", "out.data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.specPath); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.specPath, got, tt.want)
			}
		})
	}
}

func TestArtifactPath(t *testing.T) {
	t.Run("explicit output single format", func(t *testing.T) {
		opts := &renderOpts{output: "map.png", formats: []string{"png"}}
		if got := artifactPath(opts, "spec.toml", "png"); got != "map.png" {
			t.Errorf("artifactPath() = %q, want %q", got, "map.png")
		}
	})

	t.Run("derived from spec", func(t *testing.T) {
		opts := &renderOpts{formats: []string{"png", "svg"}}
		if got := artifactPath(opts, "plots/spec.toml", "svg"); got != "plots/spec.svg" {
			t.Errorf("artifactPath() = %q, want %q", got, "plots/spec.svg")
		}
	})

	t.Run("base output multiple formats", func(t *testing.T) {
		opts := &renderOpts{output: "out", formats: []string{"png", "json"}}
		if got := artifactPath(opts, "spec.toml", "json"); got != "out.json" {
			t.Errorf("artifactPath() = %q, want %q", got, "out.json")
		}
	})
}
