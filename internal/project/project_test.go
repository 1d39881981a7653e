package project

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTypeString(t *testing.T) {
	tests := []struct {
		kind     Type
		expected string
	}{
		{Rust, "Rust"},
		{Node, "Node.js"},
		{Python, "Python"},
		{Go, "Go"},
		{Type(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.expected {
			t.Errorf("Type(%d).String() = %q, want %q", tt.kind, got, tt.expected)
		}
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		input   string
		kind    Type
		set     bool
		wantErr bool
	}{
		{"", 0, false, false},
		{"all", 0, false, false},
		{"rust", Rust, true, false},
		{"node", Node, true, false},
		{"python", Python, true, false},
		{"go", Go, true, false},
		{"java", 0, false, true},
		{"Rust", 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			kind, set, err := ParseType(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseType(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseType(%q) unexpected error: %v", tt.input, err)
			}
			if kind != tt.kind || set != tt.set {
				t.Errorf("ParseType(%q) = (%v, %v), want (%v, %v)", tt.input, kind, set, tt.kind, tt.set)
			}
		})
	}
}

func TestTypeMarshalJSON(t *testing.T) {
	p := New(Rust, "/src/app", "/src/app/target", "app")
	p.Artifacts.Size = 1024

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"kind": "Rust"`) && !strings.Contains(string(data), `"kind":"Rust"`) {
		t.Errorf("expected kind to marshal as name, got %s", data)
	}
}

func TestDisplayName(t *testing.T) {
	named := New(Node, "/src/web", "/src/web/node_modules", "web-app")
	if got := named.DisplayName(); got != "web-app" {
		t.Errorf("DisplayName() = %q, want %q", got, "web-app")
	}

	unnamed := New(Node, "/src/web", "/src/web/node_modules", "")
	if got := unnamed.DisplayName(); got != "/src/web" {
		t.Errorf("DisplayName() = %q, want %q", got, "/src/web")
	}
}

func TestProjectString(t *testing.T) {
	p := New(Rust, "/src/rg", "/src/rg/target", "ripgrep")
	s := p.String()
	for _, want := range []string{"🦀", "ripgrep", "/src/rg"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}
