package utils

import (
	"strings"
	"testing"
)

func TestValidateSubdomain(t *testing.T) {
	valid := []string{"alice-and-bob", "smith2026", "our-big-day", "abc"}
	for _, s := range valid {
		if err := ValidateSubdomain(s); err != nil {
			t.Errorf("ValidateSubdomain(%q) = %v, want nil", s, err)
		}
	}

	invalid := map[string]string{
		"ab":             "too short",
		"":               "empty",
		"Alice":          "uppercase",
		"alice_bob":      "underscore",
		"alice.bob":      "dot",
		"-alice":         "leading hyphen",
		"alice-":         "trailing hyphen",
		strings.Repeat("a", 51): "51 chars",
	}
	for s, why := range invalid {
		if err := ValidateSubdomain(s); err == nil {
			t.Errorf("ValidateSubdomain(%q) = nil, want error (%s)", s, why)
		}
	}
}

func TestValidateSubdomainReservedWords(t *testing.T) {
	for _, s := range reservedSubdomains {
		if err := ValidateSubdomain(s); err == nil {
			t.Errorf("ValidateSubdomain(%q) = nil, want reserved-word error", s)
		}
	}
}

func TestExtractSubdomain(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"alice.weddingshare.app", "alice"},
		{"alice.weddingshare.app:443", "alice"},
		{"www.weddingshare.app", ""},
		{"app.weddingshare.app", ""},
		// apex domain has two labels, resolves to no tenant
		{"weddingshare.app", ""},
		{"localhost", ""},
		{"localhost:4000", ""},
		{"127.0.0.1:4000", ""},
		{"alice.localhost", "alice"},
		{"alice.localhost:4000", "alice"},
		{"www.localhost", ""},
	}
	for _, tt := range tests {
		if got := ExtractSubdomain(tt.host); got != tt.want {
			t.Errorf("ExtractSubdomain(%q) = %q, want %q", tt.host, got, tt.want)
		}
	}
}

func TestIsReservedPath(t *testing.T) {
	reserved := []string{"/", "/api", "/api/auth/login", "/static/logo.png", "/admin", "/pricing", "/join/abc", "/w/alice"}
	for _, p := range reserved {
		if !IsReservedPath(p) {
			t.Errorf("IsReservedPath(%q) = false, want true", p)
		}
	}

	open := []string{"/gallery", "/schedule", "/apispec"}
	for _, p := range open {
		if IsReservedPath(p) {
			t.Errorf("IsReservedPath(%q) = true, want false", p)
		}
	}
}
