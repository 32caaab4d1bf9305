package services

import (
	"strings"
	"testing"

	"clipforge-backend/internal/models"
)

func TestStripJSONFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripJSONFences(tt.input); got != tt.want {
				t.Errorf("stripJSONFences(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDegradedScript(t *testing.T) {
	raw := strings.Repeat("x", 150)
	script := degradedScript(raw, "finance")

	if script.Script != raw {
		t.Error("degraded script should keep the raw text")
	}
	if len([]rune(script.Hook)) != degradedHookLength {
		t.Errorf("hook length = %d, want %d", len([]rune(script.Hook)), degradedHookLength)
	}
	if script.DurationSeconds != degradedDurationSecs {
		t.Errorf("duration = %d, want %d", script.DurationSeconds, degradedDurationSecs)
	}
	if len(script.Hashtags) != 2 {
		t.Errorf("hashtags = %v, want the two defaults", script.Hashtags)
	}
	if !strings.Contains(script.Title, "finance") {
		t.Errorf("title %q should reference the niche", script.Title)
	}
}

func TestFirstN(t *testing.T) {
	if got := firstN("hello", 10); got != "hello" {
		t.Errorf("firstN short input = %q", got)
	}
	if got := firstN("hello world", 5); got != "hello" {
		t.Errorf("firstN truncation = %q", got)
	}
	// Multibyte runes must not be split
	if got := firstN("héllo", 2); got != "hé" {
		t.Errorf("firstN multibyte = %q", got)
	}
}

func TestFallbackImagePrompts(t *testing.T) {
	script := &models.Script{Title: "Why cats rule"}
	prompts := fallbackImagePrompts(script, 3)

	if len(prompts) != 3 {
		t.Fatalf("got %d prompts, want 3", len(prompts))
	}
	for i, p := range prompts {
		if !strings.Contains(p, "Why cats rule") {
			t.Errorf("prompt %d missing title: %q", i, p)
		}
	}
	if prompts[0] == prompts[1] {
		t.Error("prompts should vary by scene")
	}
}

func TestBuildScriptPrompt(t *testing.T) {
	prompt := buildScriptPrompt("fitness", "energetic", "reference transcript here")

	for _, want := range []string{"fitness", "energetic", "reference transcript here", "JSON"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	noRef := buildScriptPrompt("fitness", "", "")
	if strings.Contains(noRef, "REFERENCE") {
		t.Error("prompt should omit reference block when no reference given")
	}
}
