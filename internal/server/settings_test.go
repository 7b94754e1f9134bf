package server

import (
	"strings"
	"testing"
	"time"
)

func TestLoadSettings_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "key")

	settings, err := LoadSettings()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Port != "3000" {
		t.Fatalf("expected default port 3000, got %q", settings.Port)
	}
	if settings.RequestTimeout != 90*time.Second {
		t.Fatalf("expected 90s timeout, got %v", settings.RequestTimeout)
	}
	if settings.AIAdapter != "openai" || settings.KnowledgeSource != "file" || settings.Matcher != "contains" {
		t.Fatalf("unexpected defaults: %+v", settings)
	}
	if settings.AIKey != "key" {
		t.Fatalf("expected key from GEMINI_API_KEY, got %q", settings.AIKey)
	}
}

func TestLoadSettings_FallsBackToChatKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("AI_CHAT_KEY", "other")

	settings, err := LoadSettings()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.AIKey != "other" {
		t.Fatalf("expected AI_CHAT_KEY, got %q", settings.AIKey)
	}
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "missing key",
			env:  map[string]string{"GEMINI_API_KEY": "", "AI_CHAT_KEY": ""},
			want: "missing GEMINI_API_KEY",
		},
		{
			name: "unknown adapter",
			env:  map[string]string{"GEMINI_API_KEY": "key", "AI_ADAPTER": "bard"},
			want: "invalid AIAdapter",
		},
		{
			name: "s3 without bucket",
			env:  map[string]string{"GEMINI_API_KEY": "key", "KNOWLEDGE_SOURCE": "s3", "AWS_BUCKET": ""},
			want: "missing AWS_BUCKET",
		},
		{
			name: "ollama without model",
			env:  map[string]string{"AI_ADAPTER": "ollama", "AI_CHAT_MODEL": ""},
			want: "missing AI_CHAT_MODEL",
		},
		{
			name: "bad port",
			env:  map[string]string{"GEMINI_API_KEY": "key", "PORT": "http"},
			want: "invalid Port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			_, err := LoadSettings()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
