package llm

import (
	"testing"
)

func TestParseModel(t *testing.T) {
	tests := []struct {
		name         string
		modelStr     string
		wantProvider string
		wantModel    string
		wantErr      bool
	}{
		{
			name:         "claude-haiku with version",
			modelStr:     "claude-haiku-4-5-20251001",
			wantProvider: "anthropic",
			wantModel:    "claude-haiku-4-5-20251001",
		},
		{
			name:         "gemini model",
			modelStr:     "gemini-1.5-flash",
			wantProvider: "gemini",
			wantModel:    "gemini-1.5-flash",
		},
		{
			name:         "lorem model",
			modelStr:     "lorem-fast",
			wantProvider: "lorem",
			wantModel:    "lorem-fast",
		},
		{
			name:         "explicit provider",
			modelStr:     "gemini/gemini-1.5-pro",
			wantProvider: "gemini",
			wantModel:    "gemini-1.5-pro",
		},
		{
			name:     "empty string",
			modelStr: "",
			wantErr:  true,
		},
		{
			name:     "unknown prefix",
			modelStr: "gpt-4",
			wantErr:  true,
		},
		{
			name:     "empty provider",
			modelStr: "/claude-haiku-4-5",
			wantErr:  true,
		},
		{
			name:     "empty model",
			modelStr: "anthropic/",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseModel(tt.modelStr)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseModel(%q) expected error, got nil", tt.modelStr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseModel(%q) unexpected error: %v", tt.modelStr, err)
			}
			if got.Provider != tt.wantProvider {
				t.Errorf("Provider = %q, want %q", got.Provider, tt.wantProvider)
			}
			if got.Model != tt.wantModel {
				t.Errorf("Model = %q, want %q", got.Model, tt.wantModel)
			}
		})
	}
}

func TestResolveModel_ExplicitProviderWins(t *testing.T) {
	got, err := ResolveModel("lorem", "claude-haiku-4-5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Provider != "lorem" {
		t.Errorf("Provider = %q, want lorem", got.Provider)
	}

	got, err = ResolveModel("", "gemini-1.5-flash")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Provider != "gemini" {
		t.Errorf("Provider = %q, want gemini", got.Provider)
	}
}
