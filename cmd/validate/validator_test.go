package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeContent(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

const validQuestions = `[{
  "id": "first_band",
  "ageRange": [15, 20],
  "text": "Friends want to start a band.",
  "options": [
    {"text": "Join as singer", "effects": {"vocals": 1}, "unlocks": ["in_band"]},
    {"text": "Stay solo", "requires": {"excludeFlags": ["in_band"]}, "effects": {"creativity": 1}}
  ]
}]`

func TestValidateFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		data    string
		wantErr string
	}{
		{name: "valid", file: "questions.json", data: validQuestions},
		{
			name: "valid yaml wrapped",
			file: "questions.yaml",
			data: "questions:\n  - id: hum\n    ageRange: [15, 16]\n    text: Hum a tune?\n    options:\n      - text: Sure\n",
		},
		{name: "bad extension", file: "questions.txt", data: validQuestions, wantErr: "extension"},
		{name: "unknown collection", file: "quests.json", data: validQuestions, wantErr: "named after a collection"},
		{name: "invalid json", file: "questions.json", data: `[{`, wantErr: "invalid JSON"},
		{name: "unknown field", file: "questions.json", data: `[{"id": "a", "ageRange": [15, 16], "text": "t", "options": [{"text": "o"}], "mood": "sad"}]`, wantErr: "strict"},
		{name: "unknown wrapper key", file: "questions.json", data: `{"items": []}`, wantErr: "top-level key"},
		{name: "bad id", file: "questions.json", data: strings.Replace(validQuestions, "first_band", "First-Band", 1), wantErr: "snake_case"},
		{name: "unknown stat", file: "questions.json", data: strings.Replace(validQuestions, `"excludeFlags": ["in_band"]`, `"minStats": {"swagger": 3}`, 1), wantErr: "unknown stat"},
		{name: "empty requires", file: "questions.json", data: strings.Replace(validQuestions, `"excludeFlags": ["in_band"]`, ``, 1), wantErr: "empty 'requires'"},
		{name: "malformed content", file: "questions.json", data: strings.Replace(validQuestions, "[15, 20]", "[20, 15]", 1), wantErr: "inverted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeContent(t, t.TempDir(), tt.file, tt.data)
			err := (&ContentValidator{}).validateFile(path)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("validateFile() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("validateFile() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath_Directory(t *testing.T) {
	dir := t.TempDir()
	writeContent(t, dir, "questions.json", validQuestions)
	if err := (&ContentValidator{}).validatePath(dir); err != nil {
		t.Errorf("validatePath() error = %v", err)
	}

	if err := (&ContentValidator{}).validatePath(t.TempDir()); err == nil {
		t.Error("expected error for empty directory")
	}
}

func TestValidatePath_ShippedContent(t *testing.T) {
	if err := (&ContentValidator{}).validatePath("../../data"); err != nil {
		t.Errorf("shipped content failed validation: %v", err)
	}
}

func TestIsValidID(t *testing.T) {
	tests := map[string]bool{
		"a":          true,
		"open_mic":   true,
		"gig2":       true,
		"Open_Mic":   false,
		"open-mic":   false,
		"trailing_":  false,
		"2nd_chance": false,
	}
	for id, want := range tests {
		if got := isValidID(id); got != want {
			t.Errorf("isValidID(%q) = %v, want %v", id, got, want)
		}
	}
}
