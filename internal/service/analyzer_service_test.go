package service

import (
	"context"
	"os"
	"testing"

	config "github.com/chrisrehm/theo/configs"
)

func TestStripCodeFence(t *testing.T) {
	cases := map[string]string{
		`["One","Two"]`:                  `["One","Two"]`,
		"```json\n[\"One\",\"Two\"]\n```": `["One","Two"]`,
		"```\n[\"One\"]\n```":             `["One"]`,
		"```[1,2]```":                     "[1,2]",
		"  plain text  ":                  "plain text",
	}
	for in, want := range cases {
		if got := stripCodeFence(in); got != want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAnalyzerNotConfigured(t *testing.T) {
	a := NewAnalyzerService(config.Config{})

	if a.IsConfigured() {
		t.Fatal("analyzer must not be configured without an API key")
	}
	if _, err := a.GenerateTitles(context.Background(), "/tmp/nope.jpg"); err == nil {
		t.Fatal("expected error without an API key")
	}
}

func TestGenerateTitlesLive(t *testing.T) {
	if os.Getenv("GEMINI_API_KEY") == "" {
		t.Skip("GEMINI_API_KEY not set")
	}
	image := os.Getenv("TEST_PAINTING_IMAGE")
	if image == "" {
		t.Skip("TEST_PAINTING_IMAGE not set")
	}

	a := NewAnalyzerService(*config.LoadConfig())
	titles, err := a.GenerateTitles(context.Background(), image)
	if err != nil {
		t.Fatalf("GenerateTitles: %v", err)
	}
	if len(titles) == 0 {
		t.Fatal("expected at least one title")
	}
}
