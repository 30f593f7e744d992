package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	config "github.com/chrisrehm/theo/configs"
	"github.com/chrisrehm/theo/internal/models"
)

const analyzerModel = "gemini-2.0-flash"

// AnalyzerService generates titles and descriptions for paintings by
// sending the image to Gemini's vision model.
type AnalyzerService interface {
	IsConfigured() bool
	GenerateTitles(ctx context.Context, imagePath string) ([]string, error)
	GenerateDescription(ctx context.Context, imagePath string, p *models.Painting) (string, error)
}

type analyzerService struct {
	apiKey  string
	limiter *rate.Limiter
}

func NewAnalyzerService(cfg config.Config) AnalyzerService {
	return &analyzerService{
		apiKey: cfg.GeminiAPIKey,
		// Free-tier Gemini allows 15 requests per minute.
		limiter: rate.NewLimiter(rate.Limit(0.25), 1),
	}
}

func (s *analyzerService) IsConfigured() bool {
	return s.apiKey != ""
}

func (s *analyzerService) generate(ctx context.Context, imagePath, prompt string) (string, error) {
	if !s.IsConfigured() {
		return "", fmt.Errorf("GEMINI_API_KEY not set")
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return "", fmt.Errorf("creating Gemini client: %w", err)
	}
	defer client.Close()

	data, _, err := readImage(imagePath)
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}
	format := strings.TrimPrefix(filepath.Ext(imagePath), ".")
	if format == "jpg" || format == "" {
		format = "jpeg"
	}

	model := client.GenerativeModel(analyzerModel)
	resp, err := model.GenerateContent(ctx, genai.ImageData(format, data), genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from model")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// GenerateTitles asks the model for ten candidate titles and parses the
// JSON array out of the reply, code fences and all.
func (s *analyzerService) GenerateTitles(ctx context.Context, imagePath string) ([]string, error) {
	raw, err := s.generate(ctx, imagePath, config.TitleGenerationPrompt)
	if err != nil {
		return nil, err
	}

	cleaned := stripCodeFence(raw)
	var titles []string
	if err := json.Unmarshal([]byte(cleaned), &titles); err != nil {
		return nil, fmt.Errorf("parsing title list: %w (got %q)", err, raw)
	}
	out := titles[:0]
	for _, t := range titles {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("model returned no titles")
	}
	return out, nil
}

func (s *analyzerService) GenerateDescription(ctx context.Context, imagePath string, p *models.Painting) (string, error) {
	notes := ""
	if p.Collection != "" {
		notes = fmt.Sprintf("It belongs to the %q collection.", p.Collection)
	}
	prompt := fmt.Sprintf(config.DescriptionGenerationPrompt,
		p.DisplayTitle(), p.Medium, p.Dimensions.Formatted, p.Category, notes)
	return s.generate(ctx, imagePath, prompt)
}

// stripCodeFence removes a surrounding markdown code fence, with or without
// a language tag, from a model reply.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 && !strings.ContainsAny(s[:idx], "[{") {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
