package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"google.golang.org/api/option"
)

const DefaultGeminiModel = "gemini-1.5-flash"

type GeminiBackend struct {
	client *genai.Client
	model  string
}

func NewGeminiBackend(ctx context.Context, apiKey, model string) (*GeminiBackend, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if model == "" {
		model = DefaultGeminiModel
	}

	return &GeminiBackend{client: client, model: model}, nil
}

func (g *GeminiBackend) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func (g *GeminiBackend) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.2)

	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(text, targetLanguage)))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response from Gemini")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			out.WriteString(string(t))
		}
	}

	return strings.TrimSpace(out.String()), nil
}

func buildPrompt(text, targetLanguage string) string {
	return fmt.Sprintf(`Translate the text below into %s.
Keep product and company names unchanged.
Reply with the translation only.

%s`, LanguageName(targetLanguage), text)
}

// LanguageName returns the English name of a BCP 47 tag, or the tag itself
// when it cannot be parsed.
func LanguageName(tag string) string {
	parsed, err := language.Parse(tag)
	if err != nil {
		return tag
	}
	if name := display.English.Tags().Name(parsed); name != "" {
		return name
	}
	return tag
}
