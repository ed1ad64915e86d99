package content

import (
	"context"
	"strings"

	sderrors "smiledesk/internal/errors"
	"smiledesk/internal/models"

	"google.golang.org/genai"
)

// Generator produces marketing post drafts.
type Generator interface {
	GeneratePost(ctx context.Context, platform models.Platform, topic string) (string, error)
}

// geminiGenerator implements Generator on the Google GenAI SDK.
type geminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator builds a generator against the Gemini API.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (Generator, error) {
	if apiKey == "" {
		return nil, sderrors.New(sderrors.ErrCodeMissingConfig, "content generation requires an API key")
	}
	if model == "" {
		return nil, sderrors.New(sderrors.ErrCodeMissingConfig, "content generation requires a model name")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, sderrors.Wrap(err, sderrors.ErrCodeLLMGeneration, "failed to create GenAI client")
	}

	return &geminiGenerator{client: client, model: model}, nil
}

func (g *geminiGenerator) GeneratePost(ctx context.Context, platform models.Platform, topic string) (string, error) {
	prompt := []*genai.Content{
		{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: buildPrompt(platform, topic)}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, prompt, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
	})
	if err != nil {
		return "", sderrors.Wrap(err, sderrors.ErrCodeLLMGeneration, "failed to call Gemini API")
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", sderrors.New(sderrors.ErrCodeLLMGeneration, "no response candidates returned from Gemini")
	}

	var builder strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Text == "" {
			continue
		}
		builder.WriteString(part.Text)
	}

	body := strings.TrimSpace(builder.String())
	if body == "" {
		return "", sderrors.New(sderrors.ErrCodeLLMGeneration, "Gemini returned an empty draft")
	}
	return body, nil
}
