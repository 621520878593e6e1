package processor

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const titleModel = "gemini-2.5-pro-preview-03-25"

// GenerateTitle asks Gemini for a short session title from the opening
// exchange. Called off the request path; failures leave the default title.
func (p *ChatProcessor) GenerateTitle(ctx context.Context, userMsg, assistantMsg string) (string, error) {
	prompt := fmt.Sprintf(`
Dada la siguiente conversación, genera un título corto y descriptivo (máximo 6 palabras). Sin comillas.

Usuario: %s
Asistente: %s

Título:`, userMsg, assistantMsg)

	c, err := genai.NewClient(ctx, option.WithAPIKey(p.geminiAPIKey))
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer c.Close()

	model := c.GenerativeModel(titleModel)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate title: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no title returned from Gemini")
	}

	part, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response format")
	}
	return strings.TrimSpace(string(part)), nil
}
