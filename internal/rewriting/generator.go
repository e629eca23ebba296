package rewriting

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/xeipuuv/gojsonschema"
	"google.golang.org/api/option"

	"github.com/jonathan/resume-aligner/internal/types"
)

// DefaultGenerationModel is the Gemini model used for rewriting when none is
// configured.
const DefaultGenerationModel = "gemini-2.0-flash"

// responseSchema validates the generator's JSON output before it is trusted.
const responseSchema = `{
	"type": "object",
	"properties": {
		"bullets": {
			"type": "array",
			"items": {"type": "string"}
		}
	},
	"required": ["bullets"]
}`

// Request carries one section's content and its rewrite plan to a generator.
type Request struct {
	Section types.SectionType `json:"section"`
	Bullets []string          `json:"bullets"`
	Plan    *Plan             `json:"plan"`
}

// Response is the generator's rewritten content.
type Response struct {
	Bullets []string `json:"bullets"`
}

// Generator is the external text-generation collaborator. The engine only
// ever hands it an instruction payload; implementations own the prose.
type Generator interface {
	Rewrite(ctx context.Context, req *Request) (*Response, error)
	Close() error
}

// GeminiGenerator implements Generator with the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini-backed generator.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultGenerationModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Rewrite asks the model to rewrite the section's bullets per the plan and
// validates the response shape before returning it.
func (g *GeminiGenerator) Rewrite(ctx context.Context, req *Request) (*Response, error) {
	prompt, err := buildRewritePrompt(req)
	if err != nil {
		return nil, err
	}

	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.3) // Low temperature for consistent output
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return nil, err
	}
	return ParseResponse(CleanJSONBlock(text))
}

// Close releases the underlying client.
func (g *GeminiGenerator) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// ParseResponse validates raw generator JSON against the response schema and
// decodes it. Fabricated or malformed output is rejected before any caller
// sees it.
func ParseResponse(raw string) (*Response, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(responseSchema),
		gojsonschema.NewStringLoader(raw),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to validate generator response: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("generator response failed schema validation: %s", strings.Join(msgs, "; "))
	}

	var out Response
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("failed to parse generator response: %w", err)
	}
	return &out, nil
}

// buildRewritePrompt serializes the request into a strict instruction prompt.
func buildRewritePrompt(req *Request) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal rewrite request: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("You are an expert technical resume editor. ")
	sb.WriteString("Rewrite the bullets below to work in the target keywords without inventing experience.\n\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("- Work each keyword of target_keyword_distribution into the bullets the indicated number of times, highest priority_order first.\n")
	sb.WriteString(fmt.Sprintf("- Never place more than %d new keywords in a single bullet.\n", req.Plan.MaxPerBullet))
	sb.WriteString("- Preserve factual content; do not invent tools, numbers, or employers.\n")
	sb.WriteString(fmt.Sprintf("- Write in a %s style.\n", req.Plan.Style))
	sb.WriteString("- Return ONLY a JSON object of the form {\"bullets\": [\"...\"]}, no markdown, no explanation.\n\n")
	sb.WriteString("DATA:\n")
	sb.Write(payload)
	return sb.String(), nil
}

// extractTextFromResponse flattens the text parts of a Gemini response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text content in model response")
	}
	return sb.String(), nil
}

// CleanJSONBlock removes markdown code block wrappers from JSON responses.
// Models often wrap JSON in ```json blocks even when instructed not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
