package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/ports"
)

const (
	defaultScriptModel = "gemini-1.5-flash"
	defaultTemp        = 0.7
	maxOutputTokens    = 1024
)

func toPtr[T any](v T) *T {
	return &v
}

// GeminiClient implements ScriptGeneratorPort ด้วย Google Gemini
type GeminiClient struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

func NewGeminiClient(apiKey, model string) (*GeminiClient, error) {
	if model == "" {
		model = defaultScriptModel
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  model,
		logger: slog.Default().With("component", "gemini"),
	}, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// GenerateScript สร้าง marketing script จากข้อมูล product
func (c *GeminiClient) GenerateScript(ctx context.Context, req *ports.ScriptRequest) (string, error) {
	modelName := req.Model
	if modelName == "" {
		modelName = c.model
	}

	model := c.client.GenerativeModel(modelName)
	model.Temperature = toPtr(float32(defaultTemp))
	model.TopP = toPtr(float32(0.95))
	model.MaxOutputTokens = toPtr(int32(maxOutputTokens))

	prompt := buildScriptPrompt(req)

	c.logger.InfoContext(ctx, "Generating marketing script",
		"model", modelName,
		"product", req.ProductName,
		"duration", req.Duration,
	)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	script, err := extractText(resp)
	if err != nil {
		return "", err
	}

	c.logger.InfoContext(ctx, "Marketing script generated",
		"product", req.ProductName,
		"script_len", len(script),
	)

	return script, nil
}

// buildScriptPrompt ประกอบ prompt สำหรับ marketing script
func buildScriptPrompt(req *ports.ScriptRequest) string {
	tone := req.Tone
	if tone == "" {
		tone = "energetic"
	}

	var b strings.Builder
	b.WriteString("Write a short-form marketing video voiceover script for the following product.\n")
	b.WriteString("Rules:\n")
	fmt.Fprintf(&b, "- The script must be speakable within %d seconds (roughly %d words).\n", req.Duration, req.Duration*2)
	fmt.Fprintf(&b, "- Tone: %s.\n", tone)
	b.WriteString("- Plain spoken sentences only. No scene directions, no hashtags, no emoji.\n")
	b.WriteString("- End with a short call to action.\n\n")
	fmt.Fprintf(&b, "Product name: %s\n", req.ProductName)
	fmt.Fprintf(&b, "Description: %s\n", req.ProductDescription)
	if req.Price > 0 {
		fmt.Fprintf(&b, "Price: %.2f\n", req.Price)
	}
	return b.String()
}

// extractText ดึง text จาก gemini response
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	script := strings.TrimSpace(b.String())
	if script == "" {
		return "", fmt.Errorf("gemini response contained no text")
	}

	return script, nil
}

var _ ports.ScriptGeneratorPort = (*GeminiClient)(nil)
