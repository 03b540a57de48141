package openrouter

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"scribebackend/clients"
)

const summarySystemPrompt = `You are an expert assistant that produces concise, well-structured summaries of workplace conversations and documents.

Format the summary as markdown with these sections where applicable:
- A one-paragraph overview
- "## Key Decisions" as a bulleted list
- "## Action Items" as a bulleted list
- "## Skills" as a single line: "Skills: skill1, skill2, ..." naming technical or professional skills demonstrated in the conversation

Keep the summary faithful to the transcript. Do not invent decisions or action items.`

// OpenRouterClient implements the clients.LLMClient interface against any
// OpenAI-compatible chat completions API (OpenRouter, DeepSeek).
type OpenRouterClient struct {
	client *openai.Client
	model  string
}

// NewOpenRouterClient creates a new client for the configured upstream
func NewOpenRouterClient(apiURL, apiKey, model string) clients.LLMClient {
	config := openai.DefaultConfig(apiKey)
	if apiURL != "" {
		config.BaseURL = apiURL
	}

	return &OpenRouterClient{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// GenerateSummary sends the entire transcript as a single prompt and returns
// the structured result. One attempt only; upstream failures surface as-is.
func (c *OpenRouterClient) GenerateSummary(
	ctx context.Context,
	transcript string,
	genCtx *clients.SummaryGenerationContext,
) (*clients.SummaryResult, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(transcript, genCtx)},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("upstream returned no choices")
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("upstream returned an empty summary")
	}

	model := resp.Model
	if model == "" {
		model = c.model
	}

	return &clients.SummaryResult{
		Content:        content,
		Model:          model,
		SkillsDetected: parseSkillsLine(content),
	}, nil
}

func buildUserPrompt(transcript string, genCtx *clients.SummaryGenerationContext) string {
	var b strings.Builder
	if genCtx != nil {
		if genCtx.Title != "" {
			fmt.Fprintf(&b, "Title: %s\n", genCtx.Title)
		}
		if genCtx.ChannelName != "" {
			fmt.Fprintf(&b, "Slack channel: %s\n", genCtx.ChannelName)
		}
		if genCtx.SourceType != "" {
			fmt.Fprintf(&b, "Source: %s\n", genCtx.SourceType)
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
	}
	b.WriteString("Summarize the following transcript:\n\n")
	b.WriteString(transcript)
	return b.String()
}

// parseSkillsLine extracts the "Skills: a, b, c" line the prompt asks for.
// Absence is fine; not every transcript demonstrates skills.
func parseSkillsLine(content string) []string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "*-"))
		if !strings.HasPrefix(strings.ToLower(trimmed), "skills:") {
			continue
		}
		rest := strings.TrimSpace(trimmed[len("skills:"):])
		if rest == "" {
			return nil
		}
		var skills []string
		for _, part := range strings.Split(rest, ",") {
			if skill := strings.TrimSpace(part); skill != "" {
				skills = append(skills, skill)
			}
		}
		return skills
	}
	return nil
}
