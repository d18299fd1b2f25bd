package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OpenAIExtractor asks a chat-completions model to pull food names and
// quantities out of a transcript.
type OpenAIExtractor struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewOpenAIExtractor(apiKey, baseURL, model string) *OpenAIExtractor {
	return &OpenAIExtractor{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

const extractionSystemPrompt = "You are a helpful assistant that parses food information from spoken text. Always return valid JSON only, no additional text."

func buildExtractionPrompt(text string) string {
	var b strings.Builder
	b.WriteString("You are parsing voice input to search for foods in a database. Extract the FOOD NAME and, when mentioned, the amount and unit.\n\n")
	fmt.Fprintf(&b, "Spoken text: %q\n\n", text)
	b.WriteString("Return ONLY valid JSON (no markdown, no explanations).\n\n")
	b.WriteString("If it is a change command (contains \"change\", \"replace\" or \"swap\"):\n")
	b.WriteString(`{"command": "change", "from": "original food name", "to": "new food name"}` + "\n\n")
	b.WriteString("Otherwise one object per food, as an array when several foods are named (\"and\", \"&\"):\n")
	b.WriteString(`[{"name": "Food 1", "baseAmount": 100, "baseUnit": "grams"}, {"name": "Food 2", "baseAmount": 1, "baseUnit": "servings"}]` + "\n\n")
	b.WriteString("RULES:\n")
	b.WriteString("1. Capitalise the food name properly; it is used for the database search.\n")
	b.WriteString("2. baseUnit is one of grams, ml, servings. Counted items are servings.\n")
	b.WriteString("3. Leave baseAmount and baseUnit null when the text does not say.\n")
	b.WriteString("4. Do not include calories or protein.\n\n")
	b.WriteString("EXAMPLES:\n")
	b.WriteString(`"2 apples" -> {"name": "Apple", "baseAmount": 2, "baseUnit": "servings"}` + "\n")
	b.WriteString(`"200 grams chicken breast" -> {"name": "Chicken Breast", "baseAmount": 200, "baseUnit": "grams"}` + "\n")
	b.WriteString(`"250ml skinny flat white" -> {"name": "Skinny Flat White", "baseAmount": 250, "baseUnit": "ml"}` + "\n")
	b.WriteString(`"swap the rice for quinoa" -> {"command": "change", "from": "Rice", "to": "Quinoa"}` + "\n")
	return b.String()
}

// Extract returns the model's message content untouched; parsing is the
// resolver's job.
func (e *OpenAIExtractor) Extract(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: e.model,
		Messages: []chatMessage{
			{Role: "system", Content: extractionSystemPrompt},
			{Role: "user", Content: buildExtractionPrompt(text)},
		},
		Temperature: 0.3,
		MaxTokens:   500,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call model: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model request failed with status %d: %s", resp.StatusCode, truncate(string(data), 300))
	}

	var out chatResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
