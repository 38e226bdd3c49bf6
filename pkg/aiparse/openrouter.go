// Package aiparse calls OpenRouter vision models to read medical documents.
// The caller supplies the prompt; this package handles content preparation,
// the chat-completions call, and pulling JSON out of the model's reply.
package aiparse

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	refererHeader = "https://medvault.app"
	titleHeader   = "MedVault"
)

// Client talks to the OpenRouter chat-completions API.
type Client struct {
	apiURL string
	apiKey string
	model  string
	http   *http.Client
}

func NewClient(apiURL, apiKey, model string) *Client {
	return &Client{
		apiURL: apiURL,
		apiKey: apiKey,
		model:  model,
		http:   &http.Client{Timeout: 90 * time.Second},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Classify sends the document with a short prompt and returns the model's
// reply trimmed and lowercased, for type-detection style calls.
func (c *Client) Classify(ctx context.Context, prompt string, fileContent []byte, isPdf bool) (string, error) {
	reply, err := c.complete(ctx, prompt, fileContent, isPdf, 100)
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(reply)), nil
}

// ParseJSON sends the document with an extraction prompt and decodes the
// JSON object from the model's reply into a generic map.
func (c *Client) ParseJSON(ctx context.Context, prompt string, fileContent []byte, isPdf bool) (map[string]interface{}, error) {
	reply, err := c.complete(ctx, prompt, fileContent, isPdf, 4000)
	if err != nil {
		return nil, err
	}
	parsed, err := extractJSON(reply)
	if err != nil {
		return nil, fmt.Errorf("model reply is not valid JSON: %w", err)
	}
	return parsed, nil
}

func (c *Client) complete(ctx context.Context, prompt string, fileContent []byte, isPdf bool, maxTokens int) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("no API key configured")
	}

	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: prompt},
				{Type: "image_url", ImageURL: &imageURL{URL: dataURL(fileContent, isPdf)}},
			},
		}},
		MaxTokens:   maxTokens,
		Temperature: 0.1,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("HTTP-Referer", refererHeader)
	httpReq.Header.Set("X-Title", titleHeader)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("openrouter returned %d: %s", resp.StatusCode, string(errBody))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode openrouter response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openrouter response has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// dataURL base64-encodes the file with a MIME type sniffed from its magic
// bytes, defaulting to JPEG for unrecognized images.
func dataURL(content []byte, isPdf bool) string {
	mime := "image/jpeg"
	switch {
	case isPdf:
		mime = "application/pdf"
	case len(content) >= 8 && bytes.Equal(content[:8], []byte("\x89PNG\r\n\x1a\n")):
		mime = "image/png"
	case len(content) >= 2 && bytes.Equal(content[:2], []byte{0xff, 0xd8}):
		mime = "image/jpeg"
	case len(content) >= 12 && bytes.Equal(content[:4], []byte("RIFF")) && bytes.Equal(content[8:12], []byte("WEBP")):
		mime = "image/webp"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(content)
}

var jsonObjectPattern = regexp.MustCompile(`\{[\s\S]*\}`)

// extractJSON parses the reply directly, then falls back to the first JSON
// object embedded in surrounding prose or code fences.
func extractJSON(content string) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(content), &out); err == nil {
		return out, nil
	}
	match := jsonObjectPattern.FindString(content)
	if match == "" {
		return nil, fmt.Errorf("no JSON object in reply")
	}
	if err := json.Unmarshal([]byte(match), &out); err != nil {
		return nil, err
	}
	return out, nil
}
