package ai

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Client talks to an OpenAI-compatible API for blog draft and cover image
// generation.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

var GlobalClient *Client

func InitClient(apiKey string) error {
	client, err := NewClient(apiKey)
	if err != nil {
		return err
	}
	GlobalClient = client
	return nil
}

func NewClient(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("AI API key is required")
	}

	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		http:    &http.Client{Timeout: 90 * time.Second},
	}, nil
}

type BlogDraft struct {
	Title           string `json:"title"`
	MetaDescription string `json:"meta_description"`
	Content         string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Message string `json:"message"`
}

const draftSystemPrompt = `You are a content writer for a Thai real-estate brokerage.
Write an informative, SEO-friendly blog post in English for property buyers and investors.
Respond with a JSON object with exactly these keys:
"title" (30-65 characters, includes the primary keyword),
"meta_description" (120-156 characters),
"content" (at least 600 words of HTML using <h2>, <p> and <ul> only).`

// GenerateBlogDraft asks the model for a post on the topic. The first
// keyword is treated as primary.
func (c *Client) GenerateBlogDraft(topic string, keywords []string) (*BlogDraft, error) {
	userPrompt := fmt.Sprintf("Topic: %s\nPrimary keyword: %s\nSecondary keywords: %s",
		topic, first(keywords), strings.Join(rest(keywords), ", "))

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: draftSystemPrompt},
			{Role: "user", Content: userPrompt},
		},
		ResponseFormat: &respFormat{Type: "json_object"},
	}

	var out chatResponse
	if err := c.post("/chat/completions", reqBody, &out); err != nil {
		return nil, err
	}
	if out.Error != nil {
		return nil, fmt.Errorf("AI API error: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("AI API returned no choices")
	}

	draft := new(BlogDraft)
	if err := json.Unmarshal([]byte(out.Choices[0].Message.Content), draft); err != nil {
		return nil, fmt.Errorf("could not parse draft JSON: %v", err)
	}
	if draft.Title == "" || draft.Content == "" {
		return nil, fmt.Errorf("AI draft is missing title or content")
	}

	return draft, nil
}

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

type imageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *apiError `json:"error"`
}

// GenerateCoverImage returns PNG bytes for a blog cover.
func (c *Client) GenerateCoverImage(prompt string) (*bytes.Buffer, error) {
	reqBody := imageRequest{
		Model:          "dall-e-3",
		Prompt:         prompt,
		N:              1,
		Size:           "1792x1024",
		ResponseFormat: "b64_json",
	}

	var out imageResponse
	if err := c.post("/images/generations", reqBody, &out); err != nil {
		return nil, err
	}
	if out.Error != nil {
		return nil, fmt.Errorf("AI API error: %s", out.Error.Message)
	}
	if len(out.Data) == 0 {
		return nil, fmt.Errorf("AI API returned no image data")
	}

	raw, err := base64.StdEncoding.DecodeString(out.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("could not decode image data: %v", err)
	}

	return bytes.NewBuffer(raw), nil
}

func (c *Client) post(path string, body interface{}, out interface{}) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("error marshaling request: %v", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %v", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("AI API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return json.Unmarshal(respBody, out)
}

func first(keywords []string) string {
	if len(keywords) == 0 {
		return ""
	}
	return keywords[0]
}

func rest(keywords []string) []string {
	if len(keywords) < 2 {
		return nil
	}
	return keywords[1:]
}
