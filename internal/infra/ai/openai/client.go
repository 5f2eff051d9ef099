package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/image-lens/internal/domain/analysis"
	"github.com/bryanwahyu/image-lens/internal/infra/ai/prompt"
)

const maxTokens = 2048

// Client implements analysis.Analyzer with vision chat completions. Each
// aspect is one request; nothing is retried.
type Client struct {
	*openai.Client
	Model         string
	MinConfidence float64
	MaxLabels     int
}

func NewClient(apiKey, model, baseURL string, minConfidence float64, maxLabels int) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		Client:        openai.NewClientWithConfig(cfg),
		Model:         model,
		MinConfidence: minConfidence,
		MaxLabels:     maxLabels,
	}
}

var _ analysis.Analyzer = (*Client)(nil)

func (c *Client) DetectLabels(ctx context.Context, image []byte) ([]analysis.Label, error) {
	var out struct {
		Labels []analysis.Label `json:"labels"`
	}
	if err := c.ask(ctx, prompt.LabelsPrompt(c.MinConfidence, c.MaxLabels), image, &out); err != nil {
		return nil, &analysis.Error{Op: analysis.OpDetectLabels, Err: err}
	}
	// the model does not reliably honour the thresholds in the prompt
	return analysis.FilterLabels(out.Labels, c.MinConfidence, c.MaxLabels), nil
}

func (c *Client) DetectText(ctx context.Context, image []byte) ([]analysis.TextDetection, error) {
	var out struct {
		Text []analysis.TextDetection `json:"text"`
	}
	if err := c.ask(ctx, prompt.TextPrompt(), image, &out); err != nil {
		return nil, &analysis.Error{Op: analysis.OpDetectText, Err: err}
	}
	if out.Text == nil {
		out.Text = []analysis.TextDetection{}
	}
	return out.Text, nil
}

func (c *Client) DetectFaces(ctx context.Context, image []byte) ([]analysis.Face, error) {
	var out struct {
		Faces []analysis.Face `json:"faces"`
	}
	if err := c.ask(ctx, prompt.FacesPrompt(), image, &out); err != nil {
		return nil, &analysis.Error{Op: analysis.OpDetectFaces, Err: err}
	}
	if out.Faces == nil {
		out.Faces = []analysis.Face{}
	}
	return out.Faces, nil
}

func (c *Client) ask(ctx context.Context, instruction string, image []byte, dst any) error {
	if len(image) == 0 {
		return errors.New("empty image")
	}
	model := c.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.SystemPrompt()},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: instruction},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL(image),
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		if isQuota(err) {
			return fmt.Errorf("%w: %v", analysis.ErrQuotaExceeded, err)
		}
		return fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return errors.New("empty completion")
	}

	return decode(resp.Choices[0].Message.Content, dst)
}

// decode accepts the completion as JSON, tolerating code fences and the
// small syntax slips models make (trailing commas, unquoted keys).
func decode(content string, dst any) error {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	err := json.Unmarshal([]byte(content), dst)
	if err == nil {
		return nil
	}
	fixed, rerr := jsonrepair.JSONRepair(content)
	if rerr != nil {
		return fmt.Errorf("decode completion: %w", err)
	}
	if err := json.Unmarshal([]byte(fixed), dst); err != nil {
		return fmt.Errorf("decode completion: %w", err)
	}
	return nil
}

func dataURL(image []byte) string {
	return "data:" + http.DetectContentType(image) + ";base64," + base64.StdEncoding.EncodeToString(image)
}

func isQuota(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	return false
}
