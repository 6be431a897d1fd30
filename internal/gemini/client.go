package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"studio-space/internal/normalize"
)

const (
	modelText  = "gemini-3-pro-preview"
	modelImage = "gemini-2.5-flash-image"
)

var (
	// ErrMissingAPIKey is returned before any network I/O is attempted.
	ErrMissingAPIKey = errors.New("gemini api key is missing")
	// ErrRefused means the model replied with a textual decline instead
	// of the requested content.
	ErrRefused = errors.New("model refused the request")
	// ErrNoImage means the image call succeeded at transport level but
	// carried no image payload.
	ErrNoImage = errors.New("model returned no image")
)

type Options struct {
	APIKey     string
	BaseURL    string
	APIVersion string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

type Client struct {
	apiKey     string
	baseURL    string
	apiVersion string
	httpClient *http.Client
	logger     *slog.Logger
}

type ImageInput struct {
	DataBase64 string
	MimeType   string
}

type CompleteOptions struct {
	// Structured asks the API for a JSON response body.
	Structured  bool
	Temperature float64
}

func New(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}

	apiVersion := strings.TrimSpace(opts.APIVersion)
	if apiVersion == "" {
		apiVersion = "v1beta"
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		apiKey:     opts.APIKey,
		baseURL:    baseURL,
		apiVersion: apiVersion,
		httpClient: opts.HTTPClient,
		logger:     logger,
	}
}

// Complete sends one text (optionally multimodal) instruction block and
// returns the raw response text. The caller owns parsing.
func (c *Client) Complete(ctx context.Context, instructions string, images []ImageInput, opts CompleteOptions) (string, error) {
	instructions = strings.TrimSpace(instructions)
	if instructions == "" {
		return "", errors.New("instructions are empty")
	}

	parts := []part{{Text: instructions}}
	for _, img := range images {
		parts = append(parts, part{
			InlineData: &blob{
				Data:     stripDataURLPrefix(img.DataBase64),
				MimeType: img.MimeType,
			},
		})
	}

	temperature := opts.Temperature
	if temperature == 0 {
		temperature = 0.7
	}

	req := generateContentRequest{
		Contents: []content{{Role: "user", Parts: parts}},
		GenerationConfig: generationConfig{
			Temperature: temperature,
		},
	}
	if opts.Structured {
		req.GenerationConfig.ResponseMimeType = "application/json"
	}

	resp, err := c.generateContent(ctx, modelText, req)
	if err != nil && opts.Structured && isUnknownFieldError(err, "responseMimeType") {
		req.GenerationConfig.ResponseMimeType = ""
		resp, err = c.generateContent(ctx, modelText, req)
	}
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// GenerateImage issues one image-generation call and returns the result as
// a data URL. A text-only reply that reads like a decline maps to
// ErrRefused; a text-only reply that does not still fails with ErrNoImage.
func (c *Client) GenerateImage(ctx context.Context, prompt string, aspectRatio string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt is empty")
	}

	aspectRatio = strings.TrimSpace(aspectRatio)
	if aspectRatio == "" {
		aspectRatio = "16:9"
	}

	req := generateContentRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"IMAGE"},
			ImageConfig:        &imageConfig{AspectRatio: aspectRatio},
		},
	}

	resp, err := c.generateContent(ctx, modelImage, req)
	if err != nil && req.GenerationConfig.ImageConfig != nil {
		if isUnknownFieldError(err, "imageConfig") {
			req.GenerationConfig.ImageConfig = nil
			resp, err = c.generateContent(ctx, modelImage, req)
		}
	}
	if err != nil {
		return "", err
	}

	if len(resp.Images) == 0 {
		if normalize.LooksLikeRefusal(resp.Text) {
			return "", fmt.Errorf("%w: %s", ErrRefused, strings.TrimSpace(resp.Text))
		}
		return "", ErrNoImage
	}
	return resp.Images[0], nil
}

func (c *Client) generateContent(ctx context.Context, model string, payload generateContentRequest) (Response, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return Response{}, ErrMissingAPIKey
	}
	if c.httpClient == nil {
		return Response{}, errors.New("http client is nil")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Response{}, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/models/%s:generateContent", c.baseURL, c.apiVersion, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("request: %w", err)
	}
	defer httpResp.Body.Close()

	rawBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode >= 400 {
		return Response{}, fmt.Errorf("gemini API %s: %s", httpResp.Status, strings.TrimSpace(string(rawBody)))
	}

	var decoded generateContentResponse
	if err := json.Unmarshal(rawBody, &decoded); err != nil {
		return Response{}, fmt.Errorf("decode response: %w", err)
	}

	text, images := extractParts(decoded)
	return Response{
		Text:   text,
		Images: images,
	}, nil
}

func extractParts(resp generateContentResponse) (string, []string) {
	if len(resp.Candidates) == 0 {
		return "", nil
	}

	var textBuilder strings.Builder
	var images []string

	for _, p := range resp.Candidates[0].Content.Parts {
		if p.Text != "" {
			textBuilder.WriteString(p.Text)
		}
		if p.InlineData != nil && p.InlineData.Data != "" && p.InlineData.MimeType != "" {
			images = append(images, fmt.Sprintf("data:%s;base64,%s", p.InlineData.MimeType, p.InlineData.Data))
		}
	}

	return textBuilder.String(), images
}

func stripDataURLPrefix(value string) string {
	if idx := strings.IndexByte(value, ','); idx >= 0 {
		return value[idx+1:]
	}
	return value
}

func isUnknownFieldError(err error, field string) bool {
	message := err.Error()
	return strings.Contains(message, "Unknown name") && strings.Contains(message, field)
}
