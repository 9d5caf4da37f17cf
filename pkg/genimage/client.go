package genimage

import (
	"context"
	"fmt"
	"strings"

	"github.com/easelkit/easel/pkg/errors"
	"github.com/easelkit/easel/pkg/httputil"
)

// DefaultBaseURL is the production endpoint of the generation service.
const DefaultBaseURL = "https://api.easelkit.dev"

// Request describes one expansion job: generate a larger variant of a
// source image, optionally guided by a prompt and a target aspect ratio.
type Request struct {
	SourceURL  string `json:"source_url"`
	Prompt     string `json:"prompt,omitempty"`
	RatioLabel string `json:"ratio_label,omitempty"`
	Model      string `json:"model,omitempty"`
}

// Result is the service's answer to an expansion request.
type Result struct {
	ImageURL   string `json:"image_url"`
	RatioLabel string `json:"ratio_label"`
	Model      string `json:"model,omitempty"`
}

// ModelInfo describes one generation model offered by the service.
type ModelInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Default     bool   `json:"default,omitempty"`
}

// Client calls the generative image service. It handles authentication,
// automatic retries on transient failures, and request validation.
type Client struct {
	http    *httputil.Client
	baseURL string
}

// NewClient creates a generation-service client with optional authentication.
// Pass an empty string for apiKey to use unauthenticated requests (the
// service then serves preview-quality results only).
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	headers := map[string]string{"Accept": "application/json"}
	if apiKey != "" {
		headers["Authorization"] = "Bearer " + apiKey
	}
	return &Client{
		http:    httputil.NewClient(headers),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Expand submits an expansion request and waits for the generated image.
// The request is validated before any network traffic; cancelling ctx
// aborts the call and nothing is returned.
func (c *Client) Expand(ctx context.Context, req Request) (Result, error) {
	if req.SourceURL == "" {
		return Result{}, errors.New(errors.ErrCodeInvalidInput, "source URL is required")
	}
	if err := errors.ValidateURL(req.SourceURL); err != nil {
		return Result{}, err
	}
	if req.RatioLabel != "" {
		if err := errors.ValidateRatioLabel(req.RatioLabel); err != nil {
			return Result{}, err
		}
	}

	var res Result
	if err := c.http.PostJSON(ctx, c.baseURL+"/v1/expand", req, &res); err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeFetchFailed, err, "expansion request failed")
	}
	if res.ImageURL == "" {
		return Result{}, errors.New(errors.ErrCodeInternal, "service returned no image URL")
	}
	return res, nil
}

// Models lists the generation models available to the caller.
func (c *Client) Models(ctx context.Context) ([]ModelInfo, error) {
	var out struct {
		Models []ModelInfo `json:"models"`
	}
	if err := c.http.GetJSON(ctx, c.baseURL+"/v1/models", &out); err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	return out.Models, nil
}
