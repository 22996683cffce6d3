package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/formflow/openai-addon/internal/config"
	"github.com/formflow/openai-addon/internal/models"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Transport performs the blocking upstream call. The real client lives
// behind this so tests and hosts can substitute their own plumbing.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Client is the resty-backed transport against the OpenAI API.
type Client struct {
	http    *resty.Client
	baseURL string
	logger  *zap.Logger
}

// NewClient creates a transport for the configured API base URL.
func NewClient(cfg config.OpenAIConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:    resty.New(),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  logger,
	}
}

// Do sends the request and returns the raw response body. A timeout is a
// failure immediately; there is no retry. A top-level error field in the
// body is authoritative failure regardless of transport status.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	url := c.baseURL + "/" + req.Endpoint.String()

	if req.Params.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Params.Timeout)
		defer cancel()
	}

	r := c.http.R().SetContext(ctx).SetBody(req.Body)
	for k, v := range req.Params.Headers {
		r.SetHeader(k, v)
	}

	resp, err := r.Post(url)
	if err != nil {
		c.logger.Warn("OpenAI request failed",
			zap.String("endpoint", req.Endpoint.String()),
			zap.Error(err))
		return nil, fmt.Errorf("openai request failed: %w", err)
	}

	body := resp.Body()

	var parsed struct {
		Error *models.APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil && parsed.Error.Message != "" {
		c.logger.Warn("OpenAI returned an error",
			zap.String("endpoint", req.Endpoint.String()),
			zap.String("message", parsed.Error.Message))
		return nil, parsed.Error
	}

	if resp.IsError() {
		c.logger.Warn("OpenAI returned an error status",
			zap.String("endpoint", req.Endpoint.String()),
			zap.Int("status", resp.StatusCode()))
		return nil, fmt.Errorf("openai returned %s", resp.Status())
	}

	return &Response{Body: body}, nil
}
