// Package openai builds, caches and interprets requests against the OpenAI
// API. The processing pipeline owns one Builder, one ResponseCache and one
// Transport; everything is wired at construction time.
package openai

import (
	"time"

	"github.com/formflow/openai-addon/internal/catalog"
	"github.com/formflow/openai-addon/internal/config"
	"github.com/formflow/openai-addon/internal/models"
)

// TransportParams carry everything the transport needs besides the body.
type TransportParams struct {
	Headers map[string]string
	Timeout time.Duration
}

// Request is the transient value object handed to the transport: endpoint,
// typed body and transport parameters. Deterministically hashable via
// CacheKey.
type Request struct {
	Endpoint models.Endpoint
	Body     any
	Params   TransportParams
}

// Response is a successful upstream reply. Failures travel as errors; a
// response is never partially valid.
type Response struct {
	Body []byte
}

// Builder assembles requests from a feed configuration and already-resolved
// template text, merging feed overrides with the catalog defaults.
type Builder struct {
	secretKey    string
	organization string
}

// NewBuilder creates a request builder from the addon's API settings.
func NewBuilder(cfg config.OpenAIConfig) *Builder {
	return &Builder{
		secretKey:    cfg.SecretKey,
		organization: cfg.Organization,
	}
}

// Resolved is the template-resolved text for one request. Only the fields
// the endpoint uses are read.
type Resolved struct {
	Prompt      string
	Input       string
	Instruction string
}

// Build assembles the request body and transport parameters for an endpoint.
// Malformed input passes through untouched; validity is the caller's concern.
func (b *Builder) Build(endpoint models.Endpoint, feed *models.Feed, resolved Resolved) *Request {
	defaults := catalog.Defaults(endpoint)

	var body any
	switch endpoint {
	case models.EndpointCompletions:
		body = models.CompletionsBody{
			Prompt:           resolved.Prompt,
			Model:            feed.Setting("model"),
			MaxTokens:        override(feed, "max_tokens", defaults.MaxTokens),
			Temperature:      override(feed, "temperature", defaults.Temperature),
			TopP:             override(feed, "top_p", defaults.TopP),
			FrequencyPenalty: override(feed, "frequency_penalty", defaults.FrequencyPenalty),
			PresencePenalty:  override(feed, "presence_penalty", defaults.PresencePenalty),
		}
	case models.EndpointEdits:
		body = models.EditsBody{
			Input:       resolved.Input,
			Instruction: resolved.Instruction,
			Model:       feed.Setting("model"),
			Temperature: override(feed, "temperature", defaults.Temperature),
			TopP:        override(feed, "top_p", defaults.TopP),
		}
	case models.EndpointModerations:
		body = models.ModerationsBody{
			Input: resolved.Input,
			Model: feed.Setting("model"),
		}
	case models.EndpointImages:
		body = models.ImagesBody{
			Prompt:         resolved.Prompt,
			ResponseFormat: "b64_json",
		}
	}

	return &Request{
		Endpoint: endpoint,
		Body:     body,
		Params: TransportParams{
			Headers: b.headers(),
			Timeout: timeout(feed, defaults.Timeout),
		},
	}
}

func (b *Builder) headers() map[string]string {
	headers := map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + b.secretKey,
	}
	if b.organization != "" {
		headers["OpenAI-Organization"] = b.organization
	}
	return headers
}

// override returns the feed's numeric setting if present and coercible, else
// the catalog default. Feed settings are stored as text.
func override(feed *models.Feed, name string, fallback float64) float64 {
	if v, ok := feed.FloatSetting(name); ok {
		return v
	}
	return fallback
}

func timeout(feed *models.Feed, fallback time.Duration) time.Duration {
	if v, ok := feed.FloatSetting("timeout"); ok && v > 0 {
		return time.Duration(v * float64(time.Second))
	}
	return fallback
}
