// Package catalog is the static registry of OpenAI endpoints: which models
// each endpoint offers and the default request parameters applied when a feed
// doesn't override them.
package catalog

import (
	"time"

	"github.com/formflow/openai-addon/internal/models"
)

// ModelDescriptor describes one selectable model for an endpoint. Defined at
// process start, never persisted.
type ModelDescriptor struct {
	ID          string
	Type        string
	Description string
}

// RequestDefaults are the per-endpoint default request parameters. Numeric
// values are float64 because feed overrides arrive as text and are coerced.
type RequestDefaults struct {
	MaxTokens        float64
	Temperature      float64
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
	Timeout          time.Duration
}

var defaults = map[models.Endpoint]RequestDefaults{
	models.EndpointCompletions: {
		MaxTokens:        500,
		Temperature:      1,
		TopP:             1,
		FrequencyPenalty: 0,
		PresencePenalty:  0,
		Timeout:          15 * time.Second,
	},
	models.EndpointEdits: {
		Temperature: 1,
		TopP:        1,
		Timeout:     15 * time.Second,
	},
	models.EndpointModerations: {
		Timeout: 5 * time.Second,
	},
	models.EndpointImages: {
		Timeout: 15 * time.Second,
	},
}

var endpointModels = map[models.Endpoint][]ModelDescriptor{
	models.EndpointCompletions: {
		{ID: "text-davinci-003", Type: "GPT-3", Description: "Most capable GPT-3 model. Can do any task the other models can do, often with higher quality, longer output and better instruction-following."},
		{ID: "text-curie-001", Type: "GPT-3", Description: "Very capable, but faster and lower cost than Davinci."},
		{ID: "text-babbage-001", Type: "GPT-3", Description: "Capable of straightforward tasks, very fast, and lower cost."},
		{ID: "text-ada-001", Type: "GPT-3", Description: "Capable of very simple tasks, usually the fastest model in the GPT-3 series, and lowest cost."},
		{ID: "code-davinci-002", Type: "Codex", Description: "Most capable Codex model. Particularly good at translating natural language to code."},
		{ID: "code-cushman-001", Type: "Codex", Description: "Almost as capable as Davinci Codex, but slightly faster."},
	},
	models.EndpointEdits: {
		{ID: "text-davinci-edit-001", Type: "GPT-3", Description: "Most capable GPT-3 edit model."},
		{ID: "code-davinci-edit-001", Type: "Codex", Description: "Most capable Codex edit model. Particularly good at translating natural language to code."},
	},
	models.EndpointModerations: {
		{ID: "text-moderation-stable", Type: "Moderation"},
		{ID: "text-moderation-latest", Type: "Moderation"},
	},
	models.EndpointImages: {
		{ID: "image-generations-dall-e-1", Type: "Image Generation"},
	},
}

var endpointDescriptions = map[models.Endpoint]string{
	models.EndpointCompletions: "Given a prompt, the model returns one or more predicted completions.",
	models.EndpointEdits:       "Given an input and an instruction, the model returns an edited version of the input.",
	models.EndpointModerations: "Given an input, the model classifies it against OpenAI's content policy.",
	models.EndpointImages:      "Given a prompt, the model generates a new image.",
}

// Description returns the settings-screen help text for an endpoint.
func Description(endpoint models.Endpoint) string {
	return endpointDescriptions[endpoint]
}

// Defaults returns the default request parameters for an endpoint.
func Defaults(endpoint models.Endpoint) RequestDefaults {
	return defaults[endpoint]
}

// Models returns the model descriptors available for an endpoint.
func Models(endpoint models.Endpoint) []ModelDescriptor {
	return endpointModels[endpoint]
}

// Choice is a label/value pair for host settings screens.
type Choice struct {
	Label string
	Value string
}

// Choices converts an endpoint's models into settings-screen choices.
func Choices(endpoint models.Endpoint) []Choice {
	descriptors := endpointModels[endpoint]
	choices := make([]Choice, 0, len(descriptors))
	for _, d := range descriptors {
		choices = append(choices, Choice{Label: d.ID, Value: d.ID})
	}
	return choices
}
