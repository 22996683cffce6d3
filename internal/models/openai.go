package models

// OpenAI Completions Request
type CompletionsBody struct {
	Prompt           string  `json:"prompt"`
	Model            string  `json:"model"`
	MaxTokens        float64 `json:"max_tokens"`
	Temperature      float64 `json:"temperature"`
	TopP             float64 `json:"top_p"`
	FrequencyPenalty float64 `json:"frequency_penalty"`
	PresencePenalty  float64 `json:"presence_penalty"`
}

// OpenAI Edits Request
type EditsBody struct {
	Input       string  `json:"input"`
	Instruction string  `json:"instruction"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

// OpenAI Moderations Request
type ModerationsBody struct {
	Input string `json:"input"`
	Model string `json:"model"`
}

// OpenAI Image Generation Request
type ImagesBody struct {
	Prompt         string `json:"prompt"`
	ResponseFormat string `json:"response_format"`
}

// ResponseBody covers every response shape the addon consumes. The upstream
// API returns different top-level fields per endpoint; fields that don't
// apply are simply left zero after decoding.
type ResponseBody struct {
	Choices []Choice           `json:"choices,omitempty"`
	Data    []ImageDatum       `json:"data,omitempty"`
	Results []ModerationResult `json:"results,omitempty"`
	Text    string             `json:"text,omitempty"`
	Error   *APIError          `json:"error,omitempty"`
}

type Choice struct {
	Text string `json:"text"`
}

type ImageDatum struct {
	URL     string `json:"url,omitempty"`
	B64JSON string `json:"b64_json,omitempty"`
}

type ModerationResult struct {
	Flagged    bool            `json:"flagged"`
	Categories map[string]bool `json:"categories"`
}

// APIError is the upstream application error embedded in a response body.
// Its presence is authoritative failure regardless of transport status.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}
