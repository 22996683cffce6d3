package openai

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/formflow/openai-addon/internal/models"
)

// ErrNoText signals that a response carried none of the recognized text
// shapes. Distinct from an upstream-reported error, which the transport
// surfaces before interpretation is attempted.
var ErrNoText = errors.New("no text found in response")

// ExtractText pulls the result text out of a response body. First match
// wins: completion/edit text, image URL, inline image base64, then a generic
// top-level text field.
func ExtractText(body []byte) (string, error) {
	var resp models.ResponseBody
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", ErrNoText
	}

	if len(resp.Choices) > 0 && strings.TrimSpace(resp.Choices[0].Text) != "" {
		return strings.TrimSpace(resp.Choices[0].Text), nil
	}

	if len(resp.Data) > 0 {
		// Image as URL (expires upstream after an hour)
		if u := strings.TrimSpace(resp.Data[0].URL); u != "" {
			return u, nil
		}
		// Image as Base64
		if b := strings.TrimSpace(resp.Data[0].B64JSON); b != "" {
			return b, nil
		}
	}

	if t := strings.TrimSpace(resp.Text); t != "" {
		return t, nil
	}

	return "", ErrNoText
}

// Categories extracts the per-category moderation verdicts from a response
// body. The second return is false when the response carries no results.
func Categories(body []byte) (map[string]bool, bool) {
	var resp models.ResponseBody
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, false
	}
	if len(resp.Results) == 0 || resp.Results[0].Categories == nil {
		return nil, false
	}
	return resp.Results[0].Categories, true
}
