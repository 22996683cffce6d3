package models

import "fmt"

// Endpoint identifies an OpenAI API capability. It determines the request
// body shape, the response shape and which feed settings apply.
type Endpoint string

const (
	EndpointCompletions Endpoint = "completions"
	EndpointEdits       Endpoint = "edits"
	EndpointModerations Endpoint = "moderations"
	EndpointImages      Endpoint = "images/generations"
)

// ParseEndpoint converts a stored feed setting into an Endpoint. Feeds are
// persisted by the host, so an unrecognized value can only appear at this
// deserialization boundary.
func ParseEndpoint(s string) (Endpoint, error) {
	switch Endpoint(s) {
	case EndpointCompletions, EndpointEdits, EndpointModerations, EndpointImages:
		return Endpoint(s), nil
	}
	return "", fmt.Errorf("unknown endpoint: %s", s)
}

func (e Endpoint) String() string {
	return string(e)
}

// SettingKey builds the endpoint-prefixed feed meta key for a setting name,
// e.g. "completions_model" or "edits_map_result_to_field". The image endpoint
// uses an underscore form since its path contains a slash.
func (e Endpoint) SettingKey(name string) string {
	prefix := string(e)
	if e == EndpointImages {
		prefix = "images_generations"
	}
	return prefix + "_" + name
}
