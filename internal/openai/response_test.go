package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText_CompletionChoice(t *testing.T) {
	body := []byte(`{"choices":[{"text":"  X  "}]}`)

	text, err := ExtractText(body)

	require.NoError(t, err)
	assert.Equal(t, "X", text)
}

func TestExtractText_ImageURL(t *testing.T) {
	body := []byte(`{"data":[{"url":"https://images.example/abc.png"}]}`)

	text, err := ExtractText(body)

	require.NoError(t, err)
	assert.Equal(t, "https://images.example/abc.png", text)
}

func TestExtractText_ImageBase64(t *testing.T) {
	body := []byte(`{"data":[{"b64_json":"aGVsbG8="}]}`)

	text, err := ExtractText(body)

	require.NoError(t, err)
	assert.Equal(t, "aGVsbG8=", text)
}

func TestExtractText_GenericTextField(t *testing.T) {
	body := []byte(`{"text":"plain"}`)

	text, err := ExtractText(body)

	require.NoError(t, err)
	assert.Equal(t, "plain", text)
}

func TestExtractText_PriorityOrder(t *testing.T) {
	// A choice wins over an image datum and a generic text field.
	body := []byte(`{"choices":[{"text":"first"}],"data":[{"url":"https://x"}],"text":"last"}`)

	text, err := ExtractText(body)

	require.NoError(t, err)
	assert.Equal(t, "first", text)
}

func TestExtractText_NothingInterpretable(t *testing.T) {
	_, err := ExtractText([]byte(`{"object":"list"}`))
	assert.ErrorIs(t, err, ErrNoText)

	_, err = ExtractText([]byte(`not json`))
	assert.ErrorIs(t, err, ErrNoText)
}

func TestCategories(t *testing.T) {
	body := []byte(`{"results":[{"flagged":true,"categories":{"hate":false,"violence":true}}]}`)

	categories, ok := Categories(body)

	require.True(t, ok)
	assert.Equal(t, map[string]bool{"hate": false, "violence": true}, categories)
}

func TestCategories_Missing(t *testing.T) {
	_, ok := Categories([]byte(`{"choices":[{"text":"x"}]}`))
	assert.False(t, ok)

	_, ok = Categories([]byte(`{"results":[]}`))
	assert.False(t, ok)
}
