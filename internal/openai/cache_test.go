package openai

import (
	"errors"
	"testing"
	"time"

	"github.com/formflow/openai-addon/internal/models"
	"github.com/formflow/openai-addon/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest() *Request {
	return &Request{
		Endpoint: models.EndpointCompletions,
		Body: models.CompletionsBody{
			Prompt:      "Summarize: long text",
			Model:       "text-davinci-003",
			MaxTokens:   500,
			Temperature: 1,
			TopP:        1,
		},
		Params: TransportParams{
			Headers: map[string]string{
				"Content-Type":  "application/json",
				"Authorization": "Bearer sk-test",
			},
			Timeout: 15 * time.Second,
		},
	}
}

func TestCacheKey_Deterministic(t *testing.T) {
	k1, err := CacheKey(testRequest())
	require.NoError(t, err)

	k2, err := CacheKey(testRequest())
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 40) // sha1 hex
}

func TestCacheKey_OrderIndependent(t *testing.T) {
	a := testRequest()
	a.Body = map[string]any{"prompt": "hi", "model": "text-ada-001"}

	b := testRequest()
	b.Body = map[string]any{"model": "text-ada-001", "prompt": "hi"}

	ka, err := CacheKey(a)
	require.NoError(t, err)
	kb, err := CacheKey(b)
	require.NoError(t, err)

	assert.Equal(t, ka, kb)
}

func TestCacheKey_SensitiveToBodyAndEndpoint(t *testing.T) {
	base, err := CacheKey(testRequest())
	require.NoError(t, err)

	other := testRequest()
	other.Body = models.CompletionsBody{Prompt: "different", Model: "text-davinci-003"}
	changed, err := CacheKey(other)
	require.NoError(t, err)
	assert.NotEqual(t, base, changed)

	moved := testRequest()
	moved.Endpoint = models.EndpointEdits
	changed, err = CacheKey(moved)
	require.NoError(t, err)
	assert.NotEqual(t, base, changed)
}

func TestGetOrFetch_FetchesOnce(t *testing.T) {
	cache := NewResponseCache(storage.NewMemoryTransientStore(), 5*time.Minute)

	calls := 0
	fetch := func(*Request) (*Response, error) {
		calls++
		return &Response{Body: []byte(`{"text":"ok"}`)}, nil
	}

	r1, err := cache.GetOrFetch(testRequest(), fetch)
	require.NoError(t, err)

	r2, err := cache.GetOrFetch(testRequest(), fetch)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, r1.Body, r2.Body)
}

func TestGetOrFetch_FailureNeverCached(t *testing.T) {
	cache := NewResponseCache(storage.NewMemoryTransientStore(), 5*time.Minute)

	calls := 0
	fetch := func(*Request) (*Response, error) {
		calls++
		return nil, errors.New("connection refused")
	}

	_, err := cache.GetOrFetch(testRequest(), fetch)
	require.Error(t, err)

	_, err = cache.GetOrFetch(testRequest(), fetch)
	require.Error(t, err)

	assert.Equal(t, 2, calls)
}

func TestGetOrFetch_TransientHitRepopulatesRuntime(t *testing.T) {
	transient := storage.NewMemoryTransientStore()

	warm := NewResponseCache(transient, 5*time.Minute)
	_, err := warm.GetOrFetch(testRequest(), func(*Request) (*Response, error) {
		return &Response{Body: []byte(`{"text":"warm"}`)}, nil
	})
	require.NoError(t, err)

	// A fresh session shares the transient tier but not the runtime tier.
	cold := NewResponseCache(transient, 5*time.Minute)
	calls := 0
	resp, err := cold.GetOrFetch(testRequest(), func(*Request) (*Response, error) {
		calls++
		return nil, errors.New("should not be called")
	})

	require.NoError(t, err)
	assert.Equal(t, 0, calls)
	assert.Equal(t, []byte(`{"text":"warm"}`), resp.Body)
}

func TestGetOrFetch_NoTransientStore(t *testing.T) {
	cache := NewResponseCache(nil, 5*time.Minute)

	calls := 0
	_, err := cache.GetOrFetch(testRequest(), func(*Request) (*Response, error) {
		calls++
		return &Response{Body: []byte(`{}`)}, nil
	})
	require.NoError(t, err)

	_, err = cache.GetOrFetch(testRequest(), func(*Request) (*Response, error) {
		calls++
		return &Response{Body: []byte(`{}`)}, nil
	})
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}
