package openai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/formflow/openai-addon/internal/config"
	"github.com/formflow/openai-addon/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(config.OpenAIConfig{SecretKey: "sk-test", BaseURL: url}, nil)
}

func TestClientDo_Success(t *testing.T) {
	var gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Write([]byte(`{"choices":[{"text":"short"}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	req := testRequest()

	resp, err := client.Do(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "/completions", gotPath)
	assert.JSONEq(t, `{"choices":[{"text":"short"}]}`, string(resp.Body))
}

func TestClientDo_UpstreamErrorField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 200 with an embedded error is still a failure.
		w.Write([]byte(`{"error":{"message":"You exceeded your current quota","type":"insufficient_quota"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Do(context.Background(), testRequest())

	require.Error(t, err)
	var apiErr *models.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "You exceeded your current quota", apiErr.Message)
}

func TestClientDo_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Do(context.Background(), testRequest())

	assert.Error(t, err)
}

func TestClientDo_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	req := testRequest()
	req.Params.Timeout = 20 * time.Millisecond

	_, err := client.Do(context.Background(), req)

	assert.Error(t, err)
}
