package social

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testCredentials() Credentials {
	return Credentials{
		APIKey:       "app-key",
		APISecret:    "app-secret",
		AccessToken:  "user-token",
		AccessSecret: "user-secret",
	}
}

func TestPublishPost_SendsSignedRequest(t *testing.T) {
	var gotAuth, gotText string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		var body struct {
			Text string `json:"text"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotText = body.Text

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"1893456789","text":"hi"}}`))
	}))
	defer server.Close()

	client := NewTwitterClient(testCredentials(), zap.NewNop())
	client.endpoint = server.URL

	id, err := client.PublishPost(context.Background(), "hi")

	assert.NoError(t, err)
	assert.Equal(t, "1893456789", id)
	assert.Equal(t, "hi", gotText)
	assert.True(t, strings.HasPrefix(gotAuth, "OAuth "), "request must carry an OAuth 1.0a signature")
	assert.Contains(t, gotAuth, `oauth_consumer_key="app-key"`)
	assert.Contains(t, gotAuth, `oauth_token="user-token"`)
}

func TestPublishPost_RejectionIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"detail":"duplicate content"}`))
	}))
	defer server.Close()

	client := NewTwitterClient(testCredentials(), zap.NewNop())
	client.endpoint = server.URL

	_, err := client.PublishPost(context.Background(), "hi")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestPublishPost_MissingIDIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	client := NewTwitterClient(testCredentials(), zap.NewNop())
	client.endpoint = server.URL

	_, err := client.PublishPost(context.Background(), "hi")

	assert.Error(t, err)
}
