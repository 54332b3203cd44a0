package social

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dghubble/oauth1"
	"go.uber.org/zap"
)

const tweetEndpoint = "https://api.twitter.com/2/tweets"

// Credentials is the OAuth 1.0a application/user credential tuple required
// for user-context posting.
type Credentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// TwitterClient implements poster.Publisher against the X v2 API.
type TwitterClient struct {
	httpClient *http.Client
	endpoint   string
	log        *zap.Logger
}

// NewTwitterClient creates a client whose requests are signed with the given
// credentials.
func NewTwitterClient(creds Credentials, log *zap.Logger) *TwitterClient {
	config := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)

	httpClient := config.Client(oauth1.NoContext, token)
	httpClient.Timeout = 30 * time.Second

	return &TwitterClient{
		httpClient: httpClient,
		endpoint:   tweetEndpoint,
		log:        log,
	}
}

type tweetRequest struct {
	Text string `json:"text"`
}

type tweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// PublishPost submits text as a new post and returns the platform-assigned id.
func (c *TwitterClient) PublishPost(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(tweetRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("failed to marshal tweet: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build tweet request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("tweet request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Error("Failed to close tweet response body", zap.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Error("Tweet rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", detail))
		return "", fmt.Errorf("tweet rejected with status %d", resp.StatusCode)
	}

	var out tweetResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode tweet response: %w", err)
	}
	if out.Data.ID == "" {
		return "", fmt.Errorf("tweet response missing id")
	}

	return out.Data.ID, nil
}
