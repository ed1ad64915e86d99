package voice

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// CallRecord is one completed call as reported by the voice provider.
type CallRecord struct {
	CallID      string    `json:"call_id"`
	CallerID    string    `json:"caller_id"`
	DurationSec int       `json:"duration_sec"`
	StartedAt   time.Time `json:"started_at"`
	Outcome     string    `json:"outcome"`
}

type callListResponse struct {
	Calls []CallRecord `json:"calls"`
}

// Client fetches call records from the AI voice-call provider.
type Client interface {
	ListCalls(ctx context.Context, since time.Time) ([]CallRecord, error)
}

type restClient struct {
	client  *resty.Client
	baseURL string
}

// NewClient creates a voice-provider client authenticated with a bearer key.
func NewClient(baseURL, apiKey string, timeout time.Duration) Client {
	c := resty.New().
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")
	if timeout > 0 {
		c.SetTimeout(timeout)
	}

	return &restClient{
		client:  c,
		baseURL: baseURL,
	}
}

func (c *restClient) ListCalls(ctx context.Context, since time.Time) ([]CallRecord, error) {
	var result callListResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("since", since.UTC().Format(time.RFC3339)).
		SetResult(&result).
		Get(c.baseURL + "/v1/calls")
	if err != nil {
		return nil, fmt.Errorf("failed to list calls: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("voice API error (status %d): %s", resp.StatusCode(), resp.String())
	}

	return result.Calls, nil
}
