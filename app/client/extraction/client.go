package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"replog/app/config"

	"github.com/samber/do"
	"github.com/samber/oops"
)

var _ Extractor = (*Client)(nil)

// Client speaks the extraction backend's wire contract: one POST per message,
// no batching, no retries. Retry policy, if any, belongs to the caller.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return &Client{
		endpoint: cfg.Extraction.Endpoint,
		httpClient: &http.Client{
			Timeout: cfg.Extraction.Timeout(),
		},
	}, nil
}

func (c *Client) Extract(ctx context.Context, message string) (*Result, error) {
	payload, err := json.Marshal(chatRequest{Message: message})
	if err != nil {
		return nil, oops.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, oops.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, oops.Errorf("extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, oops.Errorf("extraction backend returned status %d", resp.StatusCode)
	}

	var decoded chatResponse
	if err = json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, oops.Errorf("failed to decode response body: %w", err)
	}

	result := &Result{
		Reply:       decoded.Reply,
		UpdatedForm: decoded.UpdatedForm,
	}
	if result.Reply == "" {
		result.Reply = FallbackReply
	}

	return result, nil
}
