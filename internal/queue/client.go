// Package queue holds the client for the external admission-queue service,
// the pre-gate that throttles users before they may attempt a reservation.
// Only one operation is consumed here: releasing a user's queue slot once
// their reservation is finalized or cancelled.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ReleaseResult is the admission-queue service's response envelope.
type ReleaseResult struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type Client interface {
	ReleaseSlot(ctx context.Context, eventID, userID uint) (*ReleaseResult, error)
}

type httpClient struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) Client {
	return &httpClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// ReleaseSlot frees the user's place in the event's waiting queue. Callers
// treat failures as non-fatal: by the time this runs, the reservation change
// has already committed.
func (c *httpClient) ReleaseSlot(ctx context.Context, eventID, userID uint) (*ReleaseResult, error) {
	url := fmt.Sprintf("%s/waiting-queue/%d/users/%d", c.baseURL, eventID, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return nil, fmt.Errorf("queue release request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("queue release call: %w", err)
	}
	defer resp.Body.Close()

	var result ReleaseResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("queue release decode: %w", err)
	}

	if resp.StatusCode >= 400 || !result.Status {
		return &result, fmt.Errorf("queue release rejected: %s", result.Message)
	}

	return &result, nil
}
