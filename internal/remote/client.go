// Package remote provides the HTTP client for the durable store backend.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/emergingtrends/clipsync/internal/errors"
	"github.com/emergingtrends/clipsync/internal/models"
)

// defaultTimeout bounds each round trip; there is no retry layer, so a
// hung request would otherwise stall the whole sync pass.
const defaultTimeout = 15 * time.Second

// Client issues list/upsert/delete operations against the backend.
// All requests address a single logical endpoint parameterized by the
// user identifier as the customer_id query parameter.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the backend at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// NewClientWithHTTP creates a Client using the given http.Client,
// used by tests to target httptest servers.
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, http: httpClient}
}

// endpoint builds the request URL for userID.
func (c *Client) endpoint(userID string) string {
	return c.baseURL + "?customer_id=" + url.QueryEscape(userID)
}

// List fetches the user's full remote collection. A non-success
// response yields an empty list, not an error; only transport failures
// are reported as errors.
func (c *Client) List(ctx context.Context, userID string) ([]models.ClipboardItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(userID), nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "failed to build list request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrRemoteUnreachable, "list request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return []models.ClipboardItem{}, nil
	}

	var wire []models.WireItem
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, errors.Wrap(errors.ErrRemoteRejected, "malformed list response", err)
	}

	items := make([]models.ClipboardItem, 0, len(wire))
	for _, w := range wire {
		items = append(items, models.FromWire(w))
	}
	return items, nil
}

// Upsert pushes one item to the user's remote collection. A non-success
// response is reported with its status and body so the caller can
// surface a per-item outcome.
func (c *Client) Upsert(ctx context.Context, userID string, item models.ClipboardItem) error {
	body, err := json.Marshal(item.ToWire())
	if err != nil {
		return errors.Wrap(errors.ErrInternal, "failed to serialize item", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.endpoint(userID), bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(errors.ErrInternal, "failed to build upsert request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(errors.ErrRemoteUnreachable, "upsert request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return rejectionError("upsert", resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// Delete removes one item from the user's remote collection by id.
func (c *Client) Delete(ctx context.Context, userID string, id int64) error {
	body, err := json.Marshal(map[string]int64{"id": id})
	if err != nil {
		return errors.Wrap(errors.ErrInternal, "failed to serialize delete body", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.endpoint(userID), bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(errors.ErrInternal, "failed to build delete request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(errors.ErrRemoteUnreachable, "delete request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return rejectionError("delete", resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// rejectionError converts a non-success response into an AppError
// carrying the status and response body.
func rejectionError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return errors.New(errors.ErrRemoteRejected,
		fmt.Sprintf("%s rejected: status %d: %s", op, resp.StatusCode, bytes.TrimSpace(body)))
}
