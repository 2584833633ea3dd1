package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// MessagesPath is where the background serves the channel over HTTP.
const MessagesPath = "/api/messages"

// HTTPChannel sends messages to a background running in another process.
type HTTPChannel struct {
	baseURL string
	client  *http.Client
}

func NewHTTPChannel(baseURL string, client *http.Client) *HTTPChannel {
	if client == nil {
		client = &http.Client{Timeout: 90 * time.Second}
	}
	return &HTTPChannel{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (c *HTTPChannel) Send(ctx context.Context, msg Message) (Response, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return Response{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+MessagesPath, bytes.NewReader(body))
	if err != nil {
		return Response{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Response{}, fmt.Errorf("background request failed: %s %s", resp.Status, strings.TrimSpace(string(b)))
	}
	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Response{}, fmt.Errorf("decode background reply: %w", err)
	}
	return out, nil
}
