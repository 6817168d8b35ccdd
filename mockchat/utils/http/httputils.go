// Package httputils is the small HTTP client the CLI uses to talk to the
// server's JSON and SSE endpoints.
package httputils

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	eventDone        = "[DONE]"
	eventErrorPrefix = "[ERROR] "
)

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), Token: token, HTTP: http.DefaultClient}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	return req, nil
}

func statusError(r *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err == nil && body.Error != "" {
		return fmt.Errorf("bad status: %d: %s", r.StatusCode, body.Error)
	}
	return fmt.Errorf("bad status: %d", r.StatusCode)
}

func (c *Client) do(req *http.Request, resp interface{}) error {
	r, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer r.Body.Close()
	if r.StatusCode != http.StatusOK {
		return statusError(r)
	}
	if resp != nil {
		return json.NewDecoder(r.Body).Decode(resp)
	}
	return nil
}

func (c *Client) PostJSON(ctx context.Context, path string, body interface{}, resp interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(jsonBody))
	if err != nil {
		return err
	}
	return c.do(req, resp)
}

func (c *Client) GetJSON(ctx context.Context, path string, resp interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.do(req, resp)
}

// StreamSSE reads a server-sent event stream, calling onToken for each token
// until the done event. An error event is returned as an error.
func (c *Client) StreamSSE(ctx context.Context, path string, onToken func(string)) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	r, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer r.Body.Close()
	if r.StatusCode != http.StatusOK {
		return statusError(r)
	}

	scanner := bufio.NewScanner(r.Body)
	for scanner.Scan() {
		line := scanner.Text()
		data, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			continue
		}
		switch {
		case data == eventDone:
			return nil
		case strings.HasPrefix(data, eventErrorPrefix):
			return fmt.Errorf("stream error: %s", strings.TrimPrefix(data, eventErrorPrefix))
		default:
			onToken(data)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return io.ErrUnexpectedEOF
}
