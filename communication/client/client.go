package client

import (
	"bytes"
	"context"
	"destiny/communication"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrCommandFailed is returned when the peer rejects a command.
var ErrCommandFailed = errors.New("command failed")

// Client talks to an engine served over HTTP.
type Client struct {
	serverURL  string
	httpClient *http.Client
}

// NewClient returns a client for the server at serverURL. A nil httpClient
// uses http.DefaultClient.
func NewClient(serverURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		serverURL:  strings.TrimRight(serverURL, "/"),
		httpClient: httpClient,
	}
}

var _ communication.Communicator = (*Client)(nil)

func (c *Client) Execute(ctx context.Context, command string) (string, error) {
	data, err := json.Marshal(communication.CommandRequest{Command: command})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+"/api/command", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp communication.CommandResponse
	if err := c.do(req, &resp); err != nil {
		return "", fmt.Errorf("failed to execute %q: %w", command, err)
	}
	if !resp.OK {
		return "", fmt.Errorf("%w: %s: %s", ErrCommandFailed, command, resp.Response)
	}
	return resp.Response, nil
}

// Board fetches the server's current position.
func (c *Client) Board(ctx context.Context) (communication.BoardResponse, error) {
	var board communication.BoardResponse
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.serverURL+"/api/board", nil)
	if err != nil {
		return board, err
	}
	if err := c.do(req, &board); err != nil {
		return board, fmt.Errorf("failed to fetch board: %w", err)
	}
	return board, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusBadRequest {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
