package formclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	SubmitPath      = "/api/submit-form"
	AbandonmentPath = "/api/form-abandonment"
	WelcomePath     = "/api/send-welcome-email"
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client talks to the lead-capture endpoints.
type Client struct {
	baseURL string
	http    *http.Client
	tracker *Tracker
}

// NewClient creates a client. tracker may be nil; when set, a successful
// submission marks the session submitted.
func NewClient(baseURL string, httpClient *http.Client, tracker *Tracker) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tracker: tracker,
	}
}

// AbandonmentURL is the beacon endpoint for a Detector.
func (c *Client) AbandonmentURL() string {
	return c.baseURL + AbandonmentPath
}

// Submit posts the completed form and returns the server's message.
func (c *Client) Submit(ctx context.Context, state FormState) (string, error) {
	if state.Availability == nil {
		state.Availability = []string{}
	}
	resp, err := c.post(ctx, SubmitPath, state)
	if err != nil {
		return "", err
	}
	if c.tracker != nil {
		c.tracker.MarkSubmitted()
	}
	return resp.Message, nil
}

// SendWelcome asks the backend to send the welcome email.
func (c *Client) SendWelcome(ctx context.Context, email, name string) error {
	_, err := c.post(ctx, WelcomePath, map[string]string{"email": email, "name": name})
	return err
}

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) post(ctx context.Context, path string, payload any) (*apiResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var decoded apiResponse
	_ = json.Unmarshal(raw, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := decoded.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}
	return &decoded, nil
}
