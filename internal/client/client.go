// Package client signs in against a running portal over its JSON API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"signin-portal/internal/signin"
)

const signInPath = "/api/auth/signin"

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// APIError is a non-2xx answer from the server. Its Message is what the
// server chose to show to users.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

func (e *APIError) UserMessage() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range signin.Fields {
		if msg, ok := e.Fields[string(f)]; ok {
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, "; ")
}

type errorBody struct {
	Error  string            `json:"error"`
	Errors map[string]string `json:"errors"`
}

// SignIn implements signin.Authenticator.
func (c *Client) SignIn(ctx context.Context, email, password string) error {
	body, err := json.Marshal(signin.CredentialInput{Email: email, Password: password})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+signInPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", signInPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode}
	var eb errorBody
	if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil {
		apiErr.Message = eb.Error
		apiErr.Fields = eb.Errors
	}
	return apiErr
}
