package adminctl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const adminSignUpPath = "/api/users/sign-up/admin"

// AdminRequest is the body of an admin registration.
type AdminRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Name            string `json:"name"`
}

// CreatedAccount is the subset of the server's account view printed by the CLI.
type CreatedAccount struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("server returned %d %s: %s", e.Status, e.Code, e.Message)
	for k, v := range e.Fields {
		msg += fmt.Sprintf("; %s: %s", k, v)
	}
	return msg
}

// Client calls the resumehub HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// RegisterAdmin creates an admin account, passing adminKey in the X-Admin-Key header.
func (c *Client) RegisterAdmin(ctx context.Context, in AdminRequest, adminKey string) (*CreatedAccount, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+adminSignUpPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Key", adminKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var out struct {
		Data  *CreatedAccount `json:"data"`
		Error *struct {
			Code    string            `json:"code"`
			Message string            `json:"message"`
			Fields  map[string]string `json:"fields"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		apiErr := &APIError{Status: resp.StatusCode}
		if out.Error != nil {
			apiErr.Code, apiErr.Message, apiErr.Fields = out.Error.Code, out.Error.Message, out.Error.Fields
		}
		return nil, apiErr
	}
	if out.Data == nil {
		return nil, fmt.Errorf("empty response")
	}

	return out.Data, nil
}
