package ui

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

// Story mirrors the JSON the backend returns for a story.
type Story struct {
	ID             string     `json:"id"`
	AuthorID       string     `json:"author_id"`
	AuthorUsername string     `json:"author_username"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	Status         string     `json:"status"`
	Likes          int64      `json:"likes"`
	CreatedAt      time.Time  `json:"created_at"`
	ApprovedAt     *time.Time `json:"approved_at"`
}

// APIError carries the status and message of a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// Client talks to the story backend's /api routes with an admin token.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Login stores the access token on success. Non-admin accounts are refused
// here so the console never shows a queue it cannot act on.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var out struct {
		AccessToken string `json:"access_token"`
		User        struct {
			Username string `json:"username"`
			IsAdmin  bool   `json:"is_admin"`
		} `json:"user"`
	}
	creds := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", creds, &out); err != nil {
		return err
	}
	if !out.User.IsAdmin {
		return fmt.Errorf("%s is not an admin", out.User.Username)
	}
	c.Token = out.AccessToken
	return nil
}

func (c *Client) Pending(ctx context.Context) ([]Story, error) {
	var list []Story
	if err := c.do(ctx, http.MethodGet, "/api/stories/pending", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Moderate sends "approved" or "rejected" for one story.
func (c *Client) Moderate(ctx context.Context, id, status string) (*Story, error) {
	var s Story
	if err := c.do(ctx, http.MethodPut, "/api/stories/"+id+"/moderate", map[string]string{"status": status}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if c.Token == "" {
		return nil
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	c.Token = ""
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
