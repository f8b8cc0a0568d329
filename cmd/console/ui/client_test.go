package ui

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// fakeBackend serves the handful of routes the console uses.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		switch {
		case creds["username"] == "admin" && creds["password"] == "admin123":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": "tok", "token_type": "bearer",
				"user": map[string]any{"username": "admin", "is_admin": true},
			})
		case creds["username"] == "alice":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": "alice-tok", "token_type": "bearer",
				"user": map[string]any{"username": "alice", "is_admin": false},
			})
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "incorrect username or password"})
		}
	})
	mux.HandleFunc("GET /api/stories/pending", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode([]Story{
			{ID: "11111111-aaaa", AuthorUsername: "alice", Title: "First", Content: "<p>one</p>", Status: "pending"},
			{ID: "22222222-bbbb", AuthorUsername: "bob", Title: "Second", Content: "<p>two</p>", Status: "pending"},
		})
	})
	mux.HandleFunc("PUT /api/stories/{id}/moderate", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "gone" {
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "story already approved"})
			return
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(Story{ID: r.PathValue("id"), Status: body["status"]})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientLoginAndModerate(t *testing.T) {
	srv := fakeBackend(t)
	c := NewClient(srv.URL + "/")
	ctx := t.Context()

	if err := c.Login(ctx, "admin", "admin123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if c.Token != "tok" {
		t.Fatalf("token %q", c.Token)
	}
	list, err := c.Pending(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("pending: %v %v", list, err)
	}
	s, err := c.Moderate(ctx, list[0].ID, "approved")
	if err != nil || s.Status != "approved" {
		t.Fatalf("moderate: %+v %v", s, err)
	}

	_, err = c.Moderate(ctx, "gone", "rejected")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusConflict || !strings.Contains(apiErr.Message, "already") {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestClientLoginRejects(t *testing.T) {
	srv := fakeBackend(t)
	c := NewClient(srv.URL)
	if err := c.Login(t.Context(), "admin", "wrong"); err == nil {
		t.Fatalf("expected error for wrong password")
	}
	if err := c.Login(t.Context(), "alice", "pw"); err == nil || c.Token != "" {
		t.Fatalf("non-admin accepted: %v token=%q", err, c.Token)
	}
}

func TestDashboardLoadsQueue(t *testing.T) {
	srv := fakeBackend(t)
	c := NewClient(srv.URL)
	if err := c.Login(t.Context(), "admin", "admin123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	m := NewDashboardModel(c, 30)
	msg := m.Init()()
	m, _ = m.Update(msg)
	if len(m.Stories) != 2 || len(m.Table.Rows()) != 2 {
		t.Fatalf("queue not loaded: %d stories, err %v", len(m.Stories), m.Err)
	}
	if !strings.Contains(m.View(), "First") {
		t.Fatalf("view missing title:\n%s", m.View())
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	if cmd == nil {
		t.Fatalf("approve key produced no command")
	}
	res, ok := cmd().(moderatedMsg)
	if !ok || res.err != nil || res.status != decisionApprove || res.id != "11111111-aaaa" {
		t.Fatalf("unexpected moderation result %+v", res)
	}
}

func TestRenderContentStripsMarkup(t *testing.T) {
	got := renderContent("<p>Hello &amp; <b>welcome</b></p><ul><li>one</li></ul>", 80)
	if strings.Contains(got, "<") || !strings.Contains(got, "Hello & welcome") || !strings.Contains(got, "- one") {
		t.Fatalf("unexpected render %q", got)
	}
}
