package vk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("", "meowafisha", 0); err == nil {
		t.Error("expected error for missing token")
	}
	if _, err := NewClient("token", "", 0); err == nil {
		t.Error("expected error for missing domain")
	}
	if _, err := NewClient("token", "meowafisha", 0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFetchPostsPagination(t *testing.T) {
	// Two pages of posts, then an empty page.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "wall.get") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("v"); got != apiVersion {
			t.Errorf("expected api version %s, got %s", apiVersion, got)
		}

		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		items := make([]Post, 0)
		if offset < 200 {
			for i := 0; i < BatchSize; i++ {
				items = append(items, Post{ID: int64(offset + i), Text: "post"})
			}
		}

		json.NewEncoder(w).Encode(map[string]any{
			"response": map[string]any{
				"count": 200,
				"items": items,
			},
		})
	}))
	defer server.Close()

	c, err := NewClient("token", "meowafisha", 0)
	if err != nil {
		t.Fatal(err)
	}
	c.SetBaseURL(server.URL + "/method/")

	posts, err := c.FetchPosts(context.Background(), 300)
	if err != nil {
		t.Fatalf("FetchPosts failed: %v", err)
	}
	if len(posts) != 200 {
		t.Errorf("expected 200 posts, got %d", len(posts))
	}
}

func TestFetchPostsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"error_code": 5,
				"error_msg":  "User authorization failed",
			},
		})
	}))
	defer server.Close()

	c, err := NewClient("bad-token", "meowafisha", 0)
	if err != nil {
		t.Fatal(err)
	}
	c.SetBaseURL(server.URL + "/method/")

	_, err = c.FetchPosts(context.Background(), 100)
	if err == nil {
		t.Fatal("expected an API error")
	}
	if !strings.Contains(err.Error(), "authorization failed") {
		t.Errorf("expected the VK error message to surface, got %v", err)
	}
}

func TestFetchPostsRetriesTransportErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"response": map[string]any{
				"count": 1,
				"items": []Post{{ID: 1, Text: "post"}},
			},
		})
	}))
	defer server.Close()

	c, err := NewClient("token", "meowafisha", 0)
	if err != nil {
		t.Fatal(err)
	}
	c.SetBaseURL(server.URL + "/method/")

	posts, err := c.FetchPosts(context.Background(), 100)
	if err != nil {
		t.Fatalf("expected retries to recover, got %v", err)
	}
	if len(posts) != 1 {
		t.Errorf("expected 1 post, got %d", len(posts))
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}
