package telegram

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		chatID  string
		wantErr bool
	}{
		{"valid", "123:abc", "@meowafisha", false},
		{"missing token", "", "@meowafisha", true},
		{"missing chat", "123:abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.token, tt.chatID)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewClient() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSendMessage(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/sendMessage") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	c, err := NewClient("123:abc", "@meowafisha")
	if err != nil {
		t.Fatal(err)
	}
	c.SetBaseURL(server.URL + "/bot")

	if err := c.SendMessage("<b>привет</b>"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	if got["chat_id"] != "@meowafisha" {
		t.Errorf("chat_id = %v", got["chat_id"])
	}
	if got["parse_mode"] != "HTML" {
		t.Errorf("parse_mode = %v", got["parse_mode"])
	}
	if got["text"] != "<b>привет</b>" {
		t.Errorf("text = %v", got["text"])
	}
}

func TestSendMessageAPIFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer server.Close()

	c, err := NewClient("123:abc", "@nochat")
	if err != nil {
		t.Fatal(err)
	}
	c.SetBaseURL(server.URL + "/bot")

	err = c.SendMessage("hello")
	if err == nil {
		t.Fatal("expected an error for ok=false")
	}
	if !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("error should carry the API description, got %v", err)
	}
}

func TestSendMessageHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	c, err := NewClient("123:abc", "@meowafisha")
	if err != nil {
		t.Fatal(err)
	}
	c.SetBaseURL(server.URL + "/bot")

	if err := c.SendMessage("hello"); err == nil {
		t.Fatal("expected an error for status 429")
	}
}

func TestSendMessageEmptyText(t *testing.T) {
	c, err := NewClient("123:abc", "@meowafisha")
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SendMessage(""); err == nil {
		t.Error("expected an error for empty text")
	}
}
