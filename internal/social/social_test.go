package social

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/designfi/studio/internal/models"
	"github.com/designfi/studio/pkg/config"
)

func TestFormatArticleMessage(t *testing.T) {
	article := &models.Article{
		Title:       "Launch Week Recap",
		Content:     strings.Repeat("DesignFi shipped a lot this week. ", 30),
		Author:      "studio team",
		PublishedAt: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		WebsiteLink: sql.NullString{String: "https://designfi.studio", Valid: true},
		TwitterLink: sql.NullString{String: "https://x.com/DesignFiStudio", Valid: true},
	}

	message := FormatArticleMessage(article)

	if !strings.Contains(message, "*Launch Week Recap*") {
		t.Error("message missing bold title")
	}
	if !strings.Contains(message, "...") {
		t.Error("long content not clipped")
	}
	if !strings.Contains(message, "✍️ studio team") {
		t.Error("message missing byline")
	}
	if !strings.Contains(message, "Aug 20, 2026") {
		t.Error("message missing date")
	}
	if !strings.Contains(message, "[Website](https://designfi.studio)") {
		t.Error("message missing website link")
	}
	if !strings.Contains(message, "#DesignFi #Web3 #Crypto") {
		t.Error("message missing hashtags")
	}
	if strings.Contains(message, "[Telegram]") {
		t.Error("message includes link the article does not carry")
	}
}

func TestTelegramSendPhotoFallsBackToMessage(t *testing.T) {
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(r.URL.Path, "/")
		method := parts[len(parts)-1]
		methods = append(methods, method)
		if method == "sendPhoto" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "description": "wrong file identifier"})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"ok": true})
	}))
	defer srv.Close()

	tg := NewTelegram(&config.TelegramConfig{BotToken: "token", ChannelID: "@channel"})
	tg.baseURL = srv.URL

	if err := tg.SendPhoto(context.Background(), "https://broken.example/img.png", "caption"); err != nil {
		t.Fatalf("SendPhoto: %v", err)
	}
	if len(methods) != 2 || methods[0] != "sendPhoto" || methods[1] != "sendMessage" {
		t.Errorf("call sequence = %v, want [sendPhoto sendMessage]", methods)
	}
}

func TestTelegramDisabled(t *testing.T) {
	tg := NewTelegram(&config.TelegramConfig{})
	if tg.Enabled() {
		t.Error("client with no credentials reports enabled")
	}
	if err := tg.SendMessage(context.Background(), "hi"); err == nil {
		t.Error("SendMessage succeeded without credentials")
	}
}

func TestTwitterPost(t *testing.T) {
	var gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2/tweets" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			t.Error("missing bearer token")
		}
		var payload struct {
			Text string `json:"text"`
		}
		json.NewDecoder(r.Body).Decode(&payload)
		gotText = payload.Text
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]string{"id": "1234567890", "text": payload.Text},
		})
	}))
	defer srv.Close()

	tw := NewTwitter(&config.TwitterConfig{BearerToken: "token"})
	tw.baseURL = srv.URL

	long := strings.Repeat("x", 300)
	tweet, err := tw.Post(context.Background(), long)
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if len([]rune(gotText)) != 280 {
		t.Errorf("sent %d runes, want 280", len([]rune(gotText)))
	}
	if !strings.HasSuffix(gotText, "...") {
		t.Error("clamped tweet not ellipsized")
	}
	if tweet.URL != "https://x.com/DesignFiStudio/status/1234567890" {
		t.Errorf("unexpected tweet URL %s", tweet.URL)
	}
}

func TestTwitterAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	tw := NewTwitter(&config.TwitterConfig{BearerToken: "bad"})
	tw.baseURL = srv.URL

	_, err := tw.Post(context.Background(), "hello")
	if err == nil || !strings.Contains(err.Error(), "credentials rejected") {
		t.Errorf("want auth error, got %v", err)
	}
}

func TestTwitterPostMultipleToleratesFailures(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]string{"id": "id", "text": "text"},
		})
	}))
	defer srv.Close()

	tw := NewTwitter(&config.TwitterConfig{BearerToken: "token"})
	tw.baseURL = srv.URL

	posted, err := tw.PostMultiple(context.Background(), []string{"a", "b", "c"}, 0)
	if err == nil {
		t.Error("want aggregated error when one tweet fails")
	}
	if len(posted) != 2 {
		t.Errorf("got %d posted tweets, want 2", len(posted))
	}
	if calls != 3 {
		t.Errorf("got %d calls, want 3", calls)
	}
}
