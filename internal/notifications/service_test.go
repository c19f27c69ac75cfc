package notifications_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"crosscast/internal/config"
	"crosscast/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyUploadCompleted(context.Background(), "Example", []string{"youtube"}); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceSendsUploadEvents(t *testing.T) {
	type captured struct {
		title    string
		tags     string
		priority string
		body     string
	}
	var got captured

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = captured{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)

	if err := svc.NotifyUploadCompleted(context.Background(), "Morning Routine", []string{"youtube", "pinterest"}); err != nil {
		t.Fatalf("NotifyUploadCompleted: %v", err)
	}
	if got.title != "Crosscast - Upload Complete" {
		t.Fatalf("title: %q", got.title)
	}
	if got.tags != "crosscast,upload,completed" {
		t.Fatalf("tags: %q", got.tags)
	}
	if got.body != "Uploaded Morning Routine to youtube, pinterest" {
		t.Fatalf("body: %q", got.body)
	}

	if err := svc.NotifyUploadFailed(context.Background(), "Morning Routine", "quota exceeded"); err != nil {
		t.Fatalf("NotifyUploadFailed: %v", err)
	}
	if got.priority != "high" {
		t.Fatalf("failed notifications should be high priority, got %q", got.priority)
	}
}

func TestNtfyServiceSurfacesServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)

	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
