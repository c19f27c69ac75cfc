package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"crosscast/internal/config"
)

const userAgent = "crosscast/0.1.0"

// Service defines the notification surface exposed to upload components.
type Service interface {
	NotifyUploadCompleted(ctx context.Context, title string, platforms []string) error
	NotifyUploadPartial(ctx context.Context, title string, successful, failed []string) error
	NotifyUploadFailed(ctx context.Context, title, reason string) error
	NotifyUploadCancelled(ctx context.Context, title string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.NtfyRequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyUploadCompleted(ctx context.Context, title string, platforms []string) error {
	title = strings.TrimSpace(title)
	data := payload{
		title:   "Crosscast - Upload Complete",
		message: fmt.Sprintf("Uploaded %s to %s", title, strings.Join(platforms, ", ")),
		tags:    []string{"crosscast", "upload", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyUploadPartial(ctx context.Context, title string, successful, failed []string) error {
	title = strings.TrimSpace(title)
	data := payload{
		title: "Crosscast - Partial Upload",
		message: fmt.Sprintf("%s uploaded to %s; failed on %s",
			title, strings.Join(successful, ", "), strings.Join(failed, ", ")),
		tags:     []string{"crosscast", "upload", "partial"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyUploadFailed(ctx context.Context, title, reason string) error {
	title = strings.TrimSpace(title)
	message := fmt.Sprintf("Upload failed: %s", title)
	if reason = strings.TrimSpace(reason); reason != "" {
		message = fmt.Sprintf("%s\n%s", message, reason)
	}
	data := payload{
		title:    "Crosscast - Upload Failed",
		message:  message,
		tags:     []string{"crosscast", "upload", "failed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyUploadCancelled(ctx context.Context, title string) error {
	title = strings.TrimSpace(title)
	data := payload{
		title:   "Crosscast - Upload Cancelled",
		message: fmt.Sprintf("Upload cancelled: %s", title),
		tags:    []string{"crosscast", "upload", "cancelled"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Crosscast - Test",
		message:  "Notification system test",
		tags:     []string{"crosscast", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyUploadCompleted(context.Context, string, []string) error         { return nil }
func (noopService) NotifyUploadPartial(context.Context, string, []string, []string) error { return nil }
func (noopService) NotifyUploadFailed(context.Context, string, string) error              { return nil }
func (noopService) NotifyUploadCancelled(context.Context, string) error                   { return nil }
func (noopService) TestNotification(context.Context) error                                { return nil }
