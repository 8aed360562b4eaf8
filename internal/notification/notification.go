// Package notification posts run completion messages to a webhook.
package notification

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/blankon/repackage-go/internal/cli/entity"
	"github.com/blankon/repackage-go/pkg/httputil"
)

// WebhookPayload represents the notification payload sent to webhook
type WebhookPayload struct {
	Title     string   `json:"title"`
	Message   string   `json:"message"`
	RunID     string   `json:"runId"`
	Success   bool     `json:"success"`
	Artifacts []string `json:"artifacts,omitempty"`
}

// WebhookNotifier sends a payload for every finished run. A notifier with an
// empty URL does nothing.
type WebhookNotifier struct {
	URL        string
	Client     *http.Client
	MaxRetries int
	RetryDelay time.Duration
	Log        zerolog.Logger
}

func NewWebhookNotifier(url string, log zerolog.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		URL:        url,
		Client:     &http.Client{Timeout: 10 * time.Second},
		MaxRetries: 3,
		RetryDelay: 2 * time.Second,
		Log:        log,
	}
}

// BuildPayload formats a run as a webhook message.
// e.g. "📦 langgenius/openai@0.0.1 [market/docker] openai-offline.difypkg ✅"
func BuildPayload(run entity.Run) WebhookPayload {
	status, emoji := "FAILED", "❌"
	if run.Success {
		status, emoji = "SUCCESS", "✅"
	}

	detail := run.Message
	if run.Success && len(run.Artifacts) > 0 {
		detail = strings.Join(run.Artifacts, ", ")
	}
	message := fmt.Sprintf("📦 %s [%s/%s]", run.Source, run.Mode, run.Execution)
	if detail != "" {
		message += " " + detail
	}
	message += " " + emoji

	return WebhookPayload{
		Title:     "Repackage " + status,
		Message:   message,
		RunID:     run.RunID,
		Success:   run.Success,
		Artifacts: run.Artifacts,
	}
}

// NotifyRun never fails the caller; delivery errors are logged.
func (n *WebhookNotifier) NotifyRun(ctx context.Context, run entity.Run) {
	if n == nil || n.URL == "" {
		return
	}
	payload := BuildPayload(run)
	n.Log.Debug().Str("run", run.RunID).Str("message", payload.Message).Msg("sending notification")

	err := httputil.PostJSONWithRetry(ctx, n.Client, n.URL, payload, n.MaxRetries, n.RetryDelay,
		func(attempt, maxAttempts int, err error) {
			n.Log.Warn().Err(err).Int("attempt", attempt).Int("max", maxAttempts).Msg("notification attempt failed")
		})
	if err != nil {
		n.Log.Error().Err(err).Str("run", run.RunID).Msg("failed to send notification")
		return
	}
	n.Log.Info().Str("run", run.RunID).Msg("notification sent")
}
