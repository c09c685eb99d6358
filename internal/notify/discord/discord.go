// Package discord posts seminar announcements and the rolling status message
// through a Discord webhook.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/rs/zerolog/log"

	appErr "seminar-reminder/internal/errors"
	"seminar-reminder/internal/model"
)

const (
	colorBlurple = 0x5865F2
	colorWarning = 0xEDB90B
	footerText   = "PXL-Digital Seminaries"

	maxTitle      = 256
	maxFieldValue = 1024
	maxAttempts   = 4
)

// APIError is a non-2xx webhook response.
type APIError struct {
	Status     int
	Message    string
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("discord error: %d %s", e.Status, e.Message)
}

func (e *APIError) retryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

func isNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

type Webhook struct {
	url     string
	mention string
	client  *http.Client
	delay   time.Duration
}

func NewWebhook(webhookURL, mention string, client *http.Client) *Webhook {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Webhook{url: webhookURL, mention: mention, client: client, delay: time.Second}
}

func (w *Webhook) SendSeminar(ctx context.Context, a model.Announcement) error {
	payload := message{
		Embeds:          []embed{seminarEmbed(a)},
		AllowedMentions: &allowedMentions{Parse: []string{"everyone", "roles"}},
	}
	if a.RegistrationAvailable && w.mention != "" {
		payload.Content = w.mention
	}

	if _, err := w.execute(ctx, http.MethodPost, "", payload); err != nil {
		return appErr.NewNotify("send %s: %w", a.Seminar.ID, err)
	}
	log.Info().Str("notifier", "discord").Str("seminar_id", a.Seminar.ID).Msg("discord announcement sent")
	return nil
}

// PublishStatus edits the status message ref, or posts a new one when ref is empty
// or the old message was deleted.
func (w *Webhook) PublishStatus(ctx context.Context, ref string, summary model.RunSummary) (string, error) {
	payload := message{Embeds: []embed{statusEmbed(summary)}}

	if ref != "" {
		_, err := w.execute(ctx, http.MethodPatch, ref, payload)
		if err == nil {
			return ref, nil
		}
		if !isNotFound(err) {
			return ref, appErr.NewNotify("edit status %s: %w", ref, err)
		}
		log.Info().Str("notifier", "discord").Str("message_id", ref).Msg("status message was deleted; recreating")
	}

	created, err := w.execute(ctx, http.MethodPost, "", payload)
	if err != nil {
		return ref, appErr.NewNotify("create status: %w", err)
	}
	return created.ID, nil
}

func (w *Webhook) execute(ctx context.Context, method, messageID string, payload message) (messageResponse, error) {
	endpoint, err := w.endpoint(messageID)
	if err != nil {
		return messageResponse{}, err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return messageResponse{}, err
	}

	var out messageResponse
	var last error
	err = retry.Do(
		func() error {
			resp, err := w.do(ctx, method, endpoint, body)
			if err != nil {
				last = err
				var apiErr *APIError
				if errors.As(err, &apiErr) {
					if !apiErr.retryable() {
						return retry.Unrecoverable(err)
					}
					if apiErr.RetryAfter > 0 {
						log.Warn().Str("notifier", "discord").Dur("retry_after", apiErr.RetryAfter).Msg("discord rate limit hit")
						if sleepErr := sleep(ctx, apiErr.RetryAfter); sleepErr != nil {
							return retry.Unrecoverable(sleepErr)
						}
					}
				}
				return err
			}
			out = resp
			return nil
		},
		retry.Attempts(maxAttempts),
		retry.Delay(w.delay),
		retry.MaxDelay(30*time.Second),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().Str("notifier", "discord").Uint("attempt", n).Err(err).Msg("retrying webhook call")
		}),
	)
	if err != nil && last != nil {
		return out, last
	}
	return out, err
}

func (w *Webhook) do(ctx context.Context, method, endpoint string, body []byte) (messageResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
	if err != nil {
		return messageResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return messageResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var parsed errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&parsed)
		apiErr := &APIError{Status: resp.StatusCode, Message: parsed.Message}
		if parsed.RetryAfter > 0 {
			apiErr.RetryAfter = time.Duration(parsed.RetryAfter * float64(time.Second))
		} else if header := resp.Header.Get("Retry-After"); header != "" {
			if secs, convErr := strconv.ParseFloat(header, 64); convErr == nil {
				apiErr.RetryAfter = time.Duration(secs * float64(time.Second))
			}
		}
		return messageResponse{}, apiErr
	}

	var out messageResponse
	if resp.StatusCode != http.StatusNoContent {
		_ = json.NewDecoder(resp.Body).Decode(&out)
	}
	return out, nil
}

// endpoint builds the execute URL (?wait=true so Discord returns the message) or,
// for an existing message, its edit URL. Query parameters such as thread_id are kept.
func (w *Webhook) endpoint(messageID string) (string, error) {
	u, err := url.Parse(w.url)
	if err != nil {
		return "", fmt.Errorf("invalid webhook url: %w", err)
	}
	q := u.Query()
	if messageID == "" {
		q.Set("wait", "true")
	} else {
		u.Path = strings.TrimSuffix(u.Path, "/") + "/messages/" + url.PathEscape(messageID)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
