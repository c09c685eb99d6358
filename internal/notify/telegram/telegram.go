package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/rs/zerolog/log"

	appErr "seminar-reminder/internal/errors"
	"seminar-reminder/internal/model"
)

const (
	DefaultAPIBase = "https://api.telegram.org"
	messageLimit   = 4096
)

type Sender struct {
	apiBase  string
	token    string
	chat     string
	threadID *int
	mention  string

	client       *http.Client
	mu           sync.Mutex
	minInterval  time.Duration
	lastSentTime time.Time
	retryDelay   time.Duration
}

func NewSender(token, chat string, threadID *int, mention string, client *http.Client) *Sender {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Sender{
		apiBase:     DefaultAPIBase,
		token:       token,
		chat:        chat,
		threadID:    threadID,
		mention:     mention,
		client:      client,
		minInterval: 1200 * time.Millisecond,
		retryDelay:  time.Second,
	}
}

// APIError is an unsuccessful Bot API reply.
type APIError struct {
	Status      int
	Description string
	RetryAfter  time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram error: %d %s", e.Status, e.Description)
}

func hasDescription(err error, fragment string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && strings.Contains(strings.ToLower(apiErr.Description), fragment)
}

func (s *Sender) SendSeminar(ctx context.Context, a model.Announcement) error {
	text := formatMessage(a, s.mention)
	for _, part := range splitMessage(text, messageLimit) {
		if _, err := s.call(ctx, "sendMessage", s.messagePayload(part)); err != nil {
			return appErr.NewNotify("send %s: %w", a.Seminar.ID, err)
		}
	}
	log.Info().Str("notifier", "telegram").Str("seminar_id", a.Seminar.ID).Msg("telegram alert sent")
	return nil
}

func (s *Sender) PublishStatus(ctx context.Context, ref string, summary model.RunSummary) (string, error) {
	text := formatStatus(summary)

	if ref != "" {
		if id, convErr := strconv.Atoi(ref); convErr == nil {
			payload := map[string]any{
				"chat_id":    s.chat,
				"message_id": id,
				"text":       text,
				"parse_mode": "HTML",
			}
			_, err := s.call(ctx, "editMessageText", payload)
			switch {
			case err == nil, hasDescription(err, "message is not modified"):
				return ref, nil
			case hasDescription(err, "message to edit not found"):
				log.Info().Str("notifier", "telegram").Str("message_id", ref).Msg("status message was deleted; recreating")
			default:
				return ref, appErr.NewNotify("edit status %s: %w", ref, err)
			}
		}
	}

	msg, err := s.call(ctx, "sendMessage", s.messagePayload(text))
	if err != nil {
		return ref, appErr.NewNotify("create status: %w", err)
	}
	return strconv.Itoa(msg.MessageID), nil
}

func (s *Sender) messagePayload(text string) map[string]any {
	payload := map[string]any{
		"chat_id":                  s.chat,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}
	if s.threadID != nil {
		payload["message_thread_id"] = *s.threadID
	}
	return payload
}

// call serialises requests so consecutive messages are at least minInterval apart.
func (s *Sender) call(ctx context.Context, method string, payload map[string]any) (telegramMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if wait := time.Until(s.lastSentTime.Add(s.minInterval)); wait > 0 {
		if err := sleep(ctx, wait); err != nil {
			return telegramMessage{}, err
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return telegramMessage{}, err
	}

	var (
		out  telegramMessage
		last error
	)
	err = retry.Do(
		func() error {
			msg, err := s.post(ctx, method, body)
			if err != nil {
				last = err
				var apiErr *APIError
				if errors.As(err, &apiErr) {
					if apiErr.RetryAfter > 0 {
						log.Warn().Str("notifier", "telegram").Dur("retry_after", apiErr.RetryAfter).Msg("telegram rate limit hit")
						if sleepErr := sleep(ctx, apiErr.RetryAfter); sleepErr != nil {
							return retry.Unrecoverable(sleepErr)
						}
						return err
					}
					if apiErr.Status < 500 && apiErr.Status != http.StatusTooManyRequests {
						return retry.Unrecoverable(err)
					}
				}
				return err
			}
			out = msg
			return nil
		},
		retry.Attempts(3),
		retry.Delay(s.retryDelay),
		retry.MaxDelay(30*time.Second),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().Str("notifier", "telegram").Str("method", method).Uint("attempt", n).Err(err).Msg("retrying bot api call")
		}),
	)
	s.lastSentTime = time.Now()
	if err != nil && last != nil {
		return out, last
	}
	return out, err
}

func (s *Sender) post(ctx context.Context, method string, body []byte) (telegramMessage, error) {
	endpoint := fmt.Sprintf("%s/bot%s/%s", strings.TrimSuffix(s.apiBase, "/"), s.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return telegramMessage{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return telegramMessage{}, err
	}
	defer resp.Body.Close()

	var parsed telegramResponse
	_ = json.NewDecoder(resp.Body).Decode(&parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !parsed.OK {
		apiErr := &APIError{Status: resp.StatusCode, Description: parsed.Description}
		if parsed.ErrorCode != 0 {
			apiErr.Status = parsed.ErrorCode
		}
		if resp.StatusCode == http.StatusTooManyRequests && parsed.Parameters.RetryAfter > 0 {
			apiErr.RetryAfter = time.Duration(parsed.Parameters.RetryAfter) * time.Second
		}
		return telegramMessage{}, apiErr
	}

	var msg telegramMessage
	if len(parsed.Result) > 0 {
		// editMessageText may answer with a bare true
		_ = json.Unmarshal(parsed.Result, &msg)
	}
	return msg, nil
}

type telegramResponse struct {
	OK          bool            `json:"ok"`
	ErrorCode   int             `json:"error_code"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
	Parameters  struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters"`
}

type telegramMessage struct {
	MessageID int `json:"message_id"`
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
