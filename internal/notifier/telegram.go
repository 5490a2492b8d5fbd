package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"StockPulse/internal/model"
)

const (
	telegramAPI = "https://api.telegram.org"
	// maxMessageLen is the Bot API limit for one message text.
	maxMessageLen = 4096
	runRetries    = 3
)

// ErrDisabled is returned by Send when no bot token or chat is configured.
var ErrDisabled = errors.New("telegram notifier is not configured")

// APIError is a rejected Bot API call.
type APIError struct {
	Status      int
	Description string
	RetryAfter  time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram API error: status %d: %s", e.Status, e.Description)
}

// temporary reports whether resending the same message can succeed.
func (e *APIError) temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// TelegramNotifier delivers run digests, move alerts and command replies
// to one chat through the Telegram Bot API.
type TelegramNotifier struct {
	BotToken string
	ChatID   string
	APIBase  string
	Client   *http.Client
	// AlertThreshold is the absolute daily change percent that triggers a
	// move alert after a run. Zero turns alerts off.
	AlertThreshold float64

	backoff func(attempt int) time.Duration
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string) *TelegramNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TelegramNotifier{
		BotToken: botToken,
		ChatID:   chatID,
		APIBase:  telegramAPI,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

// Enabled reports whether a bot token and chat are configured.
func (t *TelegramNotifier) Enabled() bool {
	return t != nil && t.BotToken != "" && t.ChatID != ""
}

func (t *TelegramNotifier) endpoint(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", t.APIBase, t.BotToken, method)
}

// NotifyRun sends the digest of a completed refresh, followed by move alerts
// when AlertThreshold is set and a symbol moved that much.
func (t *TelegramNotifier) NotifyRun(ctx context.Context, s *model.Summary, profiles []*model.Profile) error {
	if !t.Enabled() {
		return nil
	}
	var errs []error
	for _, msg := range RunMessages(s, profiles, t.AlertThreshold) {
		if err := t.SendWithRetry(ctx, msg, runRetries); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Send delivers text to the configured chat. Texts longer than one Telegram
// message are split on line boundaries.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	if !t.Enabled() {
		return ErrDisabled
	}
	for _, part := range splitMessage(text, maxMessageLen) {
		if err := t.sendMessage(ctx, part); err != nil {
			return err
		}
	}
	return nil
}

func (t *TelegramNotifier) sendMessage(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{
		"chat_id":    t.ChatID,
		"text":       text,
		"parse_mode": "HTML",
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint("sendMessage"), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{Status: resp.StatusCode, Description: strings.TrimSpace(string(respBody))}
	var decoded struct {
		Description string `json:"description"`
		Parameters  struct {
			RetryAfter int `json:"retry_after"`
		} `json:"parameters"`
	}
	if json.Unmarshal(respBody, &decoded) == nil {
		if decoded.Description != "" {
			apiErr.Description = decoded.Description
		}
		apiErr.RetryAfter = time.Duration(decoded.Parameters.RetryAfter) * time.Second
	}
	return apiErr
}

// SendWithRetry sends a message with exponential backoff retry. Rejections
// that cannot succeed on resend, such as a bad token or chat, are returned at
// once; a rate limit waits for the delay Telegram asks for.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		err := t.Send(ctx, text)
		if err == nil {
			return nil
		}
		lastErr = err
		var apiErr *APIError
		if errors.Is(err, ErrDisabled) || (errors.As(err, &apiErr) && !apiErr.temporary()) {
			return err
		}
		if i == maxRetries {
			break
		}
		wait := t.wait(i)
		if apiErr != nil && apiErr.RetryAfter > 0 {
			wait = apiErr.RetryAfter
		}
		log.Printf("[WARN] Telegram send failed (attempt %d/%d): %v, retrying in %v", i+1, maxRetries+1, err, wait)
		if !sleepCtx(ctx, wait) {
			return ctx.Err()
		}
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}

func (t *TelegramNotifier) wait(attempt int) time.Duration {
	if t.backoff != nil {
		return t.backoff(attempt)
	}
	return time.Duration(1<<uint(attempt)) * time.Second
}

// splitMessage cuts text into parts of at most limit bytes, breaking after a
// newline when one is available so HTML tags on a line stay together.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var parts []string
	for len(text) > limit {
		cut := strings.LastIndexByte(text[:limit], '\n') + 1
		if cut == 0 {
			cut = limit
			for cut > 0 && !isRuneStart(text[cut]) {
				cut--
			}
			if cut == 0 {
				cut = limit
			}
		}
		parts = append(parts, text[:cut])
		text = text[cut:]
	}
	if text != "" {
		parts = append(parts, text)
	}
	return parts
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
