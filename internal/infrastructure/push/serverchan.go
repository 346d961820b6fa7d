package push

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wesum/internal/domain"
	"wesum/internal/ports"
)

const defaultBaseURL = "https://sctapi.ftqq.com"

// Notifier pushes digests to WeChat through the ServerChan bridge.
type Notifier struct {
	sendKey string
	baseURL string
	client  *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers the ServerChan send key.
func NewNotifier(sendKey string) *Notifier {
	return &Notifier{
		sendKey: sendKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type pushResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Send posts the rendered digest; ServerChan treats the body as Markdown.
// Best effort, one attempt, no partial-delivery semantics.
func (n *Notifier) Send(ctx context.Context, msg domain.Message) error {
	if n.sendKey == "" || n.client == nil {
		return fmt.Errorf("serverchan notifier misconfigured")
	}

	endpoint := fmt.Sprintf("%s/%s.send", n.baseURL, n.sendKey)
	form := url.Values{}
	form.Set("title", msg.Title)
	form.Set("desp", msg.Body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("serverchan error: %s", resp.Status)
	}

	var decoded pushResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if decoded.Code != 0 {
		return fmt.Errorf("serverchan rejected push (code %d): %s", decoded.Code, decoded.Message)
	}

	return nil
}
