package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"aidigest/internal/domain"
	"aidigest/internal/ports"
)

// messageLimit is a conservative ceiling below Telegram's 4096-char cap.
const messageLimit = 3800

// Notifier posts digests and alerts to a Telegram channel via the bot API.
type Notifier struct {
	botToken  string
	channelID string
	apiBase   string
	client    *http.Client
}

var _ ports.Publisher = (*Notifier)(nil)

// NewNotifier registers bot token and channel identifier.
func NewNotifier(botToken, channelID string) *Notifier {
	return &Notifier{
		botToken:  botToken,
		channelID: channelID,
		apiBase:   "https://api.telegram.org",
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type apiResponse struct {
	OK     bool `json:"ok"`
	Result struct {
		MessageID int64  `json:"message_id"`
		Title     string `json:"title"`
		Type      string `json:"type"`
	} `json:"result"`
	Description string `json:"description"`
}

// SendDigest renders and posts the digest, falling back to the short
// format when the full rendering exceeds the message limit. The posted
// Telegram message id is returned.
func (n *Notifier) SendDigest(ctx context.Context, articles []domain.Article, date string) (int64, error) {
	message := FormatDigest(articles, date)
	if utf8.RuneCountInString(message) > messageLimit {
		message = FormatShortDigest(articles, date)
	}

	resp, err := n.call(ctx, "sendMessage", url.Values{
		"chat_id":                  {n.channelID},
		"text":                     {message},
		"parse_mode":               {"Markdown"},
		"disable_web_page_preview": {"true"},
	})
	if err != nil {
		return 0, fmt.Errorf("send digest: %w", err)
	}
	return resp.Result.MessageID, nil
}

// SendAlert posts a plain Markdown message to the channel.
func (n *Notifier) SendAlert(ctx context.Context, text string) error {
	_, err := n.call(ctx, "sendMessage", url.Values{
		"chat_id":    {n.channelID},
		"text":       {text},
		"parse_mode": {"Markdown"},
	})
	if err != nil {
		return fmt.Errorf("send alert: %w", err)
	}
	return nil
}

// TestConnection verifies the bot can see the channel and returns its title.
func (n *Notifier) TestConnection(ctx context.Context) (string, error) {
	resp, err := n.call(ctx, "getChat", url.Values{
		"chat_id": {n.channelID},
	})
	if err != nil {
		return "", fmt.Errorf("test connection: %w", err)
	}
	return resp.Result.Title, nil
}

func (n *Notifier) call(ctx context.Context, method string, form url.Values) (*apiResponse, error) {
	if n.botToken == "" || n.channelID == "" || n.client == nil {
		return nil, fmt.Errorf("telegram notifier misconfigured")
	}

	endpoint := fmt.Sprintf("%s/bot%s/%s", n.apiBase, n.botToken, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !parsed.OK {
		if parsed.Description == "" {
			parsed.Description = resp.Status
		}
		return nil, fmt.Errorf("telegram error: %s", parsed.Description)
	}
	return &parsed, nil
}
