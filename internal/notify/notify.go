// Package notify delivers alerts to an admin chat through a Telegram bot.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sethvargo/go-retry"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Three attempts total with a fixed delay between them.
const (
	maxRetries = 2
	retryDelay = 5 * time.Second
)

// Notifier sends alert messages to a fixed chat. Delivery is at-least-once:
// each send is retried a bounded number of times and a final failure is
// logged, never propagated.
type Notifier struct {
	api    telegramAPI
	chatID int64
	log    *slog.Logger
	delay  time.Duration
}

// New creates a Notifier with the given Telegram token and target chat.
func New(token string, chatID int64, log *slog.Logger) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	return &Notifier{api: api, chatID: chatID, log: log, delay: retryDelay}, nil
}

// TokenFound alerts that a red-packet password was extracted from a post.
func (n *Notifier) TokenFound(ctx context.Context, token, permalink string) {
	text := fmt.Sprintf("发现新的红包口令: %s\n\n口令: %s\n链接: %s\n\n请尽快使用！",
		token, token, permalink)
	n.send(ctx, text)
}

// AccountDisabled alerts that an account was pulled from the rotation pool.
func (n *Notifier) AccountDisabled(ctx context.Context, account, contact string, cause error) {
	text := fmt.Sprintf("【机器人告警】账号失效警告：%s\n\n账号 '%s' (联系人: %s) 已被自动禁用，最后一次错误: %v",
		account, account, contact, cause)
	n.send(ctx, text)
}

func (n *Notifier) send(ctx context.Context, text string) {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.DisableWebPagePreview = true

	backoff := retry.WithMaxRetries(maxRetries, retry.NewConstant(n.delay))
	err := retry.Do(ctx, backoff, func(_ context.Context) error {
		if _, err := n.api.Send(msg); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		n.log.Error("send alert", "chat_id", n.chatID, "error", err)
	}
}
