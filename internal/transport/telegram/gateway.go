// Package telegram adapts the Bot API to the relay's core interfaces. It is
// the only package that knows update shapes, chat member statuses, or how to
// address a chat.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Gateway implements port.ChatGateway on top of a Bot API client.
type Gateway struct {
	bot *tgbotapi.BotAPI
}

// NewGateway wraps the provided Bot API client.
func NewGateway(bot *tgbotapi.BotAPI) *Gateway {
	return &Gateway{bot: bot}
}

type adminCheckResult struct {
	admin bool
	err   error
}

// IsGroupAdmin resolves the subject's membership in the group and reports
// whether they hold the owner or administrator role. The Bot API client has
// no context support, so the call runs on its own goroutine and the result
// is discarded if the deadline fires first.
func (g *Gateway) IsGroupAdmin(ctx context.Context, subjectID, groupID int64) (bool, error) {
	resCh := make(chan adminCheckResult, 1)

	go func() {
		member, err := g.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
			ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
				ChatID: groupID,
				UserID: subjectID,
			},
		})
		if err != nil {
			resCh <- adminCheckResult{err: fmt.Errorf("get chat member: %w", err)}
			return
		}
		resCh <- adminCheckResult{admin: member.IsCreator() || member.IsAdministrator()}
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case res := <-resCh:
		return res.admin, res.err
	}
}

// DeliverPrivate sends a message visible only to the subject. In Telegram a
// private chat's id equals the user's id.
func (g *Gateway) DeliverPrivate(ctx context.Context, subjectID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(subjectID, text)
	if _, err := g.bot.Send(msg); err != nil {
		return fmt.Errorf("send private message: %w", err)
	}
	return nil
}

// Reply posts a non-sensitive acknowledgment into the originating chat,
// threaded onto the triggering message when one is known.
func (g *Gateway) Reply(ctx context.Context, chatID int64, messageID int, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if messageID != 0 {
		msg.ReplyToMessageID = messageID
	}
	if _, err := g.bot.Send(msg); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}
	return nil
}
