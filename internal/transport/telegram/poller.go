package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/sssalamanders/penny-lane/internal/core/domain"
	"github.com/sssalamanders/penny-lane/internal/core/port"
	"github.com/sssalamanders/penny-lane/internal/infra/config"
	"github.com/sssalamanders/penny-lane/internal/infra/logger"
	"github.com/sssalamanders/penny-lane/internal/usecase"
)

// Poller long-polls the Bot API and routes each update to the relay. Every
// update is handled on its own goroutine; the registration store is the
// only shared state underneath.
type Poller struct {
	bot   *tgbotapi.BotAPI
	relay *usecase.RelayService
	chat  port.ChatGateway
	cfg   *config.AppConfig
	log   *zap.Logger
}

// NewPoller constructs the update loop.
func NewPoller(bot *tgbotapi.BotAPI, relay *usecase.RelayService, chat port.ChatGateway, cfg *config.AppConfig, log *zap.Logger) *Poller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Poller{bot: bot, relay: relay, chat: chat, cfg: cfg, log: log}
}

// Run consumes updates until the context is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(p.cfg.Telegram.PollTimeout.Seconds())

	updates := p.bot.GetUpdatesChan(u)
	defer p.bot.StopReceivingUpdates()

	p.log.Info("polling for updates",
		zap.String("bot", p.bot.Self.UserName),
		zap.Int("poll_timeout_seconds", u.Timeout),
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go p.handleUpdate(ctx, update)
		}
	}
}

func (p *Poller) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return
	}

	chatCtx, ok := chatContextOf(msg.Chat)
	if !ok {
		// Channels and other chat kinds are out of scope.
		return
	}

	log := p.log.With(
		logger.Subject(msg.From.ID),
		zap.String("chat", logger.DigestID(msg.Chat.ID)),
		zap.String("chat_kind", string(chatCtx.Kind)),
	)
	log.Debug("update received")

	if !msg.IsCommand() {
		if chatCtx.Kind == domain.ChatPrivate {
			p.sendReply(ctx, chatCtx.ChatID, msg.MessageID, fallbackMessage, log)
		}
		return
	}

	cmd := domain.Command{
		SubjectID: msg.From.ID,
		Chat:      chatCtx,
		MessageID: msg.MessageID,
	}

	switch msg.Command() {
	case "bandaid", "start":
		outcome := p.relay.HandleCommand(ctx, cmd)
		log.Debug("command handled", zap.String("outcome", string(outcome)))
	case "help":
		p.sendReply(ctx, chatCtx.ChatID, msg.MessageID, helpMessage, log)
	case "status":
		// Status is a private-chat-only surface, same as the original.
		if chatCtx.Kind != domain.ChatPrivate {
			return
		}
		status := p.relay.Status()
		p.sendReply(ctx, chatCtx.ChatID, msg.MessageID,
			statusMessage(status, p.cfg.Registry), log)
	default:
		// Unknown commands stay silent in groups, get a nudge in private.
		if chatCtx.Kind == domain.ChatPrivate {
			p.sendReply(ctx, chatCtx.ChatID, msg.MessageID, fallbackMessage, log)
		}
	}
}

func (p *Poller) sendReply(ctx context.Context, chatID int64, messageID int, text string, log *zap.Logger) {
	if err := p.chat.Reply(ctx, chatID, messageID, text); err != nil {
		log.Warn("reply failed", zap.Error(err))
	}
}

// chatContextOf maps a Bot API chat to the core's context type. The second
// return is false for chat kinds the relay does not serve.
func chatContextOf(chat *tgbotapi.Chat) (domain.ChatContext, bool) {
	switch {
	case chat.IsPrivate():
		return domain.ChatContext{
			Kind:   domain.ChatPrivate,
			ChatID: chat.ID,
		}, true
	case chat.IsGroup(), chat.IsSuperGroup():
		return domain.ChatContext{
			Kind:       domain.ChatGroup,
			ChatID:     chat.ID,
			GroupID:    chat.ID,
			GroupTitle: chat.Title,
		}, true
	default:
		return domain.ChatContext{}, false
	}
}
