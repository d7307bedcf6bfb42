package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/riskibarqy/league-tracker/internal/platform/logging"
	"github.com/riskibarqy/league-tracker/internal/usecase"
	"golang.org/x/time/rate"
)

// telegramMaxMessage is the Bot API limit on one message body.
const telegramMaxMessage = 4096

const defaultTelegramSendInterval = 2 * time.Second

// TelegramSender is the part of tgbotapi.BotAPI the sink uses.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramConfig configures the chat sink. Kinds limits which notifications
// are posted; empty posts every kind.
type TelegramConfig struct {
	BotToken     string
	ChatID       int64
	SendInterval time.Duration
	Kinds        []usecase.NotificationKind
	Logger       *logging.Logger
}

// TelegramSink posts notification text to one chat. Sends are spaced by the
// configured interval to stay under the chat rate limit.
type TelegramSink struct {
	sender  TelegramSender
	chatID  int64
	limiter *rate.Limiter
	kinds   map[usecase.NotificationKind]struct{}
	logger  *logging.Logger
}

func NewTelegramSink(cfg TelegramConfig) (*TelegramSink, error) {
	token := strings.TrimSpace(cfg.BotToken)
	if token == "" {
		return nil, crerr.New("telegram bot token is required")
	}
	if cfg.ChatID == 0 {
		return nil, crerr.New("telegram chat id is required")
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, crerr.Wrap(err, "create telegram bot")
	}
	bot.Debug = false

	return NewTelegramSinkWithSender(bot, cfg), nil
}

func NewTelegramSinkWithSender(sender TelegramSender, cfg TelegramConfig) *TelegramSink {
	interval := cfg.SendInterval
	if interval <= 0 {
		interval = defaultTelegramSendInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	kinds := make(map[usecase.NotificationKind]struct{}, len(cfg.Kinds))
	for _, kind := range cfg.Kinds {
		kinds[kind] = struct{}{}
	}

	return &TelegramSink{
		sender:  sender,
		chatID:  cfg.ChatID,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		kinds:   kinds,
		logger:  logger.Named("telegram"),
	}
}

func (s *TelegramSink) Name() string {
	return "telegram"
}

func (s *TelegramSink) Deliver(ctx context.Context, item usecase.Notification) error {
	if !s.accepts(item.Kind) {
		return nil
	}
	text := strings.TrimSpace(item.Text)
	if text == "" {
		return nil
	}

	for i, part := range splitMessage(text, telegramMaxMessage) {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("wait for telegram send slot: %w", err)
		}
		msg := tgbotapi.NewMessage(s.chatID, part)
		msg.DisableWebPagePreview = true
		if _, err := s.sender.Send(msg); err != nil {
			return fmt.Errorf("send telegram message kind=%s part=%d: %w", item.Kind, i, err)
		}
	}
	s.logger.DebugContext(ctx, "telegram message sent", "kind", item.Kind, "league_id", item.LeagueID, "run_id", item.RunID)
	return nil
}

func (s *TelegramSink) accepts(kind usecase.NotificationKind) bool {
	if len(s.kinds) == 0 {
		return true
	}
	_, ok := s.kinds[kind]
	return ok
}

// splitMessage cuts text into parts of at most limit bytes, preferring line
// boundaries. A single line longer than limit is cut mid-line.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var parts []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, strings.TrimRight(current.String(), "\n"))
			current.Reset()
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			flush()
			parts = append(parts, line[:limit])
			line = line[limit:]
		}
		if current.Len()+len(line) > limit {
			flush()
		}
		current.WriteString(line)
	}
	flush()
	return parts
}
