package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	sonic "github.com/bytedance/sonic"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/league-tracker/internal/domain/scoring"
	"github.com/riskibarqy/league-tracker/internal/platform/logging"
	"github.com/riskibarqy/league-tracker/internal/usecase"
)

type recordingSender struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (s *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return tgbotapi.Message{}, s.err
	}
	msg, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		return tgbotapi.Message{}, errors.New("unexpected chattable")
	}
	s.texts = append(s.texts, msg.Text)
	return tgbotapi.Message{MessageID: len(s.texts)}, nil
}

func scoreboardNotification() usecase.Notification {
	recordedAt := time.Date(2025, 10, 12, 17, 0, 0, 0, time.UTC)
	return usecase.Notification{
		Kind:     usecase.NotificationScoreboard,
		RunID:    "run-1",
		LeagueID: "L1",
		Week:     6,
		Text:     "Week 6 projections:\n  1. alice 101.50 (now 40.00)\n",
		Records: []usecase.ScoreboardEntry{
			{Record: scoring.Record{ManagerID: "u-1", LeagueID: "L1", RosterID: 1, Week: 6, RecordedAt: recordedAt, Projected: 101.5, Current: 40}, ManagerName: "alice"},
		},
		CreatedAt: recordedAt,
	}
}

func TestTelegramSink_SendsTextAndHonorsKinds(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	sink := NewTelegramSinkWithSender(sender, TelegramConfig{
		ChatID:       42,
		SendInterval: time.Millisecond,
		Kinds:        []usecase.NotificationKind{usecase.NotificationLateSwap},
		Logger:       logging.NewNop(),
	})

	ctx := context.Background()
	if err := sink.Deliver(ctx, usecase.Notification{Kind: usecase.NotificationLateSwap, Text: "Boldly late move by alice"}); err != nil {
		t.Fatalf("deliver late swap: %v", err)
	}
	if err := sink.Deliver(ctx, scoreboardNotification()); err != nil {
		t.Fatalf("deliver scoreboard: %v", err)
	}
	if err := sink.Deliver(ctx, usecase.Notification{Kind: usecase.NotificationLateSwap, Text: "   "}); err != nil {
		t.Fatalf("deliver blank: %v", err)
	}

	if len(sender.texts) != 1 || sender.texts[0] != "Boldly late move by alice" {
		t.Fatalf("unexpected sent texts: %q", sender.texts)
	}
}

func TestTelegramSink_WrapsSendError(t *testing.T) {
	t.Parallel()

	sendErr := errors.New("too many requests")
	sink := NewTelegramSinkWithSender(&recordingSender{err: sendErr}, TelegramConfig{ChatID: 42, SendInterval: time.Millisecond})

	err := sink.Deliver(context.Background(), usecase.Notification{Kind: usecase.NotificationTransactions, Text: "digest"})
	if !errors.Is(err, sendErr) {
		t.Fatalf("expected wrapped send error, got %v", err)
	}
}

func TestNewTelegramSink_RequiresCredentials(t *testing.T) {
	t.Parallel()

	if _, err := NewTelegramSink(TelegramConfig{ChatID: 1}); err == nil {
		t.Fatalf("expected missing token error")
	}
	if _, err := NewTelegramSink(TelegramConfig{BotToken: "token"}); err == nil {
		t.Fatalf("expected missing chat id error")
	}
}

func TestSplitMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{name: "fits", text: "a\nb", limit: 10, want: []string{"a\nb"}},
		{name: "line boundaries", text: "aaaa\nbbbb\ncc", limit: 6, want: []string{"aaaa", "bbbb", "cc"}},
		{name: "long line", text: "abcdefgh", limit: 3, want: []string{"abc", "def", "gh"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := splitMessage(tc.text, tc.limit)
			if strings.Join(got, "|") != strings.Join(tc.want, "|") {
				t.Fatalf("splitMessage(%q, %d) = %q, want %q", tc.text, tc.limit, got, tc.want)
			}
		})
	}
}

func TestKafkaSink_PublishesEvent(t *testing.T) {
	t.Parallel()

	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got struct {
			Kind     string `json:"kind"`
			LeagueID string `json:"league_id"`
			Week     int    `json:"week"`
			Scores   []struct {
				ManagerID string  `json:"manager_id"`
				Projected float64 `json:"projected"`
			} `json:"scores"`
		}
		if err := sonic.Unmarshal(val, &got); err != nil {
			return err
		}
		if got.Kind != "scoreboard" || got.LeagueID != "L1" || got.Week != 6 {
			return errors.New("unexpected event header fields")
		}
		if len(got.Scores) != 1 || got.Scores[0].ManagerID != "u-1" || got.Scores[0].Projected != 101.5 {
			return errors.New("unexpected event scores")
		}
		return nil
	})

	sink := NewKafkaSinkWithProducer(producer, "league-events")
	if err := sink.Deliver(context.Background(), scoreboardNotification()); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestKafkaSink_ReturnsProducerError(t *testing.T) {
	t.Parallel()

	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	sink := NewKafkaSinkWithProducer(producer, "league-events")
	err := sink.Deliver(context.Background(), usecase.Notification{Kind: usecase.NotificationTransactions, LeagueID: "L1", Text: "digest"})
	if !errors.Is(err, sarama.ErrOutOfBrokers) {
		t.Fatalf("expected out of brokers error, got %v", err)
	}
	_ = sink.Close()
}

func TestRedisSink_IgnoresOtherKinds(t *testing.T) {
	t.Parallel()

	sink := NewRedisSinkWithClient(nil, 0)
	if err := sink.Deliver(context.Background(), usecase.Notification{Kind: usecase.NotificationLateSwap, Text: "x"}); err != nil {
		t.Fatalf("expected late swap to be ignored, got %v", err)
	}
	if err := sink.Deliver(context.Background(), usecase.Notification{Kind: usecase.NotificationScoreboard}); err != nil {
		t.Fatalf("expected empty scoreboard to be ignored, got %v", err)
	}
}

func TestRedisSink_ReportsUnreachableServer(t *testing.T) {
	t.Parallel()

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	sink := NewRedisSinkWithClient(client, time.Hour)
	if err := sink.Deliver(context.Background(), scoreboardNotification()); err == nil {
		t.Fatalf("expected error from unreachable redis")
	}
}

func TestScoreboardKeys(t *testing.T) {
	t.Parallel()

	if got := ScoreboardKey("L1", 6, "projected"); got != "league:L1:week:6:projected" {
		t.Fatalf("unexpected scoreboard key: %s", got)
	}
	if got := ManagerNamesKey("L1"); got != "league:L1:managers" {
		t.Fatalf("unexpected names key: %s", got)
	}
}
