package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-tracker/internal/domain/lateswap"
	"github.com/riskibarqy/league-tracker/internal/usecase"
)

type KafkaConfig struct {
	Brokers  []string
	Topic    string
	ClientID string
}

// KafkaSink publishes every notification as one JSON event keyed by league
// id, so a league's events stay ordered within a partition.
type KafkaSink struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaSink(cfg KafkaConfig) (*KafkaSink, error) {
	if len(cfg.Brokers) == 0 {
		return nil, crerr.New("kafka brokers are required")
	}
	if cfg.Topic == "" {
		return nil, crerr.New("kafka topic is required")
	}

	config := sarama.NewConfig()
	config.ClientID = cfg.ClientID
	if config.ClientID == "" {
		config.ClientID = "league-tracker"
	}
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Return.Successes = true
	config.Producer.Return.Errors = true

	producer, err := sarama.NewSyncProducer(cfg.Brokers, config)
	if err != nil {
		return nil, crerr.Wrap(err, "create kafka producer")
	}
	return NewKafkaSinkWithProducer(producer, cfg.Topic), nil
}

func NewKafkaSinkWithProducer(producer sarama.SyncProducer, topic string) *KafkaSink {
	return &KafkaSink{producer: producer, topic: topic}
}

func (s *KafkaSink) Name() string {
	return "kafka"
}

func (s *KafkaSink) Deliver(ctx context.Context, item usecase.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := sonic.Marshal(newEvent(item))
	if err != nil {
		return fmt.Errorf("marshal notification event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(item.LeagueID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("kind"), Value: []byte(item.Kind)},
			{Key: []byte("run_id"), Value: []byte(item.RunID)},
		},
	}
	if _, _, err := s.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("publish notification kind=%s: %w", item.Kind, err)
	}
	return nil
}

func (s *KafkaSink) Close() error {
	return s.producer.Close()
}

type event struct {
	Kind      string       `json:"kind"`
	RunID     string       `json:"run_id"`
	LeagueID  string       `json:"league_id"`
	Week      int          `json:"week"`
	Text      string       `json:"text,omitempty"`
	Alerts    []alertEvent `json:"alerts,omitempty"`
	Scores    []scoreEvent `json:"scores,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

type alertEvent struct {
	RosterID     int         `json:"roster_id"`
	ManagerID    string      `json:"manager_id"`
	ManagerName  string      `json:"manager_name"`
	WithinWindow bool        `json:"within_window"`
	Swaps        []swapEvent `json:"swaps"`
}

type swapEvent struct {
	PlayerID       string `json:"player_id"`
	PlayerName     string `json:"player_name"`
	Position       string `json:"position"`
	Classification string `json:"classification"`
}

type scoreEvent struct {
	ManagerID   string    `json:"manager_id"`
	ManagerName string    `json:"manager_name"`
	RosterID    int       `json:"roster_id"`
	Projected   float64   `json:"projected"`
	Current     float64   `json:"current"`
	RecordedAt  time.Time `json:"recorded_at"`
}

func newEvent(item usecase.Notification) event {
	out := event{
		Kind:      string(item.Kind),
		RunID:     item.RunID,
		LeagueID:  item.LeagueID,
		Week:      item.Week,
		Text:      item.Text,
		CreatedAt: item.CreatedAt.UTC(),
	}
	for _, alert := range item.Alerts {
		out.Alerts = append(out.Alerts, newAlertEvent(alert))
	}
	for _, record := range item.Records {
		out.Scores = append(out.Scores, scoreEvent{
			ManagerID:   record.ManagerID,
			ManagerName: record.ManagerName,
			RosterID:    record.RosterID,
			Projected:   record.Projected,
			Current:     record.Current,
			RecordedAt:  record.RecordedAt.UTC(),
		})
	}
	return out
}

func newAlertEvent(alert lateswap.Alert) alertEvent {
	out := alertEvent{
		RosterID:     alert.RosterID,
		ManagerID:    alert.ManagerID,
		ManagerName:  alert.ManagerName,
		WithinWindow: alert.WithinWindow,
		Swaps:        make([]swapEvent, 0, len(alert.Swaps)),
	}
	for _, swap := range alert.Swaps {
		out.Swaps = append(out.Swaps, swapEvent{
			PlayerID:       swap.Player.ID,
			PlayerName:     swap.Player.FullName(),
			Position:       string(swap.Player.Position),
			Classification: string(swap.Classification),
		})
	}
	return out
}
