package notify

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/league-tracker/internal/usecase"
)

const defaultScoreboardTTL = 8 * 24 * time.Hour

// RedisConfig configures the scoreboard mirror. TTL bounds how long a week's
// boards survive; zero uses eight days.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisSink mirrors each committed scoreboard into sorted sets keyed by
// league and week, one for projected totals and one for current totals.
// Other notification kinds are ignored.
type RedisSink struct {
	client redis.Cmdable
	closer func() error
	ttl    time.Duration
}

func NewRedisSink(ctx context.Context, cfg RedisConfig) (*RedisSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	sink := NewRedisSinkWithClient(client, cfg.TTL)
	sink.closer = client.Close
	return sink, nil
}

func NewRedisSinkWithClient(client redis.Cmdable, ttl time.Duration) *RedisSink {
	if ttl <= 0 {
		ttl = defaultScoreboardTTL
	}
	return &RedisSink{client: client, ttl: ttl}
}

func (s *RedisSink) Name() string {
	return "redis"
}

func (s *RedisSink) Deliver(ctx context.Context, item usecase.Notification) error {
	if item.Kind != usecase.NotificationScoreboard || len(item.Records) == 0 {
		return nil
	}

	projectedKey := ScoreboardKey(item.LeagueID, item.Week, "projected")
	currentKey := ScoreboardKey(item.LeagueID, item.Week, "current")
	namesKey := ManagerNamesKey(item.LeagueID)

	projected := make([]redis.Z, 0, len(item.Records))
	current := make([]redis.Z, 0, len(item.Records))
	names := make(map[string]any, len(item.Records))
	for _, record := range item.Records {
		projected = append(projected, redis.Z{Score: record.Projected, Member: record.ManagerID})
		current = append(current, redis.Z{Score: record.Current, Member: record.ManagerID})
		names[record.ManagerID] = record.ManagerName
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, projectedKey, currentKey)
		pipe.ZAdd(ctx, projectedKey, projected...)
		pipe.ZAdd(ctx, currentKey, current...)
		pipe.Expire(ctx, projectedKey, s.ttl)
		pipe.Expire(ctx, currentKey, s.ttl)
		pipe.HSet(ctx, namesKey, names)
		pipe.Set(ctx, ScoreboardKey(item.LeagueID, item.Week, "run"), item.RunID, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("write scoreboard league_id=%s week=%d: %w", item.LeagueID, item.Week, err)
	}
	return nil
}

func (s *RedisSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// ScoreboardKey names one week's board, e.g. "league:123:week:6:projected".
func ScoreboardKey(leagueID string, week int, board string) string {
	return "league:" + leagueID + ":week:" + strconv.Itoa(week) + ":" + board
}

func ManagerNamesKey(leagueID string) string {
	return "league:" + leagueID + ":managers"
}
