package memory

import (
	"context"
	"sort"
	"time"

	"github.com/riskibarqy/league-tracker/internal/domain/scoring"
)

type ScoreRepository struct {
	v view
}

// Append keeps each manager's history sorted by time. A record whose
// (manager, time) key already exists is dropped.
func (r ScoreRepository) Append(_ context.Context, records []scoring.Record) error {
	if len(records) == 0 {
		return nil
	}
	owned := append([]scoring.Record(nil), records...)
	r.v.write(func(data *state) {
		for _, record := range owned {
			history := data.records[record.ManagerID]
			idx := sort.Search(len(history), func(i int) bool {
				return !history[i].RecordedAt.Before(record.RecordedAt)
			})
			if idx < len(history) && history[idx].RecordedAt.Equal(record.RecordedAt) {
				continue
			}
			history = append(history, scoring.Record{})
			copy(history[idx+1:], history[idx:])
			history[idx] = record
			data.records[record.ManagerID] = history
		}
	})
	return nil
}

func (r ScoreRepository) ListByManager(_ context.Context, managerID string, from, to time.Time) ([]scoring.Record, error) {
	out := make([]scoring.Record, 0)
	r.v.read(func(data *state) {
		for _, record := range data.records[managerID] {
			if !from.IsZero() && record.RecordedAt.Before(from) {
				continue
			}
			if !to.IsZero() && !record.RecordedAt.Before(to) {
				continue
			}
			out = append(out, record)
		}
	})
	return out, nil
}

func (r ScoreRepository) LatestByLeague(_ context.Context, leagueID string) ([]scoring.Record, error) {
	out := make([]scoring.Record, 0)
	r.v.read(func(data *state) {
		for _, history := range data.records {
			for i := len(history) - 1; i >= 0; i-- {
				if history[i].LeagueID == leagueID {
					out = append(out, history[i])
					break
				}
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ManagerID < out[j].ManagerID })
	return out, nil
}
