package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/league-tracker/internal/domain/manager"
	"github.com/riskibarqy/league-tracker/internal/domain/player"
	"github.com/riskibarqy/league-tracker/internal/domain/roster"
	"github.com/riskibarqy/league-tracker/internal/domain/scoring"
	"github.com/riskibarqy/league-tracker/internal/domain/transaction"
	"github.com/riskibarqy/league-tracker/internal/usecase"
)

type state struct {
	rosters      map[string]map[int]roster.Snapshot
	managers     map[string]manager.Manager
	players      map[string]player.Player
	records      map[string][]scoring.Record
	transactions map[string]transaction.Transaction
}

func newState() *state {
	return &state{
		rosters:      make(map[string]map[int]roster.Snapshot),
		managers:     make(map[string]manager.Manager),
		players:      make(map[string]player.Player),
		records:      make(map[string][]scoring.Record),
		transactions: make(map[string]transaction.Transaction),
	}
}

func (s *state) clone() *state {
	out := newState()
	for leagueID, items := range s.rosters {
		copied := make(map[int]roster.Snapshot, len(items))
		for id, item := range items {
			copied[id] = item
		}
		out.rosters[leagueID] = copied
	}
	for id, item := range s.managers {
		out.managers[id] = item
	}
	for id, item := range s.players {
		out.players[id] = item
	}
	for id, items := range s.records {
		out.records[id] = append([]scoring.Record(nil), items...)
	}
	for id, item := range s.transactions {
		out.transactions[id] = item
	}
	return out
}

// view is how repositories reach the data. Writers must not capture values
// they do not own.
type view interface {
	read(fn func(*state))
	write(fn func(*state))
}

type lockedState struct {
	mu   sync.RWMutex
	data *state
}

func (l *lockedState) read(fn func(*state)) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fn(l.data)
}

func (l *lockedState) write(fn func(*state)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.data)
}

// stagedState applies writes to a private copy and journals them so they can
// be replayed onto the committed state.
type stagedState struct {
	lockedState
	journal []func(*state)
}

func (s *stagedState) write(fn func(*state)) {
	s.lockedState.write(fn)
	s.mu.Lock()
	s.journal = append(s.journal, fn)
	s.mu.Unlock()
}

// Store is an in-process implementation of every repository plus the
// UnitOfWork. Cycles are serialized store-wide.
type Store struct {
	committed *lockedState
	cycleMu   sync.Mutex
}

func NewStore() *Store {
	return &Store{committed: &lockedState{data: newState()}}
}

func (s *Store) Rosters() roster.Repository { return RosterRepository{v: s.committed} }
func (s *Store) Managers() manager.Repository { return ManagerRepository{v: s.committed} }
func (s *Store) Players() player.Repository { return PlayerRepository{v: s.committed} }
func (s *Store) Scores() scoring.RecordRepository { return ScoreRepository{v: s.committed} }
func (s *Store) Transactions() transaction.Repository { return TransactionRepository{v: s.committed} }

// WithinCycle runs fn against a staged copy of the store. The staged writes
// are replayed onto the store only when fn returns nil.
func (s *Store) WithinCycle(ctx context.Context, _ string, fn func(ctx context.Context, repos usecase.CycleRepositories) error) error {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	var snapshot *state
	s.committed.read(func(data *state) { snapshot = data.clone() })
	staged := &stagedState{lockedState: lockedState{data: snapshot}}

	if err := fn(ctx, cycleRepos{v: staged}); err != nil {
		return err
	}

	s.committed.write(func(data *state) {
		for _, apply := range staged.journal {
			apply(data)
		}
	})
	return nil
}

type cycleRepos struct {
	v view
}

func (r cycleRepos) Rosters() roster.Repository { return RosterRepository{v: r.v} }
func (r cycleRepos) Managers() manager.Repository { return ManagerRepository{v: r.v} }
func (r cycleRepos) Players() player.Repository { return PlayerRepository{v: r.v} }
func (r cycleRepos) Scores() scoring.RecordRepository { return ScoreRepository{v: r.v} }
func (r cycleRepos) Transactions() transaction.Repository { return TransactionRepository{v: r.v} }
