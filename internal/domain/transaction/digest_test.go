package transaction

import (
	"testing"
	"time"

	"github.com/riskibarqy/league-tracker/internal/domain/manager"
	"github.com/riskibarqy/league-tracker/internal/domain/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSince_FiltersKnownAndOrders(t *testing.T) {
	base := time.Date(2025, 10, 8, 9, 0, 0, 0, time.UTC)
	remote := []Transaction{
		{ID: "t3", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "t1", CreatedAt: base},
		{ID: "t2", CreatedAt: base.Add(time.Hour)},
		{ID: "t2", CreatedAt: base.Add(time.Hour)},
	}

	got := NewSince(remote, []string{"t1"})

	require.Len(t, got, 2)
	assert.Equal(t, "t2", got[0].ID)
	assert.Equal(t, "t3", got[1].ID)
}

func TestRenderDigest(t *testing.T) {
	managers := manager.NewIndex([]manager.Manager{
		{ID: "u1", DisplayName: "sam"},
		{ID: "u2", DisplayName: "alex"},
	})
	players := player.NewIndex([]player.Player{
		{ID: "100", FirstName: "Puka", LastName: "Nacua", Position: player.PositionWideReceiver},
		{ID: "200", FirstName: "Zack", LastName: "Moss", Position: player.PositionRunningBack},
	})
	owners := map[int]string{1: "u1", 2: "u2"}

	text := RenderDigest([]Transaction{
		{ID: "a", Type: TypeWaiver, Status: StatusComplete, RosterIDs: []int{1}, WaiverBid: 17, Adds: map[string]int{"100": 1}, Drops: map[string]int{"200": 1}},
		{ID: "b", Type: TypeWaiver, Status: StatusFailed, RosterIDs: []int{2}, Adds: map[string]int{"100": 2}},
		{ID: "c", Type: TypeFreeAgent, Status: StatusComplete, RosterIDs: []int{2}, Adds: map[string]int{"300": 2}},
	}, owners, managers, players)

	want := "sam ($17)\n" +
		"  + [WR] Puka Nacua\n" +
		"  \\- [RB] Zack Moss\n" +
		"\n" +
		"alex\n" +
		"  + [?] 300\n"
	assert.Equal(t, want, text)
}

func TestRenderDigest_Empty(t *testing.T) {
	assert.Empty(t, RenderDigest(nil, nil, nil, nil))
}
