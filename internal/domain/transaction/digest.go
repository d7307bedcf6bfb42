package transaction

import (
	"sort"
	"strconv"

	"github.com/riskibarqy/league-tracker/internal/domain/manager"
	"github.com/riskibarqy/league-tracker/internal/domain/player"
	"github.com/valyala/bytebufferpool"
)

// NewSince returns the remote transactions whose id is not in known, ordered
// by creation time.
func NewSince(remote []Transaction, known []string) []Transaction {
	seen := make(map[string]struct{}, len(known))
	for _, id := range known {
		seen[id] = struct{}{}
	}

	out := make([]Transaction, 0, len(remote))
	for _, item := range remote {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// RenderDigest formats completed transactions as a chat message, one block
// per transaction. Failed and pending transactions are left out. rosterOwners
// maps roster id to manager id.
func RenderDigest(items []Transaction, rosterOwners map[int]string, managers manager.Index, players player.Index) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for _, item := range items {
		if item.Status != StatusComplete {
			continue
		}
		if buf.Len() > 0 {
			_, _ = buf.WriteString("\n")
		}

		_, _ = buf.WriteString(managers.NameOf(ownerOf(item, rosterOwners)))
		if item.Type == TypeWaiver {
			_, _ = buf.WriteString(" ($" + strconv.Itoa(item.WaiverBid) + ")")
		}
		_, _ = buf.WriteString("\n")

		for _, id := range sortedKeys(item.Adds) {
			_, _ = buf.WriteString("  + " + displayPlayer(players, id) + "\n")
		}
		for _, id := range sortedKeys(item.Drops) {
			_, _ = buf.WriteString("  \\- " + displayPlayer(players, id) + "\n")
		}
	}

	return buf.String()
}

func ownerOf(item Transaction, rosterOwners map[int]string) string {
	if len(item.RosterIDs) > 0 {
		if owner, ok := rosterOwners[item.RosterIDs[0]]; ok {
			return owner
		}
	}
	return item.CreatorID
}

func displayPlayer(players player.Index, id string) string {
	if p, ok := players.Get(id); ok {
		return p.Display()
	}
	return player.Player{ID: id}.Display()
}

func sortedKeys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
