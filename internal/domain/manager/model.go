package manager

import (
	"fmt"
	"strings"
	"time"
)

const avatarBaseURL = "https://sleepercdn.com/avatars/"

// Manager is one participant of the league.
type Manager struct {
	ID          string
	LeagueID    string
	DisplayName string
	TeamName    string
	Avatar      string
	UpdatedAt   time.Time
}

func (m Manager) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("manager id is required")
	}
	if strings.TrimSpace(m.LeagueID) == "" {
		return fmt.Errorf("manager league id is required")
	}
	return nil
}

// Name prefers the display name and falls back to the id.
func (m Manager) Name() string {
	if name := strings.TrimSpace(m.DisplayName); name != "" {
		return name
	}
	return m.ID
}

func (m Manager) AvatarURL() string {
	if m.Avatar == "" {
		return ""
	}
	return avatarBaseURL + m.Avatar
}

// Index maps manager id to manager.
type Index map[string]Manager

func NewIndex(items []Manager) Index {
	out := make(Index, len(items))
	for _, item := range items {
		out[item.ID] = item
	}
	return out
}

// NameOf returns the manager's name, or the id when the manager is unknown.
func (i Index) NameOf(id string) string {
	if m, ok := i[id]; ok {
		return m.Name()
	}
	return id
}
