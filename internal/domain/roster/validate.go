package roster

import "fmt"

// Validate checks that starters and reserve are subsets of players.
func Validate(s Snapshot) error {
	if s.RosterID <= 0 {
		return fmt.Errorf("%w: roster id must be > 0", ErrInvariantViolation)
	}

	onRoster := make(map[string]struct{}, len(s.Players))
	for _, id := range s.Players {
		onRoster[id] = struct{}{}
	}

	for _, id := range s.Starters {
		if isEmptySlot(id) {
			continue
		}
		if _, ok := onRoster[id]; !ok {
			return fmt.Errorf("%w: roster %d starter %s is not on the roster", ErrInvariantViolation, s.RosterID, id)
		}
	}
	for _, id := range s.Reserve {
		if isEmptySlot(id) {
			continue
		}
		if _, ok := onRoster[id]; !ok {
			return fmt.Errorf("%w: roster %d reserve player %s is not on the roster", ErrInvariantViolation, s.RosterID, id)
		}
	}

	return nil
}

func isEmptySlot(id string) bool {
	return id == "" || id == EmptySlot
}
