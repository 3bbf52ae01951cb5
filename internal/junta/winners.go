package junta

// winnerRegistry is an arena of slots plus a live count. Slots are appended
// in completion order and never compacted: removing a winner tombstones the
// slot so that any snapshot taken earlier still resolves the same index to
// the same player. Count is the authoritative divisor for all per-winner
// shares; callers must guard the zero-winner case before dividing.
type winnerRegistry struct {
	slots []string
	live  int
}

// tombstone marks a removed winner's slot. Player IDs are never empty, so
// the empty string is unambiguous.
const tombstone = ""

func (w *winnerRegistry) add(player string) int {
	w.slots = append(w.slots, player)
	w.live++
	return len(w.slots) - 1
}

func (w *winnerRegistry) removeAt(index int) {
	if index < 0 || index >= len(w.slots) || w.slots[index] == tombstone {
		return
	}
	w.slots[index] = tombstone
	w.live--
}

func (w *winnerRegistry) count() int {
	return w.live
}

// players returns the live winners in slot order.
func (w *winnerRegistry) players() []string {
	out := make([]string, 0, w.live)
	for _, p := range w.slots {
		if p != tombstone {
			out = append(out, p)
		}
	}
	return out
}
