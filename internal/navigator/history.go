package navigator

import (
	"github.com/google/uuid"
	"github.com/vidyasagar/bpexplorer/internal/blueprint"
)

const (
	// DefaultMaxHistory is the history bound used by the app when the
	// config does not set one.
	DefaultMaxHistory = 100
	// MaxHistorySize is the largest bound accepted.
	MaxHistorySize = 10000
)

// Entry is one visited blueprint. Entries are never modified after creation.
type Entry struct {
	Handle *blueprint.Handle
	Name   string
}

// ID returns the identifier of the visited blueprint.
func (e Entry) ID() uuid.UUID {
	return e.Handle.ID
}

// history is a linear visit list with a cursor. Pushing from the middle
// drops everything after the cursor.
type history struct {
	entries []Entry
	pos     int // 0 when empty
	max     int // 0 = unbounded
}

func newHistory(max int) history {
	if max < 0 {
		max = 0
	}
	if max > MaxHistorySize {
		max = MaxHistorySize
	}
	return history{max: max}
}

// push appends h after the cursor, truncating forward entries, and moves
// the cursor to the new last entry. The oldest entry is evicted when the
// bound is exceeded.
func (h *history) push(bp *blueprint.Handle) {
	if len(h.entries) > 0 && h.pos < len(h.entries)-1 {
		// Clear the dropped tail so the handles can be collected.
		clear(h.entries[h.pos+1:])
		h.entries = h.entries[:h.pos+1]
	}
	h.entries = append(h.entries, Entry{Handle: bp, Name: bp.Name})

	if h.max > 0 && len(h.entries) > h.max {
		drop := len(h.entries) - h.max
		kept := make([]Entry, h.max)
		copy(kept, h.entries[drop:])
		h.entries = kept
	}
	h.pos = len(h.entries) - 1
}

// clear empties the history and resets the cursor.
func (h *history) clear() {
	h.entries = nil
	h.pos = 0
}

// inRange reports whether i indexes an entry.
func (h *history) inRange(i int) bool {
	return i >= 0 && i < len(h.entries)
}

// current returns the entry under the cursor.
func (h *history) current() (Entry, bool) {
	if !h.inRange(h.pos) {
		return Entry{}, false
	}
	return h.entries[h.pos], true
}

func (h *history) len() int {
	return len(h.entries)
}

func (h *history) snapshot() []Entry {
	result := make([]Entry, len(h.entries))
	copy(result, h.entries)
	return result
}
