// Package review holds parsed items between extraction and commit. Each
// bulk parse opens a session whose queue walks the items one at a time;
// every item is approved, rejected, or edited and re-decided before the
// batch can be committed.
package review

import (
	"errors"
	"sync"

	"github.com/mrlokans/pantry/internal/extraction"
)

type State string

const (
	StatePending  State = "pending"
	StateApproved State = "approved"
	StateRejected State = "rejected"
	StateEditing  State = "editing"
)

var (
	ErrNoActiveItem = errors.New("no item is awaiting review")
	ErrItemEditing  = errors.New("current item is being edited")
	ErrNotEditing   = errors.New("current item is not being edited")
)

type Item struct {
	Data  extraction.ParsedItem `json:"data"`
	State State                 `json:"state"`
}

// Queue walks parsed items strictly in order. The current item is the
// first one still pending or editing; items behind it are already decided.
// Safe for concurrent use.
type Queue struct {
	mu     sync.Mutex
	items  []Item
	cursor int
}

func NewQueue(items []extraction.ParsedItem) *Queue {
	q := &Queue{items: make([]Item, len(items))}
	for i, item := range items {
		q.items[i] = Item{Data: item, State: StatePending}
	}
	return q
}

// Items returns a snapshot of all items with their current states.
func (q *Queue) Items() []Item {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Item, len(q.items))
	copy(out, q.items)
	return out
}

// Current returns the index and data of the item awaiting a decision.
func (q *Queue) Current() (int, extraction.ParsedItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.done() {
		return 0, extraction.ParsedItem{}, false
	}
	return q.cursor, q.items[q.cursor].Data, true
}

// Complete reports whether every item has been decided.
func (q *Queue) Complete() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.done()
}

func (q *Queue) done() bool {
	return q.cursor >= len(q.items)
}

// Approve marks the current item as approved and advances the cursor.
func (q *Queue) Approve() error {
	return q.decide(StateApproved)
}

// Reject marks the current item as rejected and advances the cursor.
func (q *Queue) Reject() error {
	return q.decide(StateRejected)
}

func (q *Queue) decide(state State) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.done() {
		return ErrNoActiveItem
	}
	if q.items[q.cursor].State == StateEditing {
		return ErrItemEditing
	}
	q.items[q.cursor].State = state
	q.cursor++
	return nil
}

// StartEdit moves the current item into the editing state. The item stays
// current; it must be saved or cancelled before it can be decided.
func (q *Queue) StartEdit() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.done() {
		return ErrNoActiveItem
	}
	if q.items[q.cursor].State == StateEditing {
		return ErrItemEditing
	}
	q.items[q.cursor].State = StateEditing
	return nil
}

// SaveEdit replaces the current item's fields and returns it to pending.
// The replacement must already be validated and normalized.
func (q *Queue) SaveEdit(replacement extraction.ParsedItem) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.done() || q.items[q.cursor].State != StateEditing {
		return ErrNotEditing
	}
	q.items[q.cursor].Data = replacement
	q.items[q.cursor].State = StatePending
	return nil
}

// CancelEdit returns the current item to pending without changes.
func (q *Queue) CancelEdit() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.done() || q.items[q.cursor].State != StateEditing {
		return ErrNotEditing
	}
	q.items[q.cursor].State = StatePending
	return nil
}

// Approved returns the approved items in their original order.
func (q *Queue) Approved() []extraction.ParsedItem {
	q.mu.Lock()
	defer q.mu.Unlock()

	var approved []extraction.ParsedItem
	for _, item := range q.items {
		if item.State == StateApproved {
			approved = append(approved, item.Data)
		}
	}
	return approved
}

// Progress returns counts of decided and total items.
func (q *Queue) Progress() (decided, total int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.cursor, len(q.items)
}
