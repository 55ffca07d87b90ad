package dispatch

import (
	"sync"
	"sync/atomic"
)

// MemoEntry is the solved value of one state. A terminal entry has no choice;
// otherwise Slot and Trip name the winning move in canonical slot order.
type MemoEntry struct {
	Value    float64
	Terminal bool
	Slot     int
	Trip     *Trip
}

// MemoTable stores write-once memo entries keyed by FleetState.Key
type MemoTable interface {
	Load(key string) (*MemoEntry, bool)
	// Store keeps the first entry written for a key
	Store(key string, entry *MemoEntry)
	Len() int
}

// NewMemoTable returns a table safe for concurrent use when concurrent is set
func NewMemoTable(concurrent bool) MemoTable {
	if concurrent {
		return &syncMemo{}
	}
	return &mapMemo{entries: make(map[string]*MemoEntry)}
}

// mapMemo is the single goroutine table
type mapMemo struct {
	entries map[string]*MemoEntry
}

func (m *mapMemo) Load(key string) (*MemoEntry, bool) {
	entry, ok := m.entries[key]
	return entry, ok
}

func (m *mapMemo) Store(key string, entry *MemoEntry) {
	if _, exists := m.entries[key]; !exists {
		m.entries[key] = entry
	}
}

func (m *mapMemo) Len() int { return len(m.entries) }

// syncMemo shares entries between workers. Two workers may solve the same
// state; both reach the same value and the first insert wins.
type syncMemo struct {
	entries sync.Map // key: string -> *MemoEntry
	size    atomic.Int64
}

func (m *syncMemo) Load(key string) (*MemoEntry, bool) {
	entry, ok := m.entries.Load(key)
	if !ok {
		return nil, false
	}
	return entry.(*MemoEntry), true
}

func (m *syncMemo) Store(key string, entry *MemoEntry) {
	if _, loaded := m.entries.LoadOrStore(key, entry); !loaded {
		m.size.Add(1)
	}
}

func (m *syncMemo) Len() int { return int(m.size.Load()) }
