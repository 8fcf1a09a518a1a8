package transposition

import (
	"sync"
	"sync/atomic"

	chess "github.com/notnil/chess"
)

// NodeType describes how trustworthy a cached score is.
type NodeType uint8

const (
	// PV entries hold an exact score.
	PV NodeType = iota
	// All entries hold an upper bound, no move raised alpha past it.
	All
	// Cut entries hold a lower bound from a beta cutoff.
	Cut
)

// Entry is the best knowledge the table has for one position.
type Entry struct {
	BestResponse *chess.Move
	Depth        int
	Score        int
	Node         NodeType
	Age          int32
}

// ProbeKind tags the outcome of a table probe.
type ProbeKind uint8

const (
	// Miss means the position is not in the table, a full search is required.
	Miss ProbeKind = iota
	// OrderingHint means an entry exists but its depth is insufficient to
	// trust the score, only the stored move is usable for move ordering.
	OrderingHint
	// SearchResult means the entry is deep and tight enough to replace the
	// search of this subtree entirely.
	SearchResult
)

// ProbeResult is the outcome of a table probe. Move is set for OrderingHint
// and SearchResult, Score only for SearchResult.
type ProbeResult struct {
	Kind  ProbeKind
	Move  *chess.Move
	Score int
}

// Stats is a snapshot of the table's counters.
type Stats struct {
	Lookups uint64
	Hits    uint64
	Stores  uint64
	Prunes  uint64
}

// DefaultLimit is the default entry ceiling.
const DefaultLimit = 2 << 20

// Table is a transposition table shared by all search branches. Entries are
// keyed by position hash and individually visible atomically, callers never
// hold a lock across operations.
type Table struct {
	entries sync.Map // [16]byte position hash -> Entry
	size    atomic.Int64
	oldest  atomic.Int32 // oldest acceptable age, advanced by Age
	limit   int

	lookups atomic.Uint64
	hits    atomic.Uint64
	stores  atomic.Uint64
	prunes  atomic.Uint64
}

// New returns an empty table holding at most limit entries.
func New(limit int) *Table {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Table{limit: limit}
}

// Probe looks the position up for a search of the given remaining depth and
// [alpha, beta] window. Entries stored at insufficient depth degrade to an
// OrderingHint, as do bound entries whose bound no longer applies.
func (t *Table) Probe(pos *chess.Position, depth, alpha, beta int) ProbeResult {
	t.lookups.Add(1)
	v, ok := t.entries.Load(pos.Hash())
	if !ok {
		return ProbeResult{Kind: Miss}
	}
	entry := v.(Entry)
	if entry.Depth < depth {
		return ProbeResult{Kind: OrderingHint, Move: entry.BestResponse}
	}
	switch entry.Node {
	case PV:
		t.hits.Add(1)
		return ProbeResult{Kind: SearchResult, Move: entry.BestResponse, Score: entry.Score}
	case All:
		if entry.Score <= alpha {
			t.hits.Add(1)
			return ProbeResult{Kind: SearchResult, Move: entry.BestResponse, Score: alpha}
		}
	case Cut:
		if entry.Score >= beta {
			t.hits.Add(1)
			return ProbeResult{Kind: SearchResult, Move: entry.BestResponse, Score: beta}
		}
	}
	return ProbeResult{Kind: OrderingHint, Move: entry.BestResponse}
}

// Insert stores the entry for the position, replacing an existing entry only
// when the new one was searched at least as deep. A fresh position is always
// inserted. When the table is near its ceiling a prune pass runs first, so
// the size bound holds after every insert.
func (t *Table) Insert(pos *chess.Position, entry Entry) {
	t.stores.Add(1)
	for t.size.Load()+1 > int64(t.limit) {
		t.prune()
		if t.size.Load() == 0 {
			break
		}
	}
	key := pos.Hash()
	if v, ok := t.entries.Load(key); ok {
		if v.(Entry).Depth > entry.Depth {
			return
		}
		t.entries.Store(key, entry)
		return
	}
	if _, loaded := t.entries.LoadOrStore(key, entry); !loaded {
		t.size.Add(1)
	}
}

// Age increments every stored entry's age and advances the oldest acceptable
// age. Called once per completed search cycle, not per node, so the table
// stays useful across a whole game while progressively losing relevance.
func (t *Table) Age() {
	t.entries.Range(func(k, v any) bool {
		entry := v.(Entry)
		entry.Age++
		t.entries.Store(k, entry)
		return true
	})
	t.oldest.Add(1)
}

// prune removes every entry at least as old as the current threshold, then
// relaxes the threshold by one so the next pass reaches younger entries only
// if pressure persists.
func (t *Table) prune() {
	t.prunes.Add(1)
	threshold := t.oldest.Load()
	var removed int64
	t.entries.Range(func(k, v any) bool {
		if v.(Entry).Age >= threshold {
			t.entries.Delete(k)
			removed++
		}
		return true
	})
	t.size.Add(-removed)
	t.oldest.Add(-1)
}

// Len returns the number of stored entries.
func (t *Table) Len() int {
	return int(t.size.Load())
}

// Stats returns a snapshot of the table's counters.
func (t *Table) Stats() Stats {
	return Stats{
		Lookups: t.lookups.Load(),
		Hits:    t.hits.Load(),
		Stores:  t.stores.Load(),
		Prunes:  t.prunes.Load(),
	}
}
