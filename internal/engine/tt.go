package engine

import "quantik/internal/quantik"

type Bound int8

const (
	BoundExact Bound = iota
	BoundLower       // true score >= Score
	BoundUpper       // true score <= Score
)

func (b Bound) String() string {
	switch b {
	case BoundExact:
		return "exact"
	case BoundLower:
		return "lower"
	case BoundUpper:
		return "upper"
	}
	return "?"
}

type ttEntry struct {
	Depth   int
	Score   int
	Bound   Bound
	Move    quantik.Move
	HasMove bool
}

// TranspositionTable caches search results by canonical position key.
// A position is always reached at the same ply within one decision (every
// move places one piece), so win scores need no ply adjustment.
type TranspositionTable struct {
	entries    map[quantik.Key]ttEntry
	maxEntries int

	hits, misses, clears int64
}

func NewTranspositionTable(maxEntries int) *TranspositionTable {
	if maxEntries <= 0 {
		maxEntries = defaultTTMaxEntries
	}
	return &TranspositionTable{
		entries:    make(map[quantik.Key]ttEntry, initialTTCap(maxEntries)),
		maxEntries: maxEntries,
	}
}

func initialTTCap(maxEntries int) int {
	if maxEntries < 1<<14 {
		return maxEntries
	}
	return 1 << 14
}

// Probe returns a usable score only when the stored depth covers depth and the
// bound settles the (alpha, beta) window.
func (t *TranspositionTable) Probe(key quantik.Key, depth, alpha, beta int) (int, bool) {
	e, ok := t.entries[key]
	if !ok || e.Depth < depth {
		t.misses++
		return 0, false
	}
	switch {
	case e.Bound == BoundExact,
		e.Bound == BoundLower && e.Score >= beta,
		e.Bound == BoundUpper && e.Score <= alpha:
		t.hits++
		return e.Score, true
	}
	t.misses++
	return 0, false
}

// Store keeps the deeper of the old and new result.
func (t *TranspositionTable) Store(key quantik.Key, depth, score int, bound Bound, mv quantik.Move, hasMove bool) {
	if len(t.entries) >= t.maxEntries {
		t.entries = make(map[quantik.Key]ttEntry, initialTTCap(t.maxEntries))
		t.clears++
	}
	old, ok := t.entries[key]
	if ok && depth < old.Depth {
		return
	}
	t.entries[key] = ttEntry{
		Depth:   depth,
		Score:   score,
		Bound:   bound,
		Move:    mv,
		HasMove: hasMove,
	}
}

// BestMove returns the move stored with key, used to try it first.
func (t *TranspositionTable) BestMove(key quantik.Key) (quantik.Move, bool) {
	e, ok := t.entries[key]
	if !ok || !e.HasMove {
		return quantik.Move{}, false
	}
	return e.Move, true
}

func (t *TranspositionTable) Len() int { return len(t.entries) }

func (t *TranspositionTable) Clear() {
	if len(t.entries) == 0 {
		return
	}
	t.entries = make(map[quantik.Key]ttEntry, initialTTCap(t.maxEntries))
}

type TTStats struct {
	Entries int
	Hits    int64
	Misses  int64
	Clears  int64
}

func (t *TranspositionTable) Stats() TTStats {
	return TTStats{Entries: len(t.entries), Hits: t.hits, Misses: t.misses, Clears: t.clears}
}
