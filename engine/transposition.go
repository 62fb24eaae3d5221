package engine

import (
	"unsafe"

	"heron-engine/heronmg"
)

// Bound flags stored with each entry.
const (
	AlphaFlag = iota // score is an upper bound
	BetaFlag         // score is a lower bound
	ExactFlag
)

// TTEntry is one transposition table slot. Mate scores are stored relative to
// the entry's node so they stay valid when probed at a different ply.
type TTEntry struct {
	Hash  uint64
	Move  heronmg.Move
	Score int16
	Depth int8
	Flag  int8
	Gen   uint8
}

// TransTable is a fixed-capacity hash table keyed by Zobrist hash modulo the
// slot count. A generation counter, bumped once per search, lets fresh
// entries evict leftovers from earlier searches.
type TransTable struct {
	entries []TTEntry
	gen     uint8
}

// NewTransTable allocates a table of approximately sizeMB megabytes.
func NewTransTable(sizeMB int) *TransTable {
	entrySize := uint64(unsafe.Sizeof(TTEntry{}))
	count := uint64(sizeMB) * 1024 * 1024 / entrySize
	if count == 0 {
		count = 1
	}
	return &TransTable{entries: make([]TTEntry, count)}
}

// Clear wipes every entry. Used on ucinewgame.
func (tt *TransTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.gen = 0
}

// NextGeneration marks the start of a new search.
func (tt *TransTable) NextGeneration() {
	tt.gen++
}

// Probe returns the entry for the hash. A full-hash match is required; an
// index collision alone never produces a hit.
func (tt *TransTable) Probe(hash uint64) (TTEntry, bool) {
	e := tt.entries[hash%uint64(len(tt.entries))]
	if e.Hash == hash && hash != 0 {
		return e, true
	}
	return TTEntry{}, false
}

// Store records an entry. The incumbent is kept only when it is for a
// different position, from the current search, and deeper than the new data.
func (tt *TransTable) Store(hash uint64, depth int8, ply int8, move heronmg.Move, score int32, flag int8) {
	idx := hash % uint64(len(tt.entries))
	e := &tt.entries[idx]

	if e.Hash != 0 && e.Hash != hash && e.Gen == tt.gen && e.Depth > depth {
		return
	}

	// Mate scores become distance-from-this-node on the way in.
	if score > int32(Checkmate) {
		score += int32(ply)
	} else if score < -int32(Checkmate) {
		score -= int32(ply)
	}

	// Keep the old move if the new search produced none for this position.
	if move == heronmg.NullMove && e.Hash == hash {
		move = e.Move
	}

	*e = TTEntry{
		Hash:  hash,
		Move:  move,
		Score: int16(Clamp(score, -int32(MaxScore), int32(MaxScore))),
		Depth: depth,
		Flag:  flag,
		Gen:   tt.gen,
	}
}

// Usable interprets a probed entry at the given node. It reports whether the
// stored score can cut the node off, and the score adjusted back to
// root-relative terms.
func (e *TTEntry) Usable(depth int8, alpha, beta int32, ply int8) (bool, int32) {
	if e.Depth < depth {
		return false, 0
	}
	score := int32(e.Score)
	if score > int32(Checkmate) {
		score -= int32(ply)
	} else if score < -int32(Checkmate) {
		score += int32(ply)
	}
	switch e.Flag {
	case ExactFlag:
		return true, score
	case AlphaFlag:
		if score <= alpha {
			return true, alpha
		}
	case BetaFlag:
		if score >= beta {
			return true, beta
		}
	}
	return false, 0
}
