package engine

import "heron-engine/heronmg"

const fiftyMoveLimit = 100

// stateStack tracks the Zobrist hashes of the game so far plus the current
// search line, so the search can recognize repetitions. Indexes at or beyond
// rootIndex belong to the line being searched.
type stateStack struct {
	hashes    []uint64
	rootIndex int
}

// reset seeds the stack with the pre-search game history followed by the
// current position, and marks the root.
func (s *stateStack) reset(history []uint64, current uint64) {
	s.hashes = append(s.hashes[:0], history...)
	// The caller may or may not include the current position at the top.
	if n := len(s.hashes); n == 0 || s.hashes[n-1] != current {
		s.hashes = append(s.hashes, current)
	}
	s.rootIndex = len(s.hashes) - 1
}

func (s *stateStack) push(hash uint64) {
	s.hashes = append(s.hashes, hash)
}

func (s *stateStack) pop() {
	s.hashes = s.hashes[:len(s.hashes)-1]
}

// isDraw reports whether the position on top of the stack is drawn by the
// fifty-move rule or by repetition. A position repeated twice before over the
// game is a draw; a single earlier occurrence counts too when it lies within
// the current search line, since the opponent can force the repetition again.
func (s *stateStack) isDraw(b *heronmg.Board) bool {
	if b.HalfmoveClock() >= fiftyMoveLimit {
		return true
	}

	top := len(s.hashes) - 1
	hash := s.hashes[top]

	// Repetitions can only occur since the last irreversible move.
	start := Max(top-b.HalfmoveClock(), 0)
	count := 0
	for i := top - 1; i >= start; i-- {
		if s.hashes[i] != hash {
			continue
		}
		if i >= s.rootIndex {
			return true
		}
		count++
		if count >= 2 {
			return true
		}
	}
	return false
}
