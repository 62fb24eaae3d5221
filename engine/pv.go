package engine

import (
	"strings"

	"heron-engine/heronmg"
)

// PVLine holds the principal variation from a node downward.
type PVLine struct {
	Moves []heronmg.Move
}

// Clear empties the line.
func (pv *PVLine) Clear() {
	pv.Moves = pv.Moves[:0]
}

// Update replaces the line with move followed by the child's line.
func (pv *PVLine) Update(move heronmg.Move, child PVLine) {
	pv.Moves = append(pv.Moves[:0], move)
	pv.Moves = append(pv.Moves, child.Moves...)
}

// Clone returns an independent copy of the line.
func (pv *PVLine) Clone() PVLine {
	return PVLine{Moves: append([]heronmg.Move(nil), pv.Moves...)}
}

// BestMove returns the first move of the line, or the null move when empty.
func (pv *PVLine) BestMove() heronmg.Move {
	if len(pv.Moves) == 0 {
		return heronmg.NullMove
	}
	return pv.Moves[0]
}

func (pv *PVLine) String() string {
	var sb strings.Builder
	for i, m := range pv.Moves {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(m.String())
	}
	return sb.String()
}
