package engine

import "heron-engine/heronmg"

// killerTable remembers up to two quiet moves per ply that caused a beta
// cutoff, so siblings can try them early.
type killerTable [MaxDepth + 1][2]heronmg.Move

func (k *killerTable) insert(move heronmg.Move, ply int8) {
	if move != k[ply][0] {
		k[ply][1] = k[ply][0]
		k[ply][0] = move
	}
}

func (k *killerTable) isKiller(move heronmg.Move, ply int8) bool {
	return move == k[ply][0] || move == k[ply][1]
}

func (k *killerTable) clear() {
	for ply := range k {
		k[ply][0] = heronmg.NullMove
		k[ply][1] = heronmg.NullMove
	}
}

// Keep history scores below the capture and killer ordering bands.
const historyMax = 10000

// historyTable scores quiet moves by side, from-square and to-square based on
// how often they caused beta cutoffs.
type historyTable [2][64][64]int32

func (h *historyTable) bonus(side heronmg.Color, move heronmg.Move, depth int8) {
	v := &h[side][move.From()][move.To()]
	*v += int32(depth) * int32(depth)
	if *v >= historyMax {
		h.age(side)
	}
}

// age halves every score so old preferences decay instead of saturating.
func (h *historyTable) age(side heronmg.Color) {
	for from := 0; from < 64; from++ {
		for to := 0; to < 64; to++ {
			h[side][from][to] /= 2
		}
	}
}

func (h *historyTable) probe(side heronmg.Color, move heronmg.Move) int32 {
	return h[side][move.From()][move.To()]
}

func (h *historyTable) clear() {
	*h = historyTable{}
}
