package heronmg

// Perft counts the leaf nodes of the legal move tree to the given depth.
// It reuses one move buffer per ply to keep the hot loop allocation free.
func Perft(t *AttackTables, b *Board, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	bufs := make([][]Move, depth)
	for i := range bufs {
		bufs[i] = make([]Move, 0, 256)
	}
	return perftRec(t, b, depth, bufs)
}

func perftRec(t *AttackTables, b *Board, depth int, bufs [][]Move) uint64 {
	moves := b.PseudoMovesInto(t, bufs[depth-1])
	if depth == 1 {
		// At the horizon only the legality check matters, not the subtree.
		var nodes uint64
		for _, m := range moves {
			if ok, st := b.MakeMove(t, m); ok {
				b.UnmakeMove(m, st)
				nodes++
			}
		}
		return nodes
	}

	var nodes uint64
	for _, m := range moves {
		if ok, st := b.MakeMove(t, m); ok {
			nodes += perftRec(t, b, depth-1, bufs)
			b.UnmakeMove(m, st)
		}
	}
	return nodes
}

// PerftDivide maps each legal root move to the leaf count of its subtree at
// the given depth. Useful for diffing against another engine's divide output.
func PerftDivide(t *AttackTables, b *Board, depth int) map[Move]uint64 {
	result := make(map[Move]uint64)
	if depth <= 0 {
		return result
	}
	for _, m := range b.LegalMoves(t) {
		ok, st := b.MakeMove(t, m)
		if !ok {
			continue
		}
		result[m] = Perft(t, b, depth-1)
		b.UnmakeMove(m, st)
	}
	return result
}
