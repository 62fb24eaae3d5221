package engine

import "heron-engine/heronmg"

type scoredMove struct {
	move  heronmg.Move
	score uint16
}

type moveList struct {
	moves []scoredMove
}

// Most Valuable Victim - Least Valuable Aggressor; indexed [victim][attacker]
// by piece type. Any capture outranks the history band below.
var mvvLva = [7][7]uint16{
	{0, 0, 0, 0, 0, 0, 0},
	{0, 14, 13, 12, 11, 10, 9}, // victim Pawn
	{0, 24, 23, 22, 21, 20, 19}, // victim Knight
	{0, 34, 33, 32, 31, 30, 29}, // victim Bishop
	{0, 44, 43, 42, 41, 40, 39}, // victim Rook
	{0, 54, 53, 52, 51, 50, 49}, // victim Queen
	{0, 0, 0, 0, 0, 0, 0},
}

// Ordering bands, high to low: TT move, promotions, captures, killers,
// then history-scored quiets.
const (
	ttMoveScore     uint16 = 30000
	promotionOffset uint16 = 25000
	captureOffset   uint16 = 20000
	killerOffset    uint16 = 15000
)

// score fills the list with ordering scores for the given pseudo-legal moves.
func (ml *moveList) score(s *Search, b *heronmg.Board, moves []heronmg.Move, ply int8, ttMove heronmg.Move) {
	if cap(ml.moves) < len(moves) {
		ml.moves = make([]scoredMove, len(moves))
	}
	ml.moves = ml.moves[:len(moves)]

	side := b.SideToMove()
	for i, m := range moves {
		var v uint16
		switch {
		case m == ttMove:
			v = ttMoveScore
		case m.PromotionPieceType() != heronmg.PieceTypeNone:
			v = promotionOffset + uint16(pieceValue[m.PromotionPieceType()])
		case m.IsCapture():
			v = captureOffset + mvvLva[m.CapturedPiece().Type()][m.MovedPiece().Type()]
		case s.killers.isKiller(m, ply):
			if m == s.killers[ply][0] {
				v = killerOffset + 1
			} else {
				v = killerOffset
			}
		default:
			v = uint16(Clamp(s.history.probe(side, m), 0, historyMax))
		}
		ml.moves[i] = scoredMove{move: m, score: v}
	}
}

// next selection-sorts the highest-scored remaining move into position i and
// returns it. Cheaper than a full sort when a cutoff usually happens early.
func (ml *moveList) next(i int) heronmg.Move {
	best := i
	for j := i + 1; j < len(ml.moves); j++ {
		if ml.moves[j].score > ml.moves[best].score {
			best = j
		}
	}
	ml.moves[i], ml.moves[best] = ml.moves[best], ml.moves[i]
	return ml.moves[i].move
}
