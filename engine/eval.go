package engine

import (
	"math/bits"

	"heron-engine/heronmg"
)

// Material values in centipawns, indexed by PieceType.
var pieceValue = [7]int32{0, 100, 310, 320, 500, 900, 0}

// Piece-square tables in visual order (rank 8 first), so the literals read
// like a board diagram. White squares index the table through sq^56.
var pawnPST = [64]int32{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int32{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int32{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPST = [64]int32{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

var queenPST = [64]int32{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var pstByType = [7]*[64]int32{
	nil, &pawnPST, &knightPST, &bishopPST, &rookPST, &queenPST, nil,
}

// Evaluate scores the position in centipawns from the side to move's
// perspective: material plus piece-square bonuses.
func Evaluate(b *heronmg.Board) int32 {
	var score int32 // from White's perspective

	for pt := heronmg.PieceTypePawn; pt <= heronmg.PieceTypeQueen; pt++ {
		pst := pstByType[pt]
		for bb := b.Pieces(heronmg.White, pt); bb != 0; {
			sq := bits.TrailingZeros64(bb)
			bb &= bb - 1
			score += pieceValue[pt] + pst[sq^56]
		}
		for bb := b.Pieces(heronmg.Black, pt); bb != 0; {
			sq := bits.TrailingZeros64(bb)
			bb &= bb - 1
			score -= pieceValue[pt] + pst[sq]
		}
	}

	if b.SideToMove() == heronmg.Black {
		return -score
	}
	return score
}
