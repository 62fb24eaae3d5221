package heronmg

// Move generation is pseudo-legal: piece rules and blockers are enforced here,
// and MakeMove rejects anything that leaves the mover's king attacked. The one
// exception is castling, which is emitted fully legal (rights, empty path,
// king not in or passing through check) because MakeMove only examines the
// king's final square.

const (
	genAll = iota
	genCaptures
)

// IsSquareAttacked reports whether the given square is attacked by the given color.
func (b *Board) IsSquareAttacked(t *AttackTables, sq Square, by Color) bool {
	return b.isAttackedWithOcc(t, int(sq), by, b.AllOccupancy())
}

func (b *Board) isAttackedWithOcc(t *AttackTables, s int, by Color, occ uint64) bool {
	bi := int(by)

	// A pawn of color 'by' attacks s iff a pawn of the other color on s
	// would attack the pawn's square, so probe the reversed table.
	if t.pawn[1-by][s]&b.pawns[bi] != 0 {
		return true
	}
	if t.knight[s]&b.knights[bi] != 0 {
		return true
	}
	if t.king[s]&b.kings[bi] != 0 {
		return true
	}
	if t.RookAttacks(s, occ)&(b.rooks[bi]|b.queens[bi]) != 0 {
		return true
	}
	if t.BishopAttacks(s, occ)&(b.bishops[bi]|b.queens[bi]) != 0 {
		return true
	}
	return false
}

// InCheck reports whether the specified color's king is currently attacked.
func (b *Board) InCheck(t *AttackTables, color Color) bool {
	ksq := b.KingSquare(color)
	if ksq == NoSquare {
		return false
	}
	return b.IsSquareAttacked(t, ksq, 1-color)
}

// PseudoMovesInto appends all pseudo-legal moves for the side to move into dst
// and returns it. dst is truncated first so buffers can be reused in hot paths.
// Output order is deterministic for identical board state.
func (b *Board) PseudoMovesInto(t *AttackTables, dst []Move) []Move {
	return b.pseudoMovesFiltered(t, dst, genAll)
}

// CapturesInto appends pseudo-legal captures and promotions into dst.
// This is the quiescence move set.
func (b *Board) CapturesInto(t *AttackTables, dst []Move) []Move {
	return b.pseudoMovesFiltered(t, dst, genCaptures)
}

func (b *Board) pseudoMovesFiltered(t *AttackTables, dst []Move, filter int) []Move {
	moves := dst[:0]
	side := b.sideToMove
	us := int(side)
	them := 1 - us

	ownOcc := b.occupancy[us]
	oppOcc := b.occupancy[them]
	allOcc := ownOcc | oppOcc

	moves = b.pawnMoves(t, moves, filter, oppOcc, allOcc)

	appendTargets := func(from int, targets uint64) {
		fromSq := Square(from)
		moved := b.pieces[from]
		for targets != 0 {
			to := popLSB(&targets)
			moves = append(moves, NewMove(fromSq, Square(to), moved, b.pieces[to], NoPiece, FlagNone))
		}
	}

	for pieces := b.knights[us]; pieces != 0; {
		from := popLSB(&pieces)
		targets := t.knight[from] &^ ownOcc
		if filter == genCaptures {
			targets &= oppOcc
		}
		appendTargets(from, targets)
	}

	for pieces := b.bishops[us]; pieces != 0; {
		from := popLSB(&pieces)
		targets := t.BishopAttacks(from, allOcc) &^ ownOcc
		if filter == genCaptures {
			targets &= oppOcc
		}
		appendTargets(from, targets)
	}

	for pieces := b.rooks[us]; pieces != 0; {
		from := popLSB(&pieces)
		targets := t.RookAttacks(from, allOcc) &^ ownOcc
		if filter == genCaptures {
			targets &= oppOcc
		}
		appendTargets(from, targets)
	}

	for pieces := b.queens[us]; pieces != 0; {
		from := popLSB(&pieces)
		targets := t.QueenAttacks(from, allOcc) &^ ownOcc
		if filter == genCaptures {
			targets &= oppOcc
		}
		appendTargets(from, targets)
	}

	if ksq := b.KingSquare(side); ksq != NoSquare {
		targets := t.king[int(ksq)] &^ ownOcc
		if filter == genCaptures {
			targets &= oppOcc
		}
		appendTargets(int(ksq), targets)

		if filter == genAll {
			moves = b.castleMoves(t, moves, allOcc)
		}
	}

	return moves
}

func (b *Board) pawnMoves(t *AttackTables, moves []Move, filter int, oppOcc, allOcc uint64) []Move {
	side := b.sideToMove
	us := int(side)

	var push, startRank, promoRank int
	var epVictim Piece
	if side == White {
		push, startRank, promoRank = 8, 1, 7
		epVictim = BlackPawn
	} else {
		push, startRank, promoRank = -8, 6, 0
		epVictim = WhitePawn
	}

	appendPawnMove := func(from, to Square, moved, captured Piece, flag uint8) {
		if int(to)/8 == promoRank {
			// Promote to every piece kind; ordering puts the queen first.
			for _, pt := range [4]PieceType{PieceTypeQueen, PieceTypeRook, PieceTypeBishop, PieceTypeKnight} {
				moves = append(moves, NewMove(from, to, moved, captured, PieceFromType(side, pt), flag))
			}
			return
		}
		moves = append(moves, NewMove(from, to, moved, captured, NoPiece, flag))
	}

	for pawns := b.pawns[us]; pawns != 0; {
		from := popLSB(&pawns)
		fromSq := Square(from)
		moved := b.pieces[from]

		// Pushes. Promotions count as tactical, so single pushes onto the
		// promotion rank are kept even under the captures filter.
		one := from + push
		if allOcc&(1<<uint(one)) == 0 {
			if filter == genAll || one/8 == promoRank {
				appendPawnMove(fromSq, Square(one), moved, NoPiece, FlagNone)
			}
			if filter == genAll && from/8 == startRank {
				two := one + push
				if allOcc&(1<<uint(two)) == 0 {
					moves = append(moves, NewMove(fromSq, Square(two), moved, NoPiece, NoPiece, FlagNone))
				}
			}
		}

		caps := t.pawn[side][from]
		for targets := caps & oppOcc; targets != 0; {
			to := popLSB(&targets)
			appendPawnMove(fromSq, Square(to), moved, b.pieces[to], FlagNone)
		}

		if b.enPassantSquare != NoSquare && caps&(1<<uint(b.enPassantSquare)) != 0 {
			moves = append(moves, NewMove(fromSq, b.enPassantSquare, moved, epVictim, NoPiece, FlagEnPassant))
		}
	}

	return moves
}

// castleMoves emits fully legal castling moves: rights present, path empty,
// rook on its home square, king not in check and not crossing an attacked square.
func (b *Board) castleMoves(t *AttackTables, moves []Move, occ uint64) []Move {
	if b.sideToMove == White {
		if b.castlingRights&CastlingWhiteK != 0 &&
			b.pieces[5] == NoPiece && b.pieces[6] == NoPiece && b.pieces[7] == WhiteRook &&
			!b.isAttackedWithOcc(t, 4, Black, occ) &&
			!b.isAttackedWithOcc(t, 5, Black, occ) &&
			!b.isAttackedWithOcc(t, 6, Black, occ) {
			moves = append(moves, NewMove(4, 6, WhiteKing, NoPiece, NoPiece, FlagCastle))
		}
		if b.castlingRights&CastlingWhiteQ != 0 &&
			b.pieces[1] == NoPiece && b.pieces[2] == NoPiece && b.pieces[3] == NoPiece && b.pieces[0] == WhiteRook &&
			!b.isAttackedWithOcc(t, 4, Black, occ) &&
			!b.isAttackedWithOcc(t, 3, Black, occ) &&
			!b.isAttackedWithOcc(t, 2, Black, occ) {
			moves = append(moves, NewMove(4, 2, WhiteKing, NoPiece, NoPiece, FlagCastle))
		}
		return moves
	}

	if b.castlingRights&CastlingBlackK != 0 &&
		b.pieces[61] == NoPiece && b.pieces[62] == NoPiece && b.pieces[63] == BlackRook &&
		!b.isAttackedWithOcc(t, 60, White, occ) &&
		!b.isAttackedWithOcc(t, 61, White, occ) &&
		!b.isAttackedWithOcc(t, 62, White, occ) {
		moves = append(moves, NewMove(60, 62, BlackKing, NoPiece, NoPiece, FlagCastle))
	}
	if b.castlingRights&CastlingBlackQ != 0 &&
		b.pieces[57] == NoPiece && b.pieces[58] == NoPiece && b.pieces[59] == NoPiece && b.pieces[56] == BlackRook &&
		!b.isAttackedWithOcc(t, 60, White, occ) &&
		!b.isAttackedWithOcc(t, 59, White, occ) &&
		!b.isAttackedWithOcc(t, 58, White, occ) {
		moves = append(moves, NewMove(60, 58, BlackKing, NoPiece, NoPiece, FlagCastle))
	}
	return moves
}

// LegalMovesInto appends all legal moves for the side to move into dst and
// returns it, filtering pseudo-legal candidates through MakeMove/UnmakeMove.
func (b *Board) LegalMovesInto(t *AttackTables, dst []Move) []Move {
	pseudo := b.PseudoMovesInto(t, dst)
	legal := pseudo[:0]
	for _, m := range pseudo {
		if ok, st := b.MakeMove(t, m); ok {
			b.UnmakeMove(m, st)
			legal = append(legal, m)
		}
	}
	return legal
}

// LegalMoves returns all legal moves in a freshly allocated slice.
func (b *Board) LegalMoves(t *AttackTables) []Move {
	return b.LegalMovesInto(t, make([]Move, 0, 128))
}

// HasLegalMoves reports whether the side to move has at least one legal move.
func (b *Board) HasLegalMoves(t *AttackTables) bool {
	var buf [256]Move
	pseudo := b.PseudoMovesInto(t, buf[:0])
	for _, m := range pseudo {
		if ok, st := b.MakeMove(t, m); ok {
			b.UnmakeMove(m, st)
			return true
		}
	}
	return false
}
