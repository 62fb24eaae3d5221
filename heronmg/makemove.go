package heronmg

// MoveState holds the minimal state needed to undo a move.
type MoveState struct {
	move          Move
	captured      Piece
	capturedSq    Square
	prevCastling  CastlingRights
	prevEnPassant Square
	prevHalfmove  int
	prevFullmove  int
	prevZobrist   uint64
	rookFrom      Square // for castling undo
	rookTo        Square // for castling undo
}

// NullState stores the minimal information needed to undo a null move.
type NullState struct {
	prevEnPassant Square
	prevHalfmove  int
	prevFullmove  int
	prevZobrist   uint64
	prevSide      Color
}

// castleRookSquares maps a castling king destination to the rook's move.
func castleRookSquares(to Square) (rookFrom, rookTo Square) {
	switch to {
	case 6: // g1
		return 7, 5
	case 2: // c1
		return 0, 3
	case 62: // g8
		return 63, 61
	case 58: // c8
		return 56, 59
	}
	return NoSquare, NoSquare
}

// MakeMove applies a move to the board. It returns ok=false, with the
// original position fully restored, when the move would leave the mover's
// king attacked. This is the legality filter for pseudo-legal moves.
func (b *Board) MakeMove(t *AttackTables, m Move) (ok bool, st MoveState) {
	st.move = m
	st.captured = NoPiece
	st.capturedSq = NoSquare
	st.prevCastling = b.castlingRights
	st.prevEnPassant = b.enPassantSquare
	st.prevHalfmove = b.halfmoveClock
	st.prevFullmove = b.fullmoveNumber
	st.prevZobrist = b.zobristKey
	st.rookFrom, st.rookTo = NoSquare, NoSquare

	from := m.From()
	to := m.To()
	moved := m.MovedPiece()
	promo := m.PromotionPiece()
	flag := m.Flags()
	mover := b.sideToMove

	// Clear the previous en passant target.
	if b.enPassantSquare != NoSquare {
		b.zobristKey ^= zobristEnPassant[int(b.enPassantSquare%8)]
		b.enPassantSquare = NoSquare
	}

	// Remove the captured piece. For en passant the victim sits behind 'to'.
	capSq := to
	if flag == FlagEnPassant {
		if mover == White {
			capSq = to - 8
		} else {
			capSq = to + 8
		}
	}
	if cap := b.removePiece(capSq); cap != NoPiece {
		st.captured = cap
		st.capturedSq = capSq
	}

	// Move the piece, replacing it on promotion.
	b.removePiece(from)
	if promo != NoPiece {
		b.addPiece(to, promo)
	} else {
		b.addPiece(to, moved)
	}

	if flag == FlagCastle {
		rf, rt := castleRookSquares(to)
		if rf != NoSquare {
			b.addPiece(rt, b.removePiece(rf))
			st.rookFrom, st.rookTo = rf, rt
		}
	}

	// Castling rights: king or rook leaving home, or a rook captured at home.
	newCR := b.castlingRights
	switch moved {
	case WhiteKing:
		newCR &^= CastlingWhiteK | CastlingWhiteQ
	case BlackKing:
		newCR &^= CastlingBlackK | CastlingBlackQ
	case WhiteRook:
		if from == 0 {
			newCR &^= CastlingWhiteQ
		} else if from == 7 {
			newCR &^= CastlingWhiteK
		}
	case BlackRook:
		if from == 56 {
			newCR &^= CastlingBlackQ
		} else if from == 63 {
			newCR &^= CastlingBlackK
		}
	}
	switch {
	case st.captured == WhiteRook && st.capturedSq == 0:
		newCR &^= CastlingWhiteQ
	case st.captured == WhiteRook && st.capturedSq == 7:
		newCR &^= CastlingWhiteK
	case st.captured == BlackRook && st.capturedSq == 56:
		newCR &^= CastlingBlackQ
	case st.captured == BlackRook && st.capturedSq == 63:
		newCR &^= CastlingBlackK
	}
	if newCR != b.castlingRights {
		b.zobristKey ^= zobristCastle[int(b.castlingRights)]
		b.zobristKey ^= zobristCastle[int(newCR)]
		b.castlingRights = newCR
	}

	// Record the en passant target on a double pawn push.
	if typeOf(moved) == 1 && (to-from == 16 || from-to == 16) {
		ep := (from + to) / 2
		b.enPassantSquare = ep
		b.zobristKey ^= zobristEnPassant[int(ep%8)]
	}

	b.sideToMove = 1 - b.sideToMove
	b.zobristKey ^= zobristSide

	// Reject a move that leaves the mover's own king attacked.
	ksq := b.KingSquare(mover)
	if ksq == NoSquare || b.IsSquareAttacked(t, ksq, b.sideToMove) {
		b.UnmakeMove(m, st)
		return false, st
	}

	if typeOf(moved) == 1 || st.captured != NoPiece {
		b.halfmoveClock = 0
	} else {
		b.halfmoveClock++
	}
	if mover == Black {
		b.fullmoveNumber++
	}

	return true, st
}

// UnmakeMove undoes a previously made move, restoring board state bit for bit.
func (b *Board) UnmakeMove(m Move, st MoveState) {
	b.sideToMove = 1 - b.sideToMove

	from := m.From()
	to := m.To()
	moved := m.MovedPiece()
	flag := m.Flags()

	// Put the moved piece back; on promotion the pawn reappears at 'from'.
	b.removePiece(to)
	b.addPiece(from, moved)

	if flag == FlagCastle && st.rookFrom != NoSquare {
		b.addPiece(st.rookFrom, b.removePiece(st.rookTo))
	}

	if st.captured != NoPiece {
		b.addPiece(st.capturedSq, st.captured)
	}

	b.castlingRights = st.prevCastling
	b.enPassantSquare = st.prevEnPassant
	b.halfmoveClock = st.prevHalfmove
	b.fullmoveNumber = st.prevFullmove

	// The piece updates above touched the key; snap back to the saved value.
	b.zobristKey = st.prevZobrist
}

// MakeNullMove switches the side to move without moving a piece, clearing the
// en passant square and advancing the clocks as a reversible quiet half-move.
func (b *Board) MakeNullMove() (st NullState) {
	st.prevEnPassant = b.enPassantSquare
	st.prevHalfmove = b.halfmoveClock
	st.prevFullmove = b.fullmoveNumber
	st.prevZobrist = b.zobristKey
	st.prevSide = b.sideToMove

	if b.enPassantSquare != NoSquare {
		b.zobristKey ^= zobristEnPassant[int(b.enPassantSquare%8)]
		b.enPassantSquare = NoSquare
	}

	b.halfmoveClock++
	b.sideToMove = 1 - b.sideToMove
	b.zobristKey ^= zobristSide
	if st.prevSide == Black {
		b.fullmoveNumber++
	}
	return st
}

// UnmakeNullMove restores the board to the state prior to MakeNullMove.
func (b *Board) UnmakeNullMove(st NullState) {
	b.enPassantSquare = st.prevEnPassant
	b.halfmoveClock = st.prevHalfmove
	b.fullmoveNumber = st.prevFullmove
	b.sideToMove = st.prevSide
	b.zobristKey = st.prevZobrist
}
