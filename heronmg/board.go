package heronmg

import "math/bits"

// Piece encodes a colored chess piece in four bits.
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = 1
	WhiteKnight Piece = 2
	WhiteBishop Piece = 3
	WhiteRook   Piece = 4
	WhiteQueen  Piece = 5
	WhiteKing   Piece = 6

	// Black pieces are encoded as (white piece type | 8) so that
	// - piece & 7 gives the type in [1..6]
	// - piece & 8 != 0 indicates Black
	BlackPawn   Piece = 1 | 8
	BlackKnight Piece = 2 | 8
	BlackBishop Piece = 3 | 8
	BlackRook   Piece = 4 | 8
	BlackQueen  Piece = 5 | 8
	BlackKing   Piece = 6 | 8
)

// PieceType is a colorless representation of a chess piece used for table lookups.
type PieceType uint8

const (
	PieceTypeNone   PieceType = 0
	PieceTypePawn   PieceType = 1
	PieceTypeKnight PieceType = 2
	PieceTypeBishop PieceType = 3
	PieceTypeRook   PieceType = 4
	PieceTypeQueen  PieceType = 5
	PieceTypeKing   PieceType = 6
)

// Type returns the colorless type of the piece (ignores side).
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Color returns the side that owns the piece. NoPiece is treated as White.
func (p Piece) Color() Color { return colorOf(p) }

// PieceFromType combines a colorless type with a side to produce a concrete Piece.
func PieceFromType(color Color, pt PieceType) Piece {
	if pt == PieceTypeNone {
		return NoPiece
	}
	p := Piece(pt)
	if color == Black {
		p |= 8
	}
	return p
}

type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Castling rights bit flags.
type CastlingRights uint8

const (
	// White king-side (short) castling
	CastlingWhiteK CastlingRights = 1 << iota
	// White queen-side (long) castling
	CastlingWhiteQ
	// Black king-side castling
	CastlingBlackK
	// Black queen-side castling
	CastlingBlackQ
)

// Square represents a board position (0-63, a1=0, h8=63).
type Square int

const NoSquare Square = -1

// Board represents the chess board state, including piece placement and game state.
type Board struct {
	// Piece bitboards for each piece type and color (index 0 = white, 1 = black)
	pawns   [2]uint64
	knights [2]uint64
	bishops [2]uint64
	rooks   [2]uint64
	queens  [2]uint64
	kings   [2]uint64

	// Occupancy bitboards for each side
	occupancy [2]uint64

	// Piece placement array for each square (0 = NoPiece, otherwise a Piece constant)
	pieces [64]Piece

	sideToMove     Color
	castlingRights CastlingRights

	// En passant target square, or NoSquare when no double push preceded
	enPassantSquare Square

	// Halfmove clock for the fifty-move rule
	halfmoveClock int

	// Fullmove number (starts at 1, incremented after Black's move)
	fullmoveNumber int

	// Zobrist hash key for the current position
	zobristKey uint64
}

// SideToMove reports which side is to play.
func (b *Board) SideToMove() Color { return b.sideToMove }

// Hash returns the current Zobrist hash key.
func (b *Board) Hash() uint64 { return b.zobristKey }

// HalfmoveClock returns half-moves since the last capture or pawn advance.
func (b *Board) HalfmoveClock() int { return b.halfmoveClock }

// FullmoveNumber returns the full move counter.
func (b *Board) FullmoveNumber() int { return b.fullmoveNumber }

// EnPassantSquare returns the current en-passant target square or NoSquare.
func (b *Board) EnPassantSquare() Square { return b.enPassantSquare }

// CastlingRightsMask returns the current castling rights flags.
func (b *Board) CastlingRightsMask() CastlingRights { return b.castlingRights }

// AllOccupancy returns a bitboard of all occupied squares.
func (b *Board) AllOccupancy() uint64 { return b.occupancy[0] | b.occupancy[1] }

// ColorOccupancy returns the occupancy bitboard for the given color.
func (b *Board) ColorOccupancy(c Color) uint64 { return b.occupancy[int(c)] }

// PieceAt returns the piece on a square.
func (b *Board) PieceAt(sq Square) Piece { return b.pieces[int(sq)] }

// Pieces returns the bitboard holding all pieces of the given type and color.
func (b *Board) Pieces(c Color, pt PieceType) uint64 {
	ci := int(c)
	switch pt {
	case PieceTypePawn:
		return b.pawns[ci]
	case PieceTypeKnight:
		return b.knights[ci]
	case PieceTypeBishop:
		return b.bishops[ci]
	case PieceTypeRook:
		return b.rooks[ci]
	case PieceTypeQueen:
		return b.queens[ci]
	case PieceTypeKing:
		return b.kings[ci]
	}
	return 0
}

// KingSquare returns the square of the given side's king, or NoSquare if absent.
func (b *Board) KingSquare(c Color) Square {
	kb := b.kings[int(c)]
	if kb == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(kb))
}

// IsDrawBy50 reports a fifty-move rule draw (the clock counts half-moves).
func (b *Board) IsDrawBy50() bool { return b.halfmoveClock >= 100 }

// IsDrawByRepetition reports a draw by threefold repetition given the history
// of Zobrist keys for the positions reached earlier in the game. The current
// position counts as one occurrence; the Zobrist key already encodes side to
// move, castling rights and en passant file, which the repetition rule needs.
func (b *Board) IsDrawByRepetition(history []uint64) bool {
	target := b.zobristKey
	end := len(history)
	// Do not double-count if the last history entry is the current position.
	if end > 0 && history[end-1] == target {
		end--
	}
	matches := 0
	for i := 0; i < end; i++ {
		if history[i] == target {
			matches++
			if matches >= 2 {
				return true
			}
		}
	}
	return false
}

// ==========================
// Bitboard helpers
// ==========================

// bb returns a bitboard with the given square bit set.
func bb(sq Square) uint64 { return 1 << uint64(sq) }

// popLSB removes and returns the least significant set bit from the mask.
func popLSB(mask *uint64) int {
	idx := bits.TrailingZeros64(*mask)
	*mask &= *mask - 1
	return idx
}

// colorOf returns the color of a piece. NoPiece is treated as White.
func colorOf(p Piece) Color {
	if p&8 != 0 {
		return Black
	}
	return White
}

// typeOf returns the piece type in [1..6] with color stripped.
func typeOf(p Piece) Piece { return p & 7 }

// pieceBB returns a pointer to the bitboard the piece belongs to, or nil.
func (b *Board) pieceBB(p Piece) *uint64 {
	ci := int(colorOf(p))
	switch typeOf(p) {
	case 1:
		return &b.pawns[ci]
	case 2:
		return &b.knights[ci]
	case 3:
		return &b.bishops[ci]
	case 4:
		return &b.rooks[ci]
	case 5:
		return &b.queens[ci]
	case 6:
		return &b.kings[ci]
	}
	return nil
}

// addPiece places a piece on an empty square and updates bitboards, occupancy and zobrist.
func (b *Board) addPiece(sq Square, p Piece) {
	if p == NoPiece {
		return
	}
	b.pieces[int(sq)] = p
	b.occupancy[int(colorOf(p))] |= bb(sq)
	*b.pieceBB(p) |= bb(sq)
	b.zobristKey ^= zobristPiece[p][int(sq)]
}

// removePiece removes a piece from a square and updates bitboards, occupancy and zobrist.
func (b *Board) removePiece(sq Square) Piece {
	p := b.pieces[int(sq)]
	if p == NoPiece {
		return NoPiece
	}
	mask := ^bb(sq)
	b.pieces[int(sq)] = NoPiece
	b.occupancy[int(colorOf(p))] &= mask
	*b.pieceBB(p) &= mask
	b.zobristKey ^= zobristPiece[p][int(sq)]
	return p
}

// SetPiece sets a piece on a square, replacing any existing piece, and keeps state in sync.
func (b *Board) SetPiece(sq Square, p Piece) {
	b.removePiece(sq)
	b.addPiece(sq, p)
}

// Validate checks internal consistency between pieces[], per-piece bitboards,
// occupancy, the king-per-side invariant and the incremental Zobrist key.
func (b *Board) Validate() bool {
	var occ [2]uint64
	var pawns, knights, bishops, rooks, queens, kings [2]uint64
	for sq := 0; sq < 64; sq++ {
		p := b.pieces[sq]
		if p == NoPiece {
			continue
		}
		ci := int(colorOf(p))
		bit := uint64(1) << uint(sq)
		occ[ci] |= bit
		switch typeOf(p) {
		case 1:
			pawns[ci] |= bit
		case 2:
			knights[ci] |= bit
		case 3:
			bishops[ci] |= bit
		case 4:
			rooks[ci] |= bit
		case 5:
			queens[ci] |= bit
		case 6:
			kings[ci] |= bit
		}
	}
	if occ != b.occupancy {
		return false
	}
	if pawns != b.pawns || knights != b.knights || bishops != b.bishops ||
		rooks != b.rooks || queens != b.queens || kings != b.kings {
		return false
	}
	if bits.OnesCount64(b.kings[0]) != 1 || bits.OnesCount64(b.kings[1]) != 1 {
		return false
	}
	// The twelve piece boards must be pairwise disjoint; occupancy equality
	// above catches overlap across colors, this catches overlap within one.
	for ci := 0; ci < 2; ci++ {
		sum := bits.OnesCount64(b.pawns[ci]) + bits.OnesCount64(b.knights[ci]) +
			bits.OnesCount64(b.bishops[ci]) + bits.OnesCount64(b.rooks[ci]) +
			bits.OnesCount64(b.queens[ci]) + bits.OnesCount64(b.kings[ci])
		if sum != bits.OnesCount64(b.occupancy[ci]) {
			return false
		}
	}
	return b.zobristKey == b.ComputeZobrist()
}
