package heronmg

import "fmt"

// Move encodes a chess move in a 32-bit value.
type Move uint32

// Bitfield layout within Move (from LSB to MSB)
const (
	moveFromShift    = 0  // 6 bits
	moveToShift      = 6  // 6 bits
	movePieceShift   = 12 // 4 bits
	moveCaptureShift = 16 // 4 bits
	movePromoteShift = 20 // 4 bits
	moveFlagShift    = 24 // 2 bits
)

// Move flags. Promotion is indicated by a non-zero promotion piece rather
// than a flag, and a double pawn push needs no flag either: make/unmake
// recognize it as a pawn move spanning two ranks.
const (
	FlagNone      = 0
	FlagCastle    = 1
	FlagEnPassant = 2
)

// NullMove is the zero Move; it never encodes a real move since a real move
// always carries a non-zero moved piece.
const NullMove Move = 0

// NewMove constructs a Move value from components.
func NewMove(from, to Square, piece, captured Piece, promotion Piece, flag uint8) Move {
	m := uint32(from&0x3F) |
		(uint32(to&0x3F) << moveToShift) |
		(uint32(piece&0xF) << movePieceShift) |
		(uint32(captured&0xF) << moveCaptureShift) |
		(uint32(promotion&0xF) << movePromoteShift) |
		(uint32(flag&0x3) << moveFlagShift)
	return Move(m)
}

// From returns the source square of the move.
func (m Move) From() Square { return Square((uint32(m) >> moveFromShift) & 0x3F) }

// To returns the destination square of the move.
func (m Move) To() Square { return Square((uint32(m) >> moveToShift) & 0x3F) }

// MovedPiece returns the piece code that is moved.
func (m Move) MovedPiece() Piece { return Piece((uint32(m) >> movePieceShift) & 0xF) }

// CapturedPiece returns the piece code that was captured (or NoPiece if none).
func (m Move) CapturedPiece() Piece { return Piece((uint32(m) >> moveCaptureShift) & 0xF) }

// PromotionPiece returns the promotion piece code (or NoPiece if not a promotion).
func (m Move) PromotionPiece() Piece { return Piece((uint32(m) >> movePromoteShift) & 0xF) }

// PromotionPieceType returns the colorless type of the promoted piece (or PieceTypeNone).
func (m Move) PromotionPieceType() PieceType { return m.PromotionPiece().Type() }

// Flags returns the special move flags.
func (m Move) Flags() uint8 { return uint8((uint32(m) >> moveFlagShift) & 0x3) }

// IsCapture reports whether the move captures a piece (including en passant).
func (m Move) IsCapture() bool {
	return m.CapturedPiece() != NoPiece || m.Flags() == FlagEnPassant
}

// String produces the long algebraic representation of the move
// (e.g. "e2e4", "e7e8q" with a lowercase promotion letter).
func (m Move) String() string {
	if m == NullMove {
		return "0000"
	}
	from := m.From()
	to := m.To()

	buf := [5]byte{
		'a' + byte(from%8), '1' + byte(from/8),
		'a' + byte(to%8), '1' + byte(to/8),
	}
	if promo := m.PromotionPieceType(); promo != PieceTypeNone {
		buf[4] = promoLetter(promo)
		return string(buf[:])
	}
	return string(buf[:4])
}

func promoLetter(pt PieceType) byte {
	switch pt {
	case PieceTypeKnight:
		return 'n'
	case PieceTypeBishop:
		return 'b'
	case PieceTypeRook:
		return 'r'
	case PieceTypeQueen:
		return 'q'
	}
	return '?'
}

// ParseSquare converts algebraic coordinates ("e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("invalid square %q", s)
	}
	return Square(int(s[0]-'a') + 8*int(s[1]-'1')), nil
}

// ParseMove interprets a long-algebraic move string ("e2e4", "e7e8q") in the
// context of the current position, filling in the moved and captured pieces
// and the castle / en passant flags. The returned move is pseudo-legal at
// best; the caller must still push it through MakeMove.
func (b *Board) ParseMove(s string) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NullMove, fmt.Errorf("invalid move %q", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NullMove, fmt.Errorf("invalid move %q: %w", s, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NullMove, fmt.Errorf("invalid move %q: %w", s, err)
	}

	piece := b.pieces[int(from)]
	if piece == NoPiece {
		return NullMove, fmt.Errorf("invalid move %q: no piece on %s", s, s[0:2])
	}

	var promo Piece
	if len(s) == 5 {
		var pt PieceType
		switch s[4] {
		case 'n':
			pt = PieceTypeKnight
		case 'b':
			pt = PieceTypeBishop
		case 'r':
			pt = PieceTypeRook
		case 'q':
			pt = PieceTypeQueen
		default:
			return NullMove, fmt.Errorf("invalid promotion in %q", s)
		}
		promo = PieceFromType(colorOf(piece), pt)
	}

	captured := b.pieces[int(to)]
	flag := uint8(FlagNone)
	switch {
	case typeOf(piece) == 6 && (to-from == 2 || from-to == 2):
		flag = FlagCastle
	case typeOf(piece) == 1 && to == b.enPassantSquare && captured == NoPiece && from%8 != to%8:
		flag = FlagEnPassant
		// The target square is empty; the victim pawn sits behind it.
		captured = PieceFromType(1-colorOf(piece), PieceTypePawn)
	}

	return NewMove(from, to, piece, captured, promo, flag), nil
}
