package heronmg

import "math/bits"

// AttackTables holds every precomputed attack board the move generator needs.
// It is built once by NewAttackTables, never mutated afterwards, and passed
// explicitly to the generation and make-move code, so independent boards can
// share one instance across goroutines.
type AttackTables struct {
	knight [64]uint64
	king   [64]uint64
	pawn   [2][64]uint64

	rookMagics   [64]magicEntry
	bishopMagics [64]magicEntry
	rookTable    [102400]uint64
	bishopTable  [5248]uint64
}

// magicEntry holds the fancy-magic lookup data for one square.
type magicEntry struct {
	mask   uint64 // relevant occupancy mask (edges excluded)
	magic  uint64 // magic multiplier
	shift  uint8  // 64 - popcount(mask)
	offset uint32 // base index into the attack table
}

// Fixed magic multipliers. These are verified collision-free at the
// 64-popcount(mask) shifts, so startup only has to fill the lookup tables.
var bishopMagicNumbers = [64]uint64{
	0x0002020202020200, 0x0002020202020000, 0x0004010202000000, 0x0004040080000000,
	0x0001104000000000, 0x0000821040000000, 0x0000410410400000, 0x0000104104104000,
	0x0000040404040400, 0x0000020202020200, 0x0000040102020000, 0x0000040400800000,
	0x0000011040000000, 0x0000008210400000, 0x0000004104104000, 0x0000002082082000,
	0x0004000808080800, 0x0002000404040400, 0x0001000202020200, 0x0000800802004000,
	0x0000800400A00000, 0x0000200100884000, 0x0000400082082000, 0x0000200041041000,
	0x0002080010101000, 0x0001040008080800, 0x0000208004010400, 0x0000404004010200,
	0x0000840000802000, 0x0000404002011000, 0x0000808001041000, 0x0000404000820800,
	0x0001041000202000, 0x0000820800101000, 0x0000104400080800, 0x0000020080080080,
	0x0000404040040100, 0x0000808100020100, 0x0001010100020800, 0x0000808080010400,
	0x0000820820004000, 0x0000410410002000, 0x0000082088001000, 0x0000002011000800,
	0x0000080100400400, 0x0001010101000200, 0x0002020202000400, 0x0001010101000200,
	0x0000410410400000, 0x0000208208200000, 0x0000002084100000, 0x0000000020880000,
	0x0000001002020000, 0x0000040408020000, 0x0004040404040000, 0x0002020202020000,
	0x0000104104104000, 0x0000002082082000, 0x0000000020841000, 0x0000000000208800,
	0x0000000010020200, 0x0000000404080200, 0x0000040404040400, 0x0002020202020200,
}

var rookMagicNumbers = [64]uint64{
	0x0080001020400080, 0x0040001000200040, 0x0080081000200080, 0x0080040800100080,
	0x0080020400080080, 0x0080010200040080, 0x0080008001000200, 0x0080002040800100,
	0x0000800020400080, 0x0000400020005000, 0x0000801000200080, 0x0000800800100080,
	0x0000800400080080, 0x0000800200040080, 0x0000800100020080, 0x0000800040800100,
	0x0000208000400080, 0x0000404000201000, 0x0000808010002000, 0x0000808008001000,
	0x0000808004000800, 0x0000808002000400, 0x0000010100020004, 0x0000020000408104,
	0x0000208080004000, 0x0000200040005000, 0x0000100080200080, 0x0000080080100080,
	0x0000040080080080, 0x0000020080040080, 0x0000010080800200, 0x0000800080004100,
	0x0000204000800080, 0x0000200040401000, 0x0000100080802000, 0x0000080080801000,
	0x0000040080800800, 0x0000020080800400, 0x0000020001010004, 0x0000800040800100,
	0x0000204000808000, 0x0000200040008080, 0x0000100020008080, 0x0000080010008080,
	0x0000040008008080, 0x0000020004008080, 0x0000010002008080, 0x0000004081020004,
	0x0000204000800080, 0x0000200040008080, 0x0000100020008080, 0x0000080010008080,
	0x0000040008008080, 0x0000020004008080, 0x0000800100020080, 0x0000800041000080,
	0x00FFFCDDFCED714A, 0x007FFCDDFCED714A, 0x003FFFCDFFD88096, 0x0000040810002101,
	0x0001000204080011, 0x0001000204000801, 0x0001000082000401, 0x0001FFFAABFAD1A2,
}

// NewAttackTables builds all precomputed attack tables. Construction is pure
// table fill from the fixed magic constants and takes a few milliseconds.
func NewAttackTables() *AttackTables {
	t := &AttackTables{}
	t.initLeaperTables()
	t.initBishopMagics()
	t.initRookMagics()
	return t
}

func (t *AttackTables) initLeaperTables() {
	for sq := 0; sq < 64; sq++ {
		file := sq % 8
		rank := sq / 8

		knightDeltas := [8][2]int{
			{1, 2}, {2, 1}, {2, -1}, {1, -2},
			{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
		}
		for _, d := range knightDeltas {
			f, r := file+d[0], rank+d[1]
			if f >= 0 && f <= 7 && r >= 0 && r <= 7 {
				t.knight[sq] |= 1 << uint(r*8+f)
			}
		}

		for df := -1; df <= 1; df++ {
			for dr := -1; dr <= 1; dr++ {
				if df == 0 && dr == 0 {
					continue
				}
				f, r := file+df, rank+dr
				if f >= 0 && f <= 7 && r >= 0 && r <= 7 {
					t.king[sq] |= 1 << uint(r*8+f)
				}
			}
		}

		// Pawn capture boards; pushes are handled by the generator directly.
		if rank < 7 {
			if file > 0 {
				t.pawn[White][sq] |= 1 << uint(sq+7)
			}
			if file < 7 {
				t.pawn[White][sq] |= 1 << uint(sq+9)
			}
		}
		if rank > 0 {
			if file > 0 {
				t.pawn[Black][sq] |= 1 << uint(sq-9)
			}
			if file < 7 {
				t.pawn[Black][sq] |= 1 << uint(sq-7)
			}
		}
	}
}

func (t *AttackTables) initBishopMagics() {
	var offset uint32
	for sq := 0; sq < 64; sq++ {
		mask := bishopMask(sq)
		n := bits.OnesCount64(mask)

		t.bishopMagics[sq] = magicEntry{
			mask:   mask,
			magic:  bishopMagicNumbers[sq],
			shift:  uint8(64 - n),
			offset: offset,
		}

		entries := 1 << uint(n)
		for i := 0; i < entries; i++ {
			occ := indexToOccupancy(i, n, mask)
			idx := (occ * bishopMagicNumbers[sq]) >> uint(64-n)
			t.bishopTable[offset+uint32(idx)] = bishopAttacksSlow(sq, occ)
		}
		offset += uint32(entries)
	}
}

func (t *AttackTables) initRookMagics() {
	var offset uint32
	for sq := 0; sq < 64; sq++ {
		mask := rookMask(sq)
		n := bits.OnesCount64(mask)

		t.rookMagics[sq] = magicEntry{
			mask:   mask,
			magic:  rookMagicNumbers[sq],
			shift:  uint8(64 - n),
			offset: offset,
		}

		entries := 1 << uint(n)
		for i := 0; i < entries; i++ {
			occ := indexToOccupancy(i, n, mask)
			idx := (occ * rookMagicNumbers[sq]) >> uint(64-n)
			t.rookTable[offset+uint32(idx)] = rookAttacksSlow(sq, occ)
		}
		offset += uint32(entries)
	}
}

// RookAttacks returns the rook attack set from sq given full-board occupancy.
func (t *AttackTables) RookAttacks(sq int, occ uint64) uint64 {
	m := &t.rookMagics[sq]
	idx := ((occ & m.mask) * m.magic) >> m.shift
	return t.rookTable[m.offset+uint32(idx)]
}

// BishopAttacks returns the bishop attack set from sq given full-board occupancy.
func (t *AttackTables) BishopAttacks(sq int, occ uint64) uint64 {
	m := &t.bishopMagics[sq]
	idx := ((occ & m.mask) * m.magic) >> m.shift
	return t.bishopTable[m.offset+uint32(idx)]
}

// QueenAttacks returns the union of rook and bishop attack sets.
func (t *AttackTables) QueenAttacks(sq int, occ uint64) uint64 {
	return t.RookAttacks(sq, occ) | t.BishopAttacks(sq, occ)
}

// KnightAttacks returns the knight attack set from sq.
func (t *AttackTables) KnightAttacks(sq int) uint64 { return t.knight[sq] }

// KingAttacks returns the king attack set from sq.
func (t *AttackTables) KingAttacks(sq int) uint64 { return t.king[sq] }

// PawnAttacks returns the squares a pawn of the given color attacks from sq.
func (t *AttackTables) PawnAttacks(c Color, sq int) uint64 { return t.pawn[c][sq] }

// bishopMask returns the relevant occupancy mask for a bishop: the empty-board
// attack set with edge squares removed, since edge blockers never change the result.
func bishopMask(sq int) uint64 {
	const edges = 0xFF000000000000FF | 0x8181818181818181
	return bishopAttacksSlow(sq, 0) &^ uint64(edges)
}

// rookMask returns the relevant occupancy mask for a rook.
func rookMask(sq int) uint64 {
	file := sq % 8
	rank := sq / 8

	var mask uint64
	for f := 1; f < 7; f++ {
		if f != file {
			mask |= 1 << uint(rank*8+f)
		}
	}
	for r := 1; r < 7; r++ {
		if r != rank {
			mask |= 1 << uint(r*8+file)
		}
	}
	return mask
}

// indexToOccupancy expands an occupancy subset index over the mask bits.
func indexToOccupancy(index, n int, mask uint64) uint64 {
	var occ uint64
	for i := 0; i < n; i++ {
		sq := bits.TrailingZeros64(mask)
		mask &= mask - 1
		if index&(1<<uint(i)) != 0 {
			occ |= 1 << uint(sq)
		}
	}
	return occ
}

// bishopAttacksSlow computes bishop attacks by ray casting (table fill only).
func bishopAttacksSlow(sq int, occupied uint64) uint64 {
	var attacks uint64
	file, rank := sq%8, sq/8

	for f, r := file+1, rank+1; f <= 7 && r <= 7; f, r = f+1, r+1 {
		s := uint64(1) << uint(r*8+f)
		attacks |= s
		if occupied&s != 0 {
			break
		}
	}
	for f, r := file-1, rank+1; f >= 0 && r <= 7; f, r = f-1, r+1 {
		s := uint64(1) << uint(r*8+f)
		attacks |= s
		if occupied&s != 0 {
			break
		}
	}
	for f, r := file+1, rank-1; f <= 7 && r >= 0; f, r = f+1, r-1 {
		s := uint64(1) << uint(r*8+f)
		attacks |= s
		if occupied&s != 0 {
			break
		}
	}
	for f, r := file-1, rank-1; f >= 0 && r >= 0; f, r = f-1, r-1 {
		s := uint64(1) << uint(r*8+f)
		attacks |= s
		if occupied&s != 0 {
			break
		}
	}

	return attacks
}

// rookAttacksSlow computes rook attacks by ray casting (table fill only).
func rookAttacksSlow(sq int, occupied uint64) uint64 {
	var attacks uint64
	file, rank := sq%8, sq/8

	for r := rank + 1; r <= 7; r++ {
		s := uint64(1) << uint(r*8+file)
		attacks |= s
		if occupied&s != 0 {
			break
		}
	}
	for r := rank - 1; r >= 0; r-- {
		s := uint64(1) << uint(r*8+file)
		attacks |= s
		if occupied&s != 0 {
			break
		}
	}
	for f := file + 1; f <= 7; f++ {
		s := uint64(1) << uint(rank*8+f)
		attacks |= s
		if occupied&s != 0 {
			break
		}
	}
	for f := file - 1; f >= 0; f-- {
		s := uint64(1) << uint(rank*8+f)
		attacks |= s
		if occupied&s != 0 {
			break
		}
	}

	return attacks
}
