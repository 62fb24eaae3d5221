package heronmg

import "math/rand"

// Zobrist hashing tables for pieces, castling, en passant, and side to move.
var zobristPiece [15][64]uint64 // Zobrist keys for piece (index by piece code) on each square
var zobristCastle [16]uint64    // Zobrist keys for each castling rights state (0-15)
var zobristEnPassant [8]uint64  // Zobrist keys for en passant file (file 0-7)
var zobristSide uint64          // Zobrist key for side to move (Black to move)

func init() {
	initZobrist()
}

func initZobrist() {
	// Fixed seed so hashes are reproducible across runs and in tests
	rnd := rand.New(rand.NewSource(0xC0DE))

	for p := 0; p < 15; p++ {
		for sq := 0; sq < 64; sq++ {
			zobristPiece[p][sq] = rnd.Uint64()
		}
	}

	for cr := 0; cr < 16; cr++ {
		zobristCastle[cr] = rnd.Uint64()
	}

	for f := 0; f < 8; f++ {
		zobristEnPassant[f] = rnd.Uint64()
	}

	zobristSide = rnd.Uint64()
}

// ComputeZobrist calculates the Zobrist hash for the current board state
// from scratch. MakeMove maintains the same key incrementally.
func (b *Board) ComputeZobrist() uint64 {
	var key uint64

	for sq := 0; sq < 64; sq++ {
		p := b.pieces[sq]
		if p != NoPiece {
			key ^= zobristPiece[p][sq]
		}
	}

	if b.sideToMove == Black {
		key ^= zobristSide
	}

	key ^= zobristCastle[int(b.castlingRights)]

	if b.enPassantSquare != NoSquare {
		key ^= zobristEnPassant[int(b.enPassantSquare%8)]
	}

	return key
}
