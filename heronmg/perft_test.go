package heronmg

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

var perftCases = []struct {
	name   string
	fen    string
	counts []uint64 // counts[i] = perft(i+1)
}{
	{
		name:   "startpos",
		fen:    FENStartPos,
		counts: []uint64{20, 400, 8902, 197281, 4865609},
	},
	{
		// Kiwipete: castling, en passant, promotions and pins all in play.
		name:   "kiwipete",
		fen:    "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		counts: []uint64{48, 2039, 97862, 4085603},
	},
	{
		name:   "endgame",
		fen:    "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		counts: []uint64{14, 191, 2812, 43238, 674624},
	},
	{
		name:   "promotions",
		fen:    "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		counts: []uint64{6, 264, 9467, 422333},
	},
	{
		name:   "talkchess",
		fen:    "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		counts: []uint64{44, 1486, 62379},
	},
	{
		name:   "steven-edwards",
		fen:    "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
		counts: []uint64{46, 2079, 89890},
	},
}

func TestPerftReferenceCounts(t *testing.T) {
	tables := NewAttackTables()
	for _, tc := range perftCases {
		b, err := ParseFEN(tc.fen)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		for depth, want := range tc.counts {
			if got := Perft(tables, b, depth+1); got != want {
				t.Errorf("%s: perft(%d) = %d, want %d", tc.name, depth+1, got, want)
			}
		}
		// The walk must leave the position untouched.
		if b.ToFEN() != tc.fen {
			t.Errorf("%s: position mutated by perft: %s", tc.name, b.ToFEN())
		}
	}
}

// oraclePerft walks the tree with an independent move generator.
func oraclePerft(b *dragontoothmg.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var nodes uint64
	for _, m := range b.GenerateLegalMoves() {
		undo := b.Apply(m)
		nodes += oraclePerft(b, depth-1)
		undo()
	}
	return nodes
}

// TestPerftDifferential cross-checks the generator against dragontoothmg on
// positions without canonical published counts.
func TestPerftDifferential(t *testing.T) {
	if testing.Short() {
		t.Skip("differential perft is slow")
	}
	fens := []string{
		"2kr3r/ppp2ppp/2n1b3/2b1p3/4P1n1/2NP1N2/PPP2PPP/R1B1KB1R w KQ - 4 8",
		"8/8/1k6/2b5/2pP4/8/5K2/8 b - d3 0 1",
		"5k2/8/8/8/8/8/8/4K2R w K - 0 1",
		"r1bqkb1r/pp3ppp/2np1n2/4p3/2B1P3/2N2N2/PPPP1PPP/R1BQK2R w KQkq e6 0 6",
		"8/P1k5/K7/8/8/8/8/8 w - - 0 1",
	}
	tables := NewAttackTables()
	for _, fen := range fens {
		b, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		oracle := dragontoothmg.ParseFen(fen)
		for depth := 1; depth <= 4; depth++ {
			got := Perft(tables, b, depth)
			want := oraclePerft(&oracle, depth)
			if got != want {
				t.Errorf("%s: perft(%d) = %d, oracle says %d", fen, depth, got, want)
			}
		}
	}
}

func TestPerftDivideSumsToPerft(t *testing.T) {
	tables := NewAttackTables()
	b, err := ParseFEN(FENStartPos)
	if err != nil {
		t.Fatal(err)
	}
	const depth = 3
	div := PerftDivide(tables, b, depth)
	if len(div) != 20 {
		t.Fatalf("divide has %d root moves, want 20", len(div))
	}
	var sum uint64
	for _, n := range div {
		sum += n
	}
	if want := Perft(tables, b, depth); sum != want {
		t.Errorf("divide sums to %d, perft(%d) = %d", sum, depth, want)
	}
}

func BenchmarkPerftStartpos(bn *testing.B) {
	tables := NewAttackTables()
	b, err := ParseFEN(FENStartPos)
	if err != nil {
		bn.Fatal(err)
	}
	bn.ResetTimer()
	for i := 0; i < bn.N; i++ {
		if got := Perft(tables, b, 4); got != 197281 {
			bn.Fatalf("perft(4) = %d", got)
		}
	}
}
