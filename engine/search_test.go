package engine

import (
	"testing"
	"time"

	"heron-engine/heronmg"
)

var testTables = heronmg.NewAttackTables()

func mustBoard(t *testing.T, fen string) *heronmg.Board {
	t.Helper()
	b, err := heronmg.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return b
}

func TestFindsBackRankMate(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		want string
	}{
		{"white to mate", "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1", "a1a8"},
		{"black to mate", "r5k1/5ppp/8/8/8/8/5PPP/6K1 b - - 0 1", "a8a1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := mustBoard(t, tc.fen)
			s := NewSearch(testTables)
			res := s.BestMove(b, nil, Limits{Depth: 4})

			if got := res.Move.String(); got != tc.want {
				t.Errorf("best move = %s, want %s", got, tc.want)
			}
			if res.Score < Checkmate {
				t.Errorf("score = %d, want a mate score", res.Score)
			}
		})
	}
}

func TestGrabsHangingQueen(t *testing.T) {
	b := mustBoard(t, "k7/8/8/3q4/8/8/3R4/K7 w - - 0 1")
	s := NewSearch(testTables)
	res := s.BestMove(b, nil, Limits{Depth: 4})

	if got := res.Move.String(); got != "d2d5" {
		t.Errorf("best move = %s, want d2d5", got)
	}
	if res.Score < 300 {
		t.Errorf("score = %d, want a clear material advantage", res.Score)
	}
}

func TestNoLegalMovesReturnsNullMove(t *testing.T) {
	// Stalemate: black to move, not in check, no legal moves.
	b := mustBoard(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	s := NewSearch(testTables)
	res := s.BestMove(b, nil, Limits{Depth: 3})

	if res.Move != heronmg.NullMove {
		t.Errorf("best move = %v, want the null move", res.Move)
	}

	// Checkmate: same, but the king is attacked.
	b = mustBoard(t, "7k/6Q1/6K1/8/8/8/8/8 b - - 0 1")
	res = s.BestMove(b, nil, Limits{Depth: 3})
	if res.Move != heronmg.NullMove {
		t.Errorf("best move in a mated position = %v, want the null move", res.Move)
	}
}

func TestSearchIsDeterministicAtFixedDepth(t *testing.T) {
	const depth = 5

	run := func() Result {
		b := mustBoard(t, heronmg.FENStartPos)
		s := NewSearch(testTables)
		return s.BestMove(b, nil, Limits{Depth: depth})
	}

	first, second := run(), run()
	if first.Move != second.Move || first.Score != second.Score || first.Nodes != second.Nodes {
		t.Errorf("two identical searches disagree: %+v vs %+v", first, second)
	}
	if first.Depth != depth {
		t.Errorf("completed depth = %d, want %d", first.Depth, depth)
	}
}

func TestBestMoveIsLegal(t *testing.T) {
	fens := []string{
		heronmg.FENStartPos,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r2q1rk1/pP1p2pp/Q4n2/bbp1p3/Np6/1B3NBn/pPPP1PPP/R3K2R b KQ - 0 1",
	}

	for _, fen := range fens {
		b := mustBoard(t, fen)
		s := NewSearch(testTables)
		res := s.BestMove(b, nil, Limits{Depth: 4})

		legal := false
		for _, m := range b.LegalMoves(testTables) {
			if m == res.Move {
				legal = true
				break
			}
		}
		if !legal {
			t.Errorf("%s: best move %s is not legal", fen, res.Move)
		}
	}
}

func TestStopInterruptsInfiniteSearch(t *testing.T) {
	b := mustBoard(t, heronmg.FENStartPos)
	s := NewSearch(testTables)

	done := make(chan Result, 1)
	go func() {
		done <- s.BestMove(b, nil, Limits{Infinite: true})
	}()

	time.Sleep(100 * time.Millisecond)
	s.Stop()

	select {
	case res := <-done:
		if res.Move == heronmg.NullMove {
			t.Error("interrupted search returned the null move despite legal moves")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("search did not stop within 2s of Stop")
	}
}

func TestNodeLimitRespected(t *testing.T) {
	b := mustBoard(t, heronmg.FENStartPos)
	s := NewSearch(testTables)
	res := s.BestMove(b, nil, Limits{Nodes: 20000})

	// The limit is polled, not exact; allow one poll interval of slack.
	if res.Nodes > 20000+nodePollMask+1 {
		t.Errorf("searched %d nodes, limit was 20000", res.Nodes)
	}
	if res.Move == heronmg.NullMove {
		t.Error("node-limited search returned the null move")
	}
}

func TestAvoidsThreefoldRepetitionWhenWinning(t *testing.T) {
	// White is a queen up; shuffling into a repetition would throw it away.
	b := mustBoard(t, "6k1/8/6K1/8/3Q4/8/8/8 w - - 8 5")
	s := NewSearch(testTables)

	// Build a game history in which the current position already occurred twice.
	hash := b.Hash()
	history := []uint64{hash, 0x1, hash, 0x2}

	res := s.BestMove(b, nil, Limits{Depth: 6})
	if res.Score < 500 {
		t.Fatalf("baseline score = %d, want winning", res.Score)
	}

	resHist := s.BestMove(b, history, Limits{Depth: 6})
	if resHist.Score < 500 {
		t.Errorf("score with repetition history = %d, the engine should keep playing for the win", resHist.Score)
	}
}

func TestInfoCallbackReportsEachDepth(t *testing.T) {
	b := mustBoard(t, heronmg.FENStartPos)
	s := NewSearch(testTables)

	var depths []int
	s.Info = func(info Info) {
		depths = append(depths, info.Depth)
		if len(info.PV) == 0 {
			t.Errorf("depth %d reported an empty pv", info.Depth)
		}
	}

	s.BestMove(b, nil, Limits{Depth: 4})

	if len(depths) != 4 {
		t.Fatalf("got %d info reports, want 4: %v", len(depths), depths)
	}
	for i, d := range depths {
		if d != i+1 {
			t.Errorf("report %d has depth %d, want %d", i, d, i+1)
		}
	}
}

func TestFormatScore(t *testing.T) {
	cases := []struct {
		score int32
		want  string
	}{
		{0, "cp 0"},
		{-42, "cp -42"},
		{137, "cp 137"},
		{MaxScore - 1, "mate 1"},
		{MaxScore - 2, "mate 1"},
		{MaxScore - 3, "mate 2"},
		{-(MaxScore - 2), "mate -1"},
		{-(MaxScore - 5), "mate -3"},
	}
	for _, tc := range cases {
		if got := FormatScore(tc.score); got != tc.want {
			t.Errorf("FormatScore(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestBudgetFor(t *testing.T) {
	if got := budgetFor(Limits{Infinite: true, WhiteTime: time.Minute}, 0); got != 0 {
		t.Errorf("infinite search got a budget of %v", got)
	}
	if got := budgetFor(Limits{MoveTime: time.Second}, 0); got != time.Second-moveOverhead {
		t.Errorf("movetime budget = %v", got)
	}
	if got := budgetFor(Limits{MoveTime: time.Millisecond}, 0); got != minMoveTime {
		t.Errorf("tiny movetime budget = %v, want the floor %v", got, minMoveTime)
	}

	lim := Limits{WhiteTime: 40 * time.Second, WhiteInc: time.Second, BlackTime: time.Minute}
	if got := budgetFor(lim, 0); got != 2*time.Second {
		t.Errorf("white clock budget = %v, want 2s", got)
	}
	if got := budgetFor(lim, 1); got != 1500*time.Millisecond {
		t.Errorf("black clock budget = %v, want 1.5s", got)
	}

	// Never budget more than the clock actually has.
	lim = Limits{WhiteTime: 50 * time.Millisecond, WhiteInc: 5 * time.Second}
	if got := budgetFor(lim, 0); got > 50*time.Millisecond {
		t.Errorf("budget %v exceeds the remaining clock", got)
	}
}
