package uci

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"heron-engine/heronmg"
)

var testTables = heronmg.NewAttackTables()

// runSession feeds the input to a fresh session and returns the output
// lines. Run waits for any in-flight search before returning, so the
// output is complete.
func runSession(t *testing.T, input string) []string {
	t.Helper()
	var out bytes.Buffer
	s := NewSession(testTables, &out, zerolog.Nop())
	if err := s.Run(strings.NewReader(input)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return strings.Split(strings.TrimSpace(out.String()), "\n")
}

func findPrefix(lines []string, prefix string) (string, bool) {
	for _, l := range lines {
		if strings.HasPrefix(l, prefix) {
			return l, true
		}
	}
	return "", false
}

func bestMoveToken(t *testing.T, lines []string) string {
	t.Helper()
	line, ok := findPrefix(lines, "bestmove ")
	if !ok {
		t.Fatalf("no bestmove line in output:\n%s", strings.Join(lines, "\n"))
	}
	return strings.Fields(line)[1]
}

// assertLegalUCI checks the move token against an independent rules
// implementation.
func assertLegalUCI(t *testing.T, fen string, uciMoves []string, token string) {
	t.Helper()

	opts := []func(*chess.Game){chess.UseNotation(chess.UCINotation{})}
	if fen != "" {
		fenOpt, err := chess.FEN(fen)
		if err != nil {
			t.Fatalf("oracle rejected fen %q: %v", fen, err)
		}
		opts = append(opts, fenOpt)
	}
	game := chess.NewGame(opts...)
	for _, m := range uciMoves {
		if err := game.MoveStr(m); err != nil {
			t.Fatalf("oracle rejected setup move %s: %v", m, err)
		}
	}

	move, err := chess.UCINotation{}.Decode(game.Position(), token)
	if err != nil {
		t.Fatalf("bestmove %s does not parse in the test position: %v", token, err)
	}
	for _, valid := range game.ValidMoves() {
		if valid.S1() == move.S1() && valid.S2() == move.S2() && valid.Promo() == move.Promo() {
			return
		}
	}
	t.Errorf("bestmove %s is not legal in the test position", token)
}

func TestHandshake(t *testing.T) {
	lines := runSession(t, "uci\nisready\nquit\n")

	for _, want := range []string{"id name ", "id author ", "option name Hash type spin "} {
		if _, ok := findPrefix(lines, want); !ok {
			t.Errorf("missing %q line in handshake output", want)
		}
	}
	if _, ok := findPrefix(lines, "uciok"); !ok {
		t.Error("missing uciok")
	}
	if _, ok := findPrefix(lines, "readyok"); !ok {
		t.Error("missing readyok")
	}
}

func TestGoProducesLegalBestMove(t *testing.T) {
	moves := []string{"e2e4", "e7e5", "g1f3"}
	lines := runSession(t, "position startpos moves "+strings.Join(moves, " ")+"\ngo depth 3\nquit\n")
	assertLegalUCI(t, "", moves, bestMoveToken(t, lines))
}

func TestGoFromFENPosition(t *testing.T) {
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	lines := runSession(t, "position fen "+fen+"\ngo depth 3\nquit\n")
	assertLegalUCI(t, fen, nil, bestMoveToken(t, lines))
}

func TestGoWithNoLegalMoves(t *testing.T) {
	// Stalemate: black to move with nothing legal.
	lines := runSession(t, "position fen 7k/5Q2/6K1/8/8/8/8/8 b - - 0 1\ngo depth 2\nquit\n")
	if got := bestMoveToken(t, lines); got != "0000" {
		t.Errorf("bestmove in a stalemate = %s, want 0000", got)
	}
}

func TestExactlyOneBestMovePerGo(t *testing.T) {
	lines := runSession(t, "position startpos\ngo depth 2\nisready\nquit\n")
	count := 0
	for _, l := range lines {
		if strings.HasPrefix(l, "bestmove ") {
			count++
		}
	}
	if count != 1 {
		t.Errorf("got %d bestmove lines, want 1", count)
	}
}

func TestInfoLinesPrecedeBestMove(t *testing.T) {
	lines := runSession(t, "position startpos\ngo depth 3\nquit\n")
	if _, ok := findPrefix(lines, "info depth 1 score "); !ok {
		t.Errorf("missing depth-1 info line:\n%s", strings.Join(lines, "\n"))
	}
	bestMoveToken(t, lines)
}

func TestMalformedInputTolerated(t *testing.T) {
	input := strings.Join([]string{
		"bogus",
		"position",
		"position fen not a real fen at all 1",
		"position startpos moves e2e5", // illegal
		"go depth notanumber",
		"isready",
		"quit",
	}, "\n") + "\n"

	lines := runSession(t, input)

	if _, ok := findPrefix(lines, "readyok"); !ok {
		t.Fatal("session died on malformed input before answering isready")
	}
	if _, ok := findPrefix(lines, "info string "); !ok {
		t.Error("malformed input produced no diagnostics")
	}
}

func TestLongCommandLineSurvivesScanner(t *testing.T) {
	// Well past the default 64 KB bufio.Scanner cap.
	longMoves := strings.Repeat("e2e4 ", 20000)
	input := "position startpos moves " + longMoves + "\nisready\nquit\n"

	lines := runSession(t, input)

	if _, ok := findPrefix(lines, "readyok"); !ok {
		t.Fatal("session died on an oversized command line")
	}
}

func TestInvalidFENKeepsPriorPosition(t *testing.T) {
	// After the bad fen the position must still be startpos + e2e4.
	input := "position startpos moves e2e4\n" +
		"position fen 9/8/8/8/8/8/8/8 w - - 0 1\n" +
		"go depth 2\nquit\n"
	lines := runSession(t, input)
	assertLegalUCI(t, "", []string{"e2e4"}, bestMoveToken(t, lines))
}

func TestIllegalMoveAbortsListButKeepsPrefix(t *testing.T) {
	// e7e5 for white is illegal; the position stays at startpos + e2e4.
	input := "position startpos moves e2e4 e2e5 g8f6\ngo depth 2\nquit\n"
	lines := runSession(t, input)

	if _, ok := findPrefix(lines, "info string Move e2e5 "); !ok {
		t.Errorf("no diagnostic for the illegal move:\n%s", strings.Join(lines, "\n"))
	}
	assertLegalUCI(t, "", []string{"e2e4"}, bestMoveToken(t, lines))
}

func TestStopEndsInfiniteSearch(t *testing.T) {
	pr, pw := io.Pipe()
	var out bytes.Buffer
	s := NewSession(testTables, &out, zerolog.Nop())

	done := make(chan error, 1)
	go func() { done <- s.Run(pr) }()

	io.WriteString(pw, "position startpos\ngo infinite\n")
	time.Sleep(150 * time.Millisecond)
	io.WriteString(pw, "stop\nquit\n")

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("session did not shut down after stop/quit")
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assertLegalUCI(t, "", nil, bestMoveToken(t, lines))
}

func TestQuitDuringSearchDoesNotHang(t *testing.T) {
	pr, pw := io.Pipe()
	var out bytes.Buffer
	s := NewSession(testTables, &out, zerolog.Nop())

	done := make(chan error, 1)
	go func() { done <- s.Run(pr) }()

	io.WriteString(pw, "position startpos\ngo infinite\nquit\n")

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("quit did not terminate the running search")
	}
}

func TestCommandsRejectedDuringSearch(t *testing.T) {
	pr, pw := io.Pipe()
	var out bytes.Buffer
	s := NewSession(testTables, &out, zerolog.Nop())

	done := make(chan error, 1)
	go func() { done <- s.Run(pr) }()

	io.WriteString(pw, "position startpos\ngo infinite\n")
	time.Sleep(100 * time.Millisecond)
	io.WriteString(pw, "position startpos moves e2e4\nucinewgame\ngo depth 1\n")
	time.Sleep(50 * time.Millisecond)
	io.WriteString(pw, "stop\nquit\n")

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("session hung")
	}

	text := out.String()
	for _, want := range []string{
		"info string position ignored during search",
		"info string ucinewgame ignored during search",
		"info string go ignored, search already running",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in output:\n%s", want, text)
		}
	}
}

func TestSetOptionHash(t *testing.T) {
	lines := runSession(t, "setoption name Hash value 16\nsetoption name Hash value zero\nsetoption name Foo value 1\nisready\nquit\n")

	if _, ok := findPrefix(lines, "info string Invalid Hash value"); !ok {
		t.Error("bad hash value produced no diagnostic")
	}
	if _, ok := findPrefix(lines, "info string Unknown option"); !ok {
		t.Error("unknown option produced no diagnostic")
	}
	if _, ok := findPrefix(lines, "readyok"); !ok {
		t.Error("session did not answer isready after setoption")
	}
}
