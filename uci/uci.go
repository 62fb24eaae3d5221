// Package uci speaks the Universal Chess Interface on a reader/writer pair.
// The command loop stays responsive while a search runs: go launches the
// search on its own goroutine and stop/quit flip the engine's stop flag.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"heron-engine/engine"
	"heron-engine/heronmg"
)

const (
	EngineName   = "Heron"
	EngineAuthor = "Heron authors"

	defaultHashMB = 64
	minHashMB     = 1
	maxHashMB     = 1024
)

// Session holds the state of one UCI conversation: the current game position,
// the hash history for repetition detection and the search context.
type Session struct {
	tables *heronmg.AttackTables
	search *engine.Search
	log    zerolog.Logger

	out   io.Writer
	outMu sync.Mutex

	board   *heronmg.Board
	history []uint64

	searching atomic.Bool
	wg        sync.WaitGroup
}

// NewSession creates a session starting from the initial position.
func NewSession(tables *heronmg.AttackTables, out io.Writer, log zerolog.Logger) *Session {
	b, err := heronmg.ParseFEN(heronmg.FENStartPos)
	if err != nil {
		panic(err) // the start position constant cannot be invalid
	}
	s := &Session{
		tables: tables,
		search: engine.NewSearch(tables),
		log:    log,
		out:    out,
		board:  b,
	}
	s.search.Info = s.reportInfo
	return s
}

// Run reads commands until quit or EOF. A search still in flight when the
// loop exits is stopped and waited for.
func (s *Session) Run(in io.Reader) error {
	defer func() {
		s.search.Stop()
		s.wg.Wait()
	}()

	scanner := bufio.NewScanner(in)
	// A position command replaying a long game can exceed the scanner's
	// default 64 KB line cap.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 {
			continue
		}

		switch strings.ToLower(tokens[0]) {
		case "uci":
			s.send("id name %s", EngineName)
			s.send("id author %s", EngineAuthor)
			s.send("option name Hash type spin default %d min %d max %d", defaultHashMB, minHashMB, maxHashMB)
			s.send("uciok")
		case "isready":
			s.send("readyok")
		case "setoption":
			s.setOption(tokens[1:])
		case "ucinewgame":
			s.newGame()
		case "position":
			s.position(tokens[1:])
		case "go":
			s.startSearch(tokens[1:])
		case "stop":
			s.search.Stop()
		case "quit":
			return nil
		default:
			s.send("info string Unknown command: %s", tokens[0])
		}
	}
	return scanner.Err()
}

// send writes one protocol line. Serialized because the search goroutine
// prints info and bestmove lines concurrently with the command loop.
func (s *Session) send(format string, args ...any) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintf(s.out, format+"\n", args...)
}

func (s *Session) reportInfo(info engine.Info) {
	pv := engine.PVLine{Moves: info.PV}
	s.send("info depth %d score %s nodes %d nps %d time %d pv %s",
		info.Depth, engine.FormatScore(info.Score), info.Nodes, info.NPS,
		info.Elapsed.Milliseconds(), pv.String())
}

func (s *Session) setOption(tokens []string) {
	// "setoption name <id> value <x>"
	name, value := "", ""
	for i := 0; i < len(tokens)-1; i++ {
		switch strings.ToLower(tokens[i]) {
		case "name":
			name = strings.ToLower(tokens[i+1])
		case "value":
			value = tokens[i+1]
		}
	}

	switch name {
	case "hash":
		if s.searching.Load() {
			s.send("info string setoption ignored during search")
			return
		}
		mb, err := strconv.Atoi(value)
		if err != nil || mb < minHashMB || mb > maxHashMB {
			s.send("info string Invalid Hash value: %s", value)
			return
		}
		s.search.ResizeTT(mb)
		s.log.Debug().Int("mb", mb).Msg("resized hash table")
	default:
		s.send("info string Unknown option: %s", name)
	}
}

func (s *Session) newGame() {
	if s.searching.Load() {
		s.send("info string ucinewgame ignored during search")
		s.log.Warn().Msg("ucinewgame received while searching")
		return
	}
	b, _ := heronmg.ParseFEN(heronmg.FENStartPos)
	s.board = b
	s.history = s.history[:0]
	s.search.NewGame()
}

// position parses "startpos [moves ...]" or "fen <6 fields> [moves ...]".
// On any error the previous position is kept.
func (s *Session) position(tokens []string) {
	if s.searching.Load() {
		s.send("info string position ignored during search")
		s.log.Warn().Msg("position received while searching")
		return
	}
	if len(tokens) == 0 {
		s.send("info string Malformed position command")
		return
	}

	var (
		b   *heronmg.Board
		err error
		i   int
	)
	switch strings.ToLower(tokens[0]) {
	case "startpos":
		b, err = heronmg.ParseFEN(heronmg.FENStartPos)
		i = 1
	case "fen":
		j := 1
		for j < len(tokens) && strings.ToLower(tokens[j]) != "moves" {
			j++
		}
		b, err = heronmg.ParseFEN(strings.Join(tokens[1:j], " "))
		i = j
	default:
		s.send("info string Invalid position subcommand: %s", tokens[0])
		return
	}
	if err != nil {
		s.send("info string Invalid fen position: %v", err)
		return
	}

	history := s.history[:0]
	if i < len(tokens) && strings.ToLower(tokens[i]) == "moves" {
		for _, moveStr := range tokens[i+1:] {
			m, found := matchLegalMove(s.tables, b, strings.ToLower(moveStr))
			if !found {
				s.send("info string Move %s not legal in position %s", moveStr, b.ToFEN())
				break
			}
			history = append(history, b.Hash())
			b.MakeMove(s.tables, m)
		}
	}

	s.board = b
	s.history = history
}

// matchLegalMove resolves a long-algebraic token against the position's
// legal moves, so only moves the rules allow ever reach the board.
func matchLegalMove(tables *heronmg.AttackTables, b *heronmg.Board, token string) (heronmg.Move, bool) {
	for _, m := range b.LegalMoves(tables) {
		if m.String() == token {
			return m, true
		}
	}
	return heronmg.NullMove, false
}

// startSearch parses the go options and launches the search goroutine.
// Exactly one bestmove line is printed per go command.
func (s *Session) startSearch(tokens []string) {
	if s.searching.Load() {
		s.send("info string go ignored, search already running")
		return
	}

	var lim engine.Limits
	for i := 0; i < len(tokens); i++ {
		takeInt := func() (int, bool) {
			if i+1 >= len(tokens) {
				s.send("info string Malformed go command option %s", tokens[i])
				return 0, false
			}
			i++
			n, err := strconv.Atoi(tokens[i])
			if err != nil {
				s.send("info string Malformed go command option %s", tokens[i-1])
				return 0, false
			}
			return n, true
		}

		switch strings.ToLower(tokens[i]) {
		case "infinite":
			lim.Infinite = true
		case "wtime":
			if n, ok := takeInt(); ok {
				lim.WhiteTime = time.Duration(n) * time.Millisecond
			}
		case "btime":
			if n, ok := takeInt(); ok {
				lim.BlackTime = time.Duration(n) * time.Millisecond
			}
		case "winc":
			if n, ok := takeInt(); ok {
				lim.WhiteInc = time.Duration(n) * time.Millisecond
			}
		case "binc":
			if n, ok := takeInt(); ok {
				lim.BlackInc = time.Duration(n) * time.Millisecond
			}
		case "movetime":
			if n, ok := takeInt(); ok {
				lim.MoveTime = time.Duration(n) * time.Millisecond
			}
		case "depth":
			if n, ok := takeInt(); ok {
				lim.Depth = n
			}
		case "nodes":
			if n, ok := takeInt(); ok {
				lim.Nodes = uint64(n)
			}
		case "movestogo":
			takeInt() // accepted but the budget uses a fixed horizon
		default:
			s.send("info string Unknown go subcommand %s", tokens[i])
		}
	}

	// Arm the stop flag here, on the command loop, so a stop or quit that
	// arrives right after go cannot race the goroutine's startup.
	s.search.ClearStop()
	s.searching.Store(true)
	s.wg.Add(1)

	// Search on a copy so the session's board stays untouched if the
	// goroutine is abandoned mid-move on quit.
	board := *s.board
	history := append([]uint64(nil), s.history...)

	go func() {
		defer s.wg.Done()
		defer s.searching.Store(false)

		start := time.Now()
		res := s.search.BestMove(&board, history, lim)
		s.log.Debug().
			Str("move", res.Move.String()).
			Int("depth", res.Depth).
			Uint64("nodes", res.Nodes).
			Dur("elapsed", time.Since(start)).
			Msg("search finished")

		s.send("bestmove %s", res.Move)
	}()
}
