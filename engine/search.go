package engine

import (
	"sync/atomic"
	"time"

	"heron-engine/heronmg"
)

const (
	MaxScore  int32 = 32500
	Checkmate int32 = 20000
	DrawScore int32 = 0

	// MaxDepth bounds both iterative deepening and the search ply.
	MaxDepth = 64

	// DefaultTTSizeMB is the transposition table size used by NewSearch.
	DefaultTTSizeMB = 64
)

// Stop-flag poll masks: the flag and the clock are checked when the node
// counter crosses these boundaries, keeping stop latency well under a
// millisecond at normal node rates.
const (
	nodePollMask    = 4095
	qsearchPollMask = 2047
)

const nullMoveReduction = 2

// Limits bounds a single search. Zero values mean "unlimited" for their
// dimension; Infinite overrides the clock fields.
type Limits struct {
	Depth    int
	Nodes    uint64
	MoveTime time.Duration

	WhiteTime time.Duration
	BlackTime time.Duration
	WhiteInc  time.Duration
	BlackInc  time.Duration

	Infinite bool
}

// Info is a per-depth progress report.
type Info struct {
	Depth   int
	Score   int32
	Nodes   uint64
	Elapsed time.Duration
	NPS     uint64
	PV      []heronmg.Move
}

// Result is the outcome of a search.
type Result struct {
	Move  heronmg.Move
	Score int32
	Depth int
	Nodes uint64
	PV    []heronmg.Move
}

// Search owns all mutable state of one search thread: tables, counters,
// heuristics and the cancellation flag. It is not safe for concurrent
// searches, but Stop may be called from any goroutine.
type Search struct {
	tables *heronmg.AttackTables
	tt     *TransTable

	// Info, when set, receives a report after every completed depth.
	Info func(Info)

	killers killerTable
	history historyTable
	states  stateStack

	nodes     uint64
	nodeLimit uint64
	deadline  time.Time
	timed     bool

	stop    atomic.Bool
	stopped bool

	bufs  [MaxDepth + 1][]heronmg.Move
	lists [MaxDepth + 1]moveList
}

// NewSearch creates a search context sharing the given attack tables.
func NewSearch(tables *heronmg.AttackTables) *Search {
	return &Search{
		tables: tables,
		tt:     NewTransTable(DefaultTTSizeMB),
	}
}

// Stop requests cancellation of the running search. The search notices
// within one poll interval and the best move from the last completed depth
// is still reported. A request made before the search starts is honored by
// its first poll, so callers that hand the search to another goroutine never
// lose a stop to the startup race.
func (s *Search) Stop() {
	s.stop.Store(true)
}

// ClearStop arms the next search. Call it before handing BestMove to a
// goroutine; BestMove itself never clears the flag.
func (s *Search) ClearStop() {
	s.stop.Store(false)
}

// ResizeTT replaces the transposition table with an empty one of the given
// size. Must not be called while a search is running.
func (s *Search) ResizeTT(sizeMB int) {
	s.tt = NewTransTable(sizeMB)
}

// NewGame clears every table that carries information between searches.
func (s *Search) NewGame() {
	s.tt.Clear()
	s.killers.clear()
	s.history.clear()
}

// Nodes returns the node count of the last search.
func (s *Search) Nodes() uint64 { return s.nodes }

// BestMove runs an iterative-deepening search on the position and returns
// the best move found. history holds the Zobrist hashes of the earlier game
// positions, used for repetition detection across the game.
func (s *Search) BestMove(b *heronmg.Board, history []uint64, lim Limits) Result {
	s.stopped = false
	s.nodes = 0
	s.nodeLimit = lim.Nodes
	s.tt.NextGeneration()
	s.states.reset(history, b.Hash())

	budget := budgetFor(lim, int(b.SideToMove()))
	s.timed = budget > 0
	start := time.Now()
	if s.timed {
		s.deadline = start.Add(budget)
	}

	maxDepth := MaxDepth
	if lim.Depth > 0 {
		maxDepth = Min(lim.Depth, MaxDepth)
	}

	legal := b.LegalMoves(s.tables)
	result := Result{Move: heronmg.NullMove}
	if len(legal) == 0 {
		return result
	}
	// Never return the null move once any legal move exists, even if the
	// very first depth is cancelled before completing.
	result.Move = legal[0]

	var pv PVLine
	for depth := 1; depth <= maxDepth; depth++ {
		// Between depths a timed search stops early if the remaining budget
		// cannot fit another iteration.
		if s.timed && depth > 1 && time.Since(start) >= budget/2 {
			break
		}

		pv.Clear()
		score := s.alphabeta(b, -MaxScore, MaxScore, int8(depth), 0, &pv)

		if s.stopped {
			break
		}

		best := pv.Clone()
		move := best.BestMove()
		if move == heronmg.NullMove {
			move = result.Move
		}
		result = Result{
			Move:  move,
			Score: score,
			Depth: depth,
			Nodes: s.nodes,
			PV:    best.Moves,
		}

		if s.Info != nil {
			elapsed := time.Since(start)
			ms := Max(elapsed.Milliseconds(), 1)
			s.Info(Info{
				Depth:   depth,
				Score:   score,
				Nodes:   s.nodes,
				Elapsed: elapsed,
				NPS:     s.nodes * 1000 / uint64(ms),
				PV:      best.Moves,
			})
		}

		// A forced mate does not get better with more depth.
		if score >= Checkmate || score <= -Checkmate {
			break
		}
	}

	result.Nodes = s.nodes
	return result
}

// shouldStop is the periodic poll: the atomic flag, the clock and the node
// budget, checked every nodePollMask nodes.
func (s *Search) shouldStop() bool {
	if s.stop.Load() {
		return true
	}
	if s.timed && time.Now().After(s.deadline) {
		return true
	}
	if s.nodeLimit > 0 && s.nodes >= s.nodeLimit {
		return true
	}
	return false
}

func (s *Search) alphabeta(b *heronmg.Board, alpha, beta int32, depth, ply int8, pv *PVLine) int32 {
	s.nodes++
	if s.nodes&nodePollMask == 0 && s.shouldStop() {
		s.stopped = true
	}
	if s.stopped {
		return 0
	}

	isRoot := ply == 0
	isPVNode := beta-alpha > 1

	if !isRoot && s.states.isDraw(b) {
		return DrawScore
	}
	if ply >= MaxDepth {
		return Evaluate(b)
	}

	side := b.SideToMove()
	inCheck := b.InCheck(s.tables, side)

	// Check extension: never drop into quiescence while in check.
	if inCheck {
		depth++
	}

	if depth <= 0 {
		return s.quiescence(b, alpha, beta, ply)
	}

	hash := b.Hash()
	var ttMove heronmg.Move
	if entry, hit := s.tt.Probe(hash); hit {
		ttMove = entry.Move
		if !isRoot && !isPVNode {
			if usable, score := entry.Usable(depth, alpha, beta, ply); usable {
				return score
			}
		}
	}

	// Null-move pruning: skip a turn and search reduced with a null window.
	// Not when in check (the null move would be illegal) and not without
	// sliders or knights on our side (zugzwang territory).
	if !inCheck && !isPVNode && depth >= nullMoveReduction+1 &&
		s.hasNonPawnMaterial(b, side) && Abs(beta) < Checkmate {
		st := b.MakeNullMove()
		s.states.push(b.Hash())
		score := -s.alphabeta(b, -beta, -beta+1, depth-1-nullMoveReduction, ply+1, &PVLine{})
		s.states.pop()
		b.UnmakeNullMove(st)
		if s.stopped {
			return 0
		}
		if score >= beta && score < Checkmate {
			return score
		}
	}

	pseudo := b.PseudoMovesInto(s.tables, s.bufs[ply][:0])
	s.bufs[ply] = pseudo[:0]
	list := &s.lists[ply]
	list.score(s, b, pseudo, ply, ttMove)

	var (
		bestMove  heronmg.Move
		bestScore = -MaxScore
		childPV   PVLine
		ttFlag    = int8(AlphaFlag)
		legal     = 0
	)

	for i := 0; i < len(list.moves); i++ {
		m := list.next(i)
		ok, st := b.MakeMove(s.tables, m)
		if !ok {
			continue
		}
		legal++

		s.states.push(b.Hash())
		childPV.Clear()
		score := -s.alphabeta(b, -beta, -alpha, depth-1, ply+1, &childPV)
		s.states.pop()
		b.UnmakeMove(m, st)

		if s.stopped {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
		}

		if score >= beta {
			ttFlag = BetaFlag
			if !m.IsCapture() {
				s.killers.insert(m, ply)
				s.history.bonus(side, m, depth)
			}
			break
		}
		if score > alpha {
			alpha = score
			ttFlag = ExactFlag
			pv.Update(m, childPV)
		}
	}

	if legal == 0 {
		if inCheck {
			return -MaxScore + int32(ply) // mated: prefer the longer defense
		}
		return DrawScore // stalemate
	}

	s.tt.Store(hash, depth, ply, bestMove, bestScore, ttFlag)
	return bestScore
}

// quiescence searches captures and promotions (or the full evasion set when
// in check) until the position is quiet enough to trust the static eval.
func (s *Search) quiescence(b *heronmg.Board, alpha, beta int32, ply int8) int32 {
	s.nodes++
	if s.nodes&qsearchPollMask == 0 && s.shouldStop() {
		s.stopped = true
	}
	if s.stopped {
		return 0
	}
	if ply >= MaxDepth {
		return Evaluate(b)
	}

	inCheck := b.InCheck(s.tables, b.SideToMove())

	bestScore := -MaxScore
	if !inCheck {
		// Stand pat: the side to move may decline all captures.
		standPat := Evaluate(b)
		if standPat >= beta {
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
		bestScore = standPat
	}

	var pseudo []heronmg.Move
	if inCheck {
		pseudo = b.PseudoMovesInto(s.tables, s.bufs[ply][:0])
	} else {
		pseudo = b.CapturesInto(s.tables, s.bufs[ply][:0])
	}
	s.bufs[ply] = pseudo[:0]
	list := &s.lists[ply]
	list.score(s, b, pseudo, ply, heronmg.NullMove)

	legal := 0
	for i := 0; i < len(list.moves); i++ {
		m := list.next(i)
		ok, st := b.MakeMove(s.tables, m)
		if !ok {
			continue
		}
		legal++

		score := -s.quiescence(b, -beta, -alpha, ply+1)
		b.UnmakeMove(m, st)

		if s.stopped {
			return 0
		}

		if score > bestScore {
			bestScore = score
		}
		if score >= beta {
			return score
		}
		if score > alpha {
			alpha = score
		}
	}

	if inCheck && legal == 0 {
		return -MaxScore + int32(ply)
	}
	return bestScore
}

func (s *Search) hasNonPawnMaterial(b *heronmg.Board, side heronmg.Color) bool {
	return b.Pieces(side, heronmg.PieceTypeKnight)|
		b.Pieces(side, heronmg.PieceTypeBishop)|
		b.Pieces(side, heronmg.PieceTypeRook)|
		b.Pieces(side, heronmg.PieceTypeQueen) != 0
}
