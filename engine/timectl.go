package engine

import "time"

// Safety knobs for the time budget.
const (
	moveOverhead = 30 * time.Millisecond // reserve for protocol/IO jitter
	minMoveTime  = 5 * time.Millisecond
	movesToGo    = 40
)

// budgetFor turns the limits into a per-move time budget, or zero when the
// search is not time-limited. The clock allocation is remaining/40 plus the
// increment, clamped so the engine never flags on a low clock.
func budgetFor(lim Limits, side int) time.Duration {
	if lim.Infinite {
		return 0
	}
	if lim.MoveTime > 0 {
		return Max(lim.MoveTime-moveOverhead, minMoveTime)
	}

	remaining := lim.WhiteTime
	increment := lim.WhiteInc
	if side != 0 {
		remaining = lim.BlackTime
		increment = lim.BlackInc
	}
	if remaining <= 0 {
		return 0
	}

	budget := remaining/movesToGo + increment
	budget = Min(budget, remaining-moveOverhead)
	return Max(budget, minMoveTime)
}
