package engine

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Min returns the smaller of x or y.
func Min[T constraints.Ordered](x, y T) T {
	if x < y {
		return x
	}
	return y
}

// Max returns the larger of x or y.
func Max[T constraints.Ordered](x, y T) T {
	if x > y {
		return x
	}
	return y
}

// Clamp restricts v to the inclusive range [low, high].
func Clamp[T constraints.Ordered](v, low, high T) T {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

// Abs returns the absolute value of x.
func Abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// FormatScore renders a score in UCI terms: "cp N" for centipawn scores and
// "mate N" (moves, not plies, negative when the engine is being mated) for
// scores inside the mate band.
func FormatScore(score int32) string {
	if score >= Checkmate {
		plies := Max(MaxScore-score, 0)
		return fmt.Sprintf("mate %d", (plies+1)/2)
	}
	if score <= -Checkmate {
		plies := Max(MaxScore+score, 0)
		return fmt.Sprintf("mate %d", -(plies+1)/2)
	}
	return fmt.Sprintf("cp %d", score)
}
