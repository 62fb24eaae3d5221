// Perft driver: counts leaf nodes of the move generator for a position,
// optionally split per root move. Used to verify the generator against
// published reference counts.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"heron-engine/heronmg"
)

func main() {
	fen := flag.String("fen", heronmg.FENStartPos, "FEN string (defaults to initial position)")
	depth := flag.Int("depth", 0, "Perft depth (required)")
	divide := flag.Bool("divide", false, "Print per-move node counts at root")
	flag.Parse()

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}

	board, err := heronmg.ParseFEN(*fen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ParseFEN error: %v\n", err)
		os.Exit(2)
	}
	tables := heronmg.NewAttackTables()

	if *divide {
		div := heronmg.PerftDivide(tables, board, *depth)
		moves := make([]heronmg.Move, 0, len(div))
		for m := range div {
			moves = append(moves, m)
		}
		sort.Slice(moves, func(i, j int) bool { return moves[i].String() < moves[j].String() })
		var sum uint64
		for _, m := range moves {
			fmt.Printf("%s: %d\n", m, div[m])
			sum += div[m]
		}
		fmt.Printf("Total: %d\n", sum)
		return
	}

	start := time.Now()
	nodes := heronmg.Perft(tables, board, *depth)
	elapsed := time.Since(start)
	nps := float64(nodes) / elapsed.Seconds()

	fmt.Printf("depth %d nodes %d time %s nps %.0f\n", *depth, nodes, elapsed, nps)
}
