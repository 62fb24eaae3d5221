// Searchbench runs fixed-depth searches from the command line, for timing
// and profiling the search outside of a UCI session.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"heron-engine/engine"
	"heron-engine/heronmg"
)

func main() {
	depth := flag.Int("depth", 8, "search depth in plies")
	repeat := flag.Int("repeat", 1, "number of searches to run")
	fen := flag.String("fen", heronmg.FENStartPos, "FEN to search")
	hashMB := flag.Int("hash", engine.DefaultTTSizeMB, "transposition table size in MB")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	flag.Parse()

	if *depth <= 0 {
		log.Fatalf("depth must be positive, got %d", *depth)
	}

	board, err := heronmg.ParseFEN(*fen)
	if err != nil {
		log.Fatalf("parsing fen: %v", err)
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatalf("could not create CPU profile: %v", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
		}()
	}

	tables := heronmg.NewAttackTables()
	search := engine.NewSearch(tables)
	search.ResizeTT(*hashMB)

	var totalNodes uint64
	start := time.Now()
	for i := 0; i < *repeat; i++ {
		search.NewGame() // a cold table each run, so repeats are comparable
		b := *board
		res := search.BestMove(&b, nil, engine.Limits{Depth: *depth})
		totalNodes += res.Nodes
		fmt.Printf("run %d: bestmove %s score %s depth %d nodes %d\n",
			i+1, res.Move, engine.FormatScore(res.Score), res.Depth, res.Nodes)
	}
	elapsed := time.Since(start)

	nps := float64(totalNodes) / elapsed.Seconds()
	fmt.Printf("total: nodes %d time %s nps %.0f\n", totalNodes, elapsed, nps)
}
