package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	chess "github.com/notnil/chess"

	"nidhogg/pkg/engine"
	"nidhogg/pkg/logx"
	"nidhogg/pkg/transposition"
)

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
var depth = flag.Int("depth", 5, "search depth")

// Standard bench positions used by many chess engines.
var benchPositions = []string{
	"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
}

func main() {
	flag.Parse()
	logger := logx.New(os.Stderr)
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			logger.Fatal().Err(err).Msg("cannot create profile file")
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	for _, fenStr := range benchPositions {
		fen, err := chess.FEN(fenStr)
		if err != nil {
			logger.Fatal().Err(err).Str("fen", fenStr).Msg("bad bench position")
		}
		pos := chess.NewGame(fen).Position()
		table := transposition.New(0)

		start := time.Now()
		move, score, err := engine.Search(context.Background(), pos, table, *depth, logger)
		if err != nil {
			logger.Fatal().Err(err).Str("fen", fenStr).Msg("search failed")
		}
		elapsed := time.Since(start)
		stats := table.Stats()
		fmt.Printf("%-72s %6s %6d %12v lookups=%d hits=%d stores=%d\n",
			fenStr, move, score, elapsed, stats.Lookups, stats.Hits, stats.Stores)
	}
}
