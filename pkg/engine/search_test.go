package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	chess "github.com/notnil/chess"
	"github.com/rs/zerolog"

	"nidhogg/pkg/transposition"
)

// negamaxRef is a plain full-width negamax with no pruning, no table and no
// ordering. Slow but obviously correct, used as the oracle for alphaBeta.
func negamaxRef(pos *chess.Position, depth int) int {
	if depth == 0 {
		return Evaluate(pos)
	}
	moves := pos.ValidMoves()
	if len(moves) == 0 {
		return Evaluate(pos)
	}
	best := MinScore
	for _, mv := range moves {
		if score := -negamaxRef(pos.Update(mv), depth-1); score > best {
			best = score
		}
	}
	return best
}

func isLegal(pos *chess.Position, mv *chess.Move) bool {
	if mv == nil {
		return false
	}
	for _, valid := range pos.ValidMoves() {
		if valid.String() == mv.String() {
			return true
		}
	}
	return false
}

func TestAlphaBetaMatchesFullWidthSearch(t *testing.T) {
	fens := []string{
		"8/8/8/4k3/8/8/4P3/4K3 w - - 0 1", // king and pawn vs king
		"4k3/8/8/8/8/8/8/R3K3 w - - 0 1",  // king and rook vs king
	}
	for _, fenStr := range fens {
		pos := position(t, fenStr)
		for depth := 1; depth <= 3; depth++ {
			want := negamaxRef(pos, depth)
			got, err := alphaBeta(context.Background(), MinScore, MaxScore, 0, depth, pos, transposition.New(0))
			if err != nil {
				t.Fatalf("%s depth %d: alphaBeta error: %v", fenStr, depth, err)
			}
			if got != want {
				t.Errorf("%s depth %d: alphaBeta = %d, full-width = %d", fenStr, depth, got, want)
			}
		}
	}
}

func TestSearchReturnsLegalMove(t *testing.T) {
	pos := chess.NewGame().Position()
	move, score, err := Search(context.Background(), pos, transposition.New(0), 2, zerolog.Nop())
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if !isLegal(pos, move) {
		t.Fatalf("Search returned illegal move %v", move)
	}
	// Nothing hangs in the opening, the score stays heuristic.
	if score < -400 || score > 400 {
		t.Fatalf("Search(startpos) score = %d, want a near-balanced value", score)
	}
}

func TestSearchFindsMateInOne(t *testing.T) {
	// Scholar's mate position, Qxf7 ends the game.
	pos := position(t, "r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4")
	move, score, err := Search(context.Background(), pos, transposition.New(0), 2, zerolog.Nop())
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if move.String() != "h5f7" {
		t.Fatalf("Search = %v, want h5f7", move)
	}
	if score != MateScore {
		t.Fatalf("mate score = %d, want %d", score, MateScore)
	}
}

func TestSearchTerminalPosition(t *testing.T) {
	pos := position(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if _, _, err := Search(context.Background(), pos, transposition.New(0), 3, zerolog.Nop()); !errors.Is(err, ErrNoLegalMoves) {
		t.Fatalf("Search on mated position: err = %v, want ErrNoLegalMoves", err)
	}
}

func TestSearchCancelledBeforeFirstDepth(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pos := chess.NewGame().Position()
	move, score, err := Search(ctx, pos, transposition.New(0), 5, zerolog.Nop())
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if !isLegal(pos, move) {
		t.Fatalf("cancelled Search returned illegal move %v", move)
	}
	if score != 0 {
		t.Fatalf("cancelled Search score = %d, want the neutral fallback 0", score)
	}
}

func TestSearchCancelledMidway(t *testing.T) {
	pos := position(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	ctx, cancel := context.WithCancel(context.Background())
	timer := time.AfterFunc(30*time.Millisecond, cancel)
	defer timer.Stop()

	move, _, err := Search(ctx, pos, transposition.New(0), 7, zerolog.Nop())
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if !isLegal(pos, move) {
		t.Fatalf("interrupted Search returned illegal move %v", move)
	}
}

func TestSearchDeterministic(t *testing.T) {
	pos := position(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	first, _, err := Search(context.Background(), pos, transposition.New(0), 2, zerolog.Nop())
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	second, _, err := Search(context.Background(), pos, transposition.New(0), 2, zerolog.Nop())
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if first.String() != second.String() {
		t.Fatalf("same position, fresh tables: %v then %v", first, second)
	}
}

func TestSearchReusesAgedTable(t *testing.T) {
	// The black queen hangs, Qxd5 is best at any depth.
	pos := position(t, "4k3/8/8/3q4/8/8/8/3QK3 w - - 0 1")
	const depth = 3

	table := transposition.New(0)
	first, firstScore, err := Search(context.Background(), pos, table, depth, zerolog.Nop())
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if firstScore < 500 {
		t.Fatalf("first search score = %d, want a queen-winning score", firstScore)
	}

	hitsBefore := table.Stats().Hits
	table.Age()
	second, secondScore, err := Search(context.Background(), pos, table, depth, zerolog.Nop())
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if second.String() != first.String() || secondScore != firstScore {
		t.Fatalf("aged table changed the answer: %v %d, want %v %d", second, secondScore, first, firstScore)
	}
	if table.Stats().Hits == hitsBefore {
		t.Fatal("second search never hit the populated table")
	}
}

func TestWindowClampsToScoreBounds(t *testing.T) {
	if lo, hi := window(0); lo != -aspirationMargin || hi != aspirationMargin {
		t.Fatalf("window(0) = (%d, %d)", lo, hi)
	}
	if lo, _ := window(MinScore + 10); lo != MinScore {
		t.Fatalf("window near MinScore: lo = %d, want %d", lo, MinScore)
	}
	if _, hi := window(MaxScore - 10); hi != MaxScore {
		t.Fatalf("window near MaxScore: hi = %d, want %d", hi, MaxScore)
	}
}
