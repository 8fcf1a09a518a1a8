package engine

import (
	"context"
	"errors"
	"sort"

	chess "github.com/notnil/chess"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"nidhogg/pkg/transposition"
)

// ErrNoLegalMoves is returned by Search when the position is already
// terminal. Issuing a search on a finished game is the caller's mistake.
var ErrNoLegalMoves = errors.New("no legal moves in position")

// rootResult pairs a root move with the opponent's reply score for it.
// Lower is better for the side to move.
type rootResult struct {
	move  *chess.Move
	score int
}

// Search runs iterative deepening from depth 1 up to maxDepth, evaluating
// all root moves in parallel at each depth against the shared table. It
// returns the best move and its score from the mover's perspective. On
// cancellation it returns the result of the last fully completed depth, or
// the first legal move if not even depth 1 finished.
func Search(ctx context.Context, pos *chess.Position, table *transposition.Table, maxDepth int, logger zerolog.Logger) (*chess.Move, int, error) {
	rootMoves := pos.ValidMoves()
	if len(rootMoves) == 0 {
		return nil, 0, ErrNoLegalMoves
	}
	orderMoves(rootMoves)

	// The fallback answer if cancellation lands before depth 1 completes.
	best := rootMoves[0]
	bestScore := 0
	alpha, beta := MinScore, MaxScore

	for depth := 1; depth <= maxDepth; depth++ {
		if ctx.Err() != nil {
			break
		}

		switch probe := table.Probe(pos, depth, alpha, beta); probe.Kind {
		case transposition.SearchResult:
			// Deep enough knowledge from an earlier turn, skip the fan-out.
			best, bestScore = probe.Move, probe.Score
			alpha, beta = window(bestScore)
			logger.Debug().Int("depth", depth).Str("move", best.String()).
				Int("score", bestScore).Msg("root table hit")
			continue
		case transposition.OrderingHint:
			promoteMove(rootMoves, probe.Move)
		}

		results := make([]rootResult, len(rootMoves))
		group, groupCtx := errgroup.WithContext(ctx)
		for i, mv := range rootMoves {
			i, mv := i, mv
			group.Go(func() error {
				score, err := alphaBeta(groupCtx, -beta, -alpha, 1, depth, pos.Update(mv), table)
				if err != nil {
					return err
				}
				results[i] = rootResult{move: mv, score: score}
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			// Cancelled mid-depth, keep the last completed depth's answer.
			break
		}

		sort.Stable(byCounterScore(results))
		best = results[0].move
		bestScore = -results[0].score
		table.Insert(pos, transposition.Entry{
			BestResponse: best,
			Depth:        depth,
			Score:        bestScore,
			Node:         transposition.PV,
		})
		alpha, beta = window(bestScore)
		logger.Debug().Int("depth", depth).Str("move", best.String()).
			Int("score", bestScore).Msg("depth completed")
	}
	return best, bestScore, nil
}

// window narrows the aspiration window around the last adopted score. A
// deeper score landing on the boundary is accepted as-is, there is no
// fail-low/fail-high re-search.
func window(score int) (int, int) {
	return imax(score-aspirationMargin, MinScore), imin(score+aspirationMargin, MaxScore)
}

// alphaBeta is a negamax alpha-beta search of the subtree under pos. depth
// counts plies from the root, maxDepth is this iteration's ceiling. The
// returned error is context.Canceled when the shared cancellation signal was
// observed, in which case the score is unusable and the caller falls back to
// the previous depth's result.
func alphaBeta(ctx context.Context, alpha, beta, depth, maxDepth int, pos *chess.Position, table *transposition.Table) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if depth >= maxDepth {
		return Evaluate(pos), nil
	}
	moves := pos.ValidMoves()
	if len(moves) == 0 {
		// Checkmate or stalemate, scored directly.
		return Evaluate(pos), nil
	}

	remaining := maxDepth - depth
	switch probe := table.Probe(pos, remaining, alpha, beta); probe.Kind {
	case transposition.SearchResult:
		return probe.Score, nil
	case transposition.OrderingHint:
		orderMoves(moves)
		promoteMove(moves, probe.Move)
	default:
		orderMoves(moves)
	}

	for _, mv := range moves {
		score, err := alphaBeta(ctx, -beta, -alpha, depth+1, maxDepth, pos.Update(mv), table)
		if err != nil {
			return 0, err
		}
		score = -score
		if score >= beta {
			table.Insert(pos, transposition.Entry{
				BestResponse: mv,
				Depth:        remaining,
				Score:        score,
				Node:         transposition.Cut,
			})
			return beta, nil
		}
		if score > alpha {
			table.Insert(pos, transposition.Entry{
				BestResponse: mv,
				Depth:        remaining,
				Score:        score,
				Node:         transposition.All,
			})
			alpha = score
		}
	}
	return alpha, nil
}
