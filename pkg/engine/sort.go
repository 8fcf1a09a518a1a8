package engine

import (
	"sort"

	chess "github.com/notnil/chess"
)

// moveWeight ranks checks and captures ahead of quiet moves, they have the
// highest potential score variance.
func moveWeight(mv *chess.Move) int {
	weight := 0
	if mv.HasTag(chess.Check) {
		weight += 2
	}
	if mv.HasTag(chess.Capture) {
		weight++
	}
	return weight
}

// orderMoves sorts the move list so the most forcing moves are searched
// first, tightening the pruning window early.
func orderMoves(moves []*chess.Move) {
	sort.SliceStable(moves, func(i, j int) bool {
		return moveWeight(moves[i]) > moveWeight(moves[j])
	})
}

// promoteMove swaps the hinted move to the front of the list so its subtree
// is examined first. Moves from different generations compare by notation.
func promoteMove(moves []*chess.Move, hint *chess.Move) {
	if hint == nil {
		return
	}
	for i, mv := range moves {
		if mv.String() == hint.String() {
			moves[0], moves[i] = moves[i], moves[0]
			return
		}
	}
}

// byCounterScore sorts root results ascending by the opponent's reply score,
// the root's best move is the one minimizing the opponent's counter-score.
// Used with sort.Stable so equal scores keep their generation order.
type byCounterScore []rootResult

func (a byCounterScore) Len() int           { return len(a) }
func (a byCounterScore) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byCounterScore) Less(i, j int) bool { return a[i].score < a[j].score }
