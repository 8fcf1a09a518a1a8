package engine

import chess "github.com/notnil/chess"

// MaxScore is bigger than the maximum score reachable.
const MaxScore = 30000

// MinScore is smaller than the minimum score reachable.
const MinScore = -30000

// MateScore is reserved for decisive terminal results so they dominate any
// heuristic sum. Checkmate against the side to move scores -MateScore.
const MateScore = 20000

// aspirationMargin bounds the window around the previous depth's score.
const aspirationMargin = 100

// mobilityWeight is the centipawn value of one legal move of advantage.
const mobilityWeight = 10

// DefaultDepth is the iterative deepening ceiling used when none is configured.
const DefaultDepth = 6

var pieceValues = map[chess.PieceType]int{
	chess.Pawn:   100,
	chess.Knight: 320,
	chess.Bishop: 330,
	chess.Rook:   500,
	chess.Queen:  900,
}
