package engine

import (
	chess "github.com/notnil/chess"
)

// Evaluate scores the position from the perspective of the side to move,
// negamax convention: the same position is worth the negation for the other
// side. Checkmate against the mover scores -MateScore, draws score 0,
// everything else is material plus mobility.
func Evaluate(pos *chess.Position) int {
	switch pos.Status() {
	case chess.Checkmate:
		return -MateScore
	case chess.Stalemate:
		return 0
	}
	return material(pos) + mobilityWeight*mobility(pos)
}

// material is the weighted piece count difference, mover minus opponent.
func material(pos *chess.Position) int {
	board := pos.Board()
	mover := pos.Turn()
	score := 0
	for sq := chess.A1; sq <= chess.H8; sq++ {
		piece := board.Piece(sq)
		if piece == chess.NoPiece {
			continue
		}
		value := pieceValues[piece.Type()]
		if piece.Color() == mover {
			score += value
		} else {
			score -= value
		}
	}
	return score
}

// mobility is the legal move count difference, mover minus opponent. The
// opponent's count is taken from the null-moved position; when passing is
// illegal (the mover is in check) the opponent term is dropped.
func mobility(pos *chess.Position) int {
	own := len(pos.ValidMoves())
	null := nullMove(pos)
	if null == nil {
		return own
	}
	return own - len(null.ValidMoves())
}
