package engine

import (
	"strings"

	chess "github.com/notnil/chess"
)

// nullMove returns the position with the side to move flipped and no move
// played, used only for the opponent mobility term. It returns nil when
// passing is illegal, i.e. the side to move is in check.
func nullMove(pos *chess.Position) *chess.Position {
	if inCheck(pos) {
		return nil
	}
	fields := strings.Fields(pos.String())
	if len(fields) != 6 {
		return nil
	}
	if fields[1] == "w" {
		fields[1] = "b"
	} else {
		fields[1] = "w"
	}
	// A pass invalidates any en passant capture.
	fields[3] = "-"
	fen, err := chess.FEN(strings.Join(fields, " "))
	if err != nil {
		return nil
	}
	return chess.NewGame(fen).Position()
}

// inCheck reports whether the side to move has its king attacked.
func inCheck(pos *chess.Position) bool {
	board := pos.Board()
	mover := pos.Turn()
	for sq := chess.A1; sq <= chess.H8; sq++ {
		piece := board.Piece(sq)
		if piece.Type() == chess.King && piece.Color() == mover {
			return squareAttacked(board, sq, mover.Other())
		}
	}
	return false
}

var knightDeltas = [8][2]int{
	{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
}

var kingDeltas = [8][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

var rookDirs = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

var bishopDirs = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

// squareAttacked reports whether any piece of the given color attacks the
// target square.
func squareAttacked(board *chess.Board, target chess.Square, by chess.Color) bool {
	file := int(target.File())
	rank := int(target.Rank())

	// Pawns attack diagonally toward the enemy side.
	pawnRank := rank - 1
	if by == chess.Black {
		pawnRank = rank + 1
	}
	for _, df := range [2]int{-1, 1} {
		if piece, ok := pieceAt(board, file+df, pawnRank); ok &&
			piece.Type() == chess.Pawn && piece.Color() == by {
			return true
		}
	}

	for _, d := range knightDeltas {
		if piece, ok := pieceAt(board, file+d[0], rank+d[1]); ok &&
			piece.Type() == chess.Knight && piece.Color() == by {
			return true
		}
	}

	for _, d := range kingDeltas {
		if piece, ok := pieceAt(board, file+d[0], rank+d[1]); ok &&
			piece.Type() == chess.King && piece.Color() == by {
			return true
		}
	}

	if slideAttacked(board, file, rank, by, rookDirs, chess.Rook) {
		return true
	}
	return slideAttacked(board, file, rank, by, bishopDirs, chess.Bishop)
}

// slideAttacked walks each ray until it hits a piece and checks whether that
// piece is a queen or the given slider of the attacking color.
func slideAttacked(board *chess.Board, file, rank int, by chess.Color, dirs [4][2]int, slider chess.PieceType) bool {
	for _, d := range dirs {
		f, r := file+d[0], rank+d[1]
		for {
			piece, ok := pieceAt(board, f, r)
			if !ok {
				break
			}
			if piece != chess.NoPiece {
				if piece.Color() == by && (piece.Type() == slider || piece.Type() == chess.Queen) {
					return true
				}
				break
			}
			f += d[0]
			r += d[1]
		}
	}
	return false
}

// pieceAt returns the piece on (file, rank), ok is false off the board.
func pieceAt(board *chess.Board, file, rank int) (chess.Piece, bool) {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return chess.NoPiece, false
	}
	return board.Piece(chess.Square(file + rank*8)), true
}
