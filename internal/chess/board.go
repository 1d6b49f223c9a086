package chess

import (
	"github.com/charmbracelet/log"
)

// File is a board column, a through h.
type File int

const (
	FileA File = iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
)

// Size is the number of files and ranks on a board.
const Size = 8

func (f File) String() string {
	if f < FileA || f > FileH {
		return "?"
	}
	return string(rune('a' + f))
}

// Rank holds the eight squares of one rank, stored from file h to file a.
type Rank [Size]Piece

// At returns the piece standing on file f of this rank.
func (r Rank) At(f File) Piece {
	return r[FileH-f]
}

// Board holds the squares rank by rank, rank 8 first.
type Board [Size]Rank

func boardIndex(rank int) int {
	return Size - rank
}

// At returns the piece on the given file and rank (1-8).
func (b Board) At(f File, rank int) Piece {
	return b[boardIndex(rank)].At(f)
}

// With returns a copy of the board with p placed on the given square.
func (b Board) With(f File, rank int, p Piece) Board {
	b[boardIndex(rank)][FileH-f] = p
	return b
}

// queenSide lists the back-rank pieces on files a, b and c. Files f, g and h
// mirror them.
var queenSide = [3]Kind{Rook, Knight, Bishop}

func backRank() [Size]Kind {
	var kinds [Size]Kind
	for i, k := range queenSide {
		kinds[FileA+File(i)] = k
		kinds[FileH-File(i)] = k
	}
	kinds[FileD] = Queen
	kinds[FileE] = King
	return kinds
}

func fill(kind Kind, team Team) Rank {
	var r Rank
	for i := range r {
		r[i] = NewPiece(kind, team)
	}
	return r
}

func pieces(kinds [Size]Kind, team Team) Rank {
	var r Rank
	for f, k := range kinds {
		r[FileH-File(f)] = NewPiece(k, team)
	}
	return r
}

// EmptyBoard returns a board with no pieces on it.
func EmptyBoard() Board {
	var b Board
	for i := range b {
		b[i] = fill(Empty, Neither)
	}
	return b
}

// InitialLayout returns the standard chess starting position.
func InitialLayout() Board {
	log.Debug("setting up starting chess board")

	kinds := backRank()
	b := EmptyBoard()
	b[boardIndex(8)] = pieces(kinds, Black)
	b[boardIndex(7)] = fill(Pawn, Black)
	b[boardIndex(2)] = fill(Pawn, White)
	b[boardIndex(1)] = pieces(kinds, White)
	return b
}

// Layout builds a board from caller supplied cells, laid out like Board
// (rank 8 first, each rank from file h to file a). A nil grid yields the
// starting position. The cells are copied as given without any check on
// legality or piece counts; a grid smaller than 8x8 panics.
func Layout(cells [][]Piece) Board {
	if cells == nil {
		return InitialLayout()
	}
	var b Board
	for i := range b {
		for j := range b[i] {
			b[i][j] = cells[i][j]
		}
	}
	return b
}
