package chess

import (
	"iter"
	"slices"
)

// Labels are the column headings of a rendered board, left to right.
var Labels = [Size]string{"a", "b", "c", "d", "e", "f", "g", "h"}

// Row is one rank laid out for display, columns a through h.
type Row struct {
	Number                 int
	A, B, C, D, E, F, G, H Piece
}

// NewRow lays out a stored rank for display. Ranks are stored from file h to
// file a, so the pieces are assigned to the columns in reverse.
func NewRow(number int, r Rank) Row {
	return Row{
		Number: number,
		A:      r[7],
		B:      r[6],
		C:      r[5],
		D:      r[4],
		E:      r[3],
		F:      r[2],
		G:      r[1],
		H:      r[0],
	}
}

// Cells returns the row's pieces from column a to column h.
func (r Row) Cells() [Size]Piece {
	return [Size]Piece{r.A, r.B, r.C, r.D, r.E, r.F, r.G, r.H}
}

// Rows yields the board's ranks from rank 8 down to rank 1. Each call to the
// returned sequence starts over from the top.
func (b Board) Rows() iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for i, r := range b {
			if !yield(NewRow(Size-i, r)) {
				return
			}
		}
	}
}

// Table collects the rendered rows of b.
func Table(b Board) []Row {
	return slices.Collect(b.Rows())
}
