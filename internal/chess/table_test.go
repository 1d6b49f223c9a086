package chess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRowReversesStorageOrder(t *testing.T) {
	// stored h, g, f, e, d, c, b, a
	r := Rank{
		WhitePiece(Pawn),   // h
		WhitePiece(Knight), // g
		WhitePiece(Bishop), // f
		WhitePiece(King),   // e
		WhitePiece(Queen),  // d
		BlackPiece(Bishop), // c
		BlackPiece(Knight), // b
		BlackPiece(Rook),   // a
	}

	row := NewRow(3, r)

	assert.Equal(t, 3, row.Number)
	assert.Equal(t, BlackPiece(Rook), row.A)
	assert.Equal(t, BlackPiece(Knight), row.B)
	assert.Equal(t, BlackPiece(Bishop), row.C)
	assert.Equal(t, WhitePiece(Queen), row.D)
	assert.Equal(t, WhitePiece(King), row.E)
	assert.Equal(t, WhitePiece(Bishop), row.F)
	assert.Equal(t, WhitePiece(Knight), row.G)
	assert.Equal(t, WhitePiece(Pawn), row.H)

	for f, p := range row.Cells() {
		assert.Equal(t, r.At(File(f)), p, "column %s", Labels[f])
	}
}

func TestRowsOrder(t *testing.T) {
	b := InitialLayout()
	rows := Table(b)
	require.Len(t, rows, Size)

	for i, row := range rows {
		rank := Size - i
		assert.Equal(t, rank, row.Number)
		for f, p := range row.Cells() {
			assert.Equal(t, b.At(File(f), rank), p, "rank %d column %s", rank, Labels[f])
		}
	}

	assert.Equal(t, [Size]Piece{
		BlackPiece(Rook), BlackPiece(Knight), BlackPiece(Bishop), BlackPiece(Queen),
		BlackPiece(King), BlackPiece(Bishop), BlackPiece(Knight), BlackPiece(Rook),
	}, rows[0].Cells())
	assert.Equal(t, WhitePiece(King), rows[7].E)
}

func TestRowsRestartable(t *testing.T) {
	seq := InitialLayout().Rows()

	var first, second []int
	for row := range seq {
		first = append(first, row.Number)
	}
	for row := range seq {
		second = append(second, row.Number)
	}

	assert.Equal(t, []int{8, 7, 6, 5, 4, 3, 2, 1}, first)
	assert.Equal(t, first, second)
}

func TestRowsStopEarly(t *testing.T) {
	var seen int
	for row := range EmptyBoard().Rows() {
		seen++
		if row.Number == 6 {
			break
		}
	}
	assert.Equal(t, 3, seen)
}
