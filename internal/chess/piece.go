package chess

// Kind is the type of piece occupying a square.
type Kind int

const (
	Empty Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "unknown"
	}
}

// Team is the side a piece belongs to.
type Team int

const (
	White Team = iota
	Black
	Neither
)

func (t Team) String() string {
	switch t {
	case White:
		return "white"
	case Black:
		return "black"
	case Neither:
		return "neither"
	default:
		return "unknown"
	}
}

// Piece describes what occupies a square. The zero value is not a valid
// piece; use NewPiece or EmptyPiece.
type Piece struct {
	Kind Kind
	Team Team
}

// EmptyPiece is the occupant of a free square.
var EmptyPiece = Piece{Kind: Empty, Team: Neither}

// NewPiece returns a piece of the given kind and team. An empty kind always
// belongs to no team, and a real piece without a team is treated as empty.
func NewPiece(kind Kind, team Team) Piece {
	if kind == Empty || team == Neither {
		return EmptyPiece
	}
	return Piece{Kind: kind, Team: team}
}

// WhitePiece and BlackPiece are shorthands for NewPiece.
func WhitePiece(kind Kind) Piece { return NewPiece(kind, White) }

func BlackPiece(kind Kind) Piece { return NewPiece(kind, Black) }

// IsEmpty reports whether the square holds no piece.
func (p Piece) IsEmpty() bool {
	return p.Kind == Empty
}

var glyphs = map[Team]map[Kind]string{
	White: {King: "♔", Queen: "♕", Rook: "♖", Bishop: "♗", Knight: "♘", Pawn: "♙"},
	Black: {King: "♚", Queen: "♛", Rook: "♜", Bishop: "♝", Knight: "♞", Pawn: "♟"},
}

// Glyph returns the unicode chess symbol for the piece, or "" for an empty square.
func (p Piece) Glyph() string {
	return glyphs[p.Team][p.Kind]
}

func (p Piece) String() string {
	if p.IsEmpty() {
		return EmptyPiece.Kind.String()
	}
	return p.Team.String() + " " + p.Kind.String()
}
