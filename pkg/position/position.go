package position

import (
	"fmt"
	"sort"

	"github.com/corentings/chess/v2"
)

// StartingFEN is the canonical starting position
const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Board answers per-square occupancy queries
type Board interface {
	Piece(sq chess.Square) chess.Piece
}

// Source turns a FEN string into a Board
type Source interface {
	Parse(fen string) (Board, error)
}

// InvalidPositionError is returned when a FEN string cannot be parsed
type InvalidPositionError struct {
	FEN string
	Err error
}

func (e *InvalidPositionError) Error() string {
	return fmt.Sprintf("invalid position %q: %v", e.FEN, e.Err)
}

func (e *InvalidPositionError) Unwrap() error {
	return e.Err
}

// FENSource parses positions with the chess rules library
type FENSource struct{}

// Parse implements Source
func (FENSource) Parse(fen string) (Board, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, &InvalidPositionError{FEN: fen, Err: err}
	}
	return chess.NewGame(opt).Position().Board(), nil
}

var startingBoard Board

func init() {
	b, err := FENSource{}.Parse(StartingFEN)
	if err != nil {
		panic(err)
	}
	startingBoard = b
}

// Squares returns all 64 squares from a1 to h8
func Squares() []chess.Square {
	squares := make([]chess.Square, 64)
	for i := range squares {
		squares[i] = chess.Square(i)
	}
	return squares
}

// RankOf returns the 1-based rank of sq
func RankOf(sq chess.Square) int {
	return int(sq.Rank()) + 1
}

// HighestRank returns the highest rank (1..8) holding a piece of color c.
// A side with no pieces reports rank 1.
func HighestRank(b Board, c chess.Color) int {
	highest := 1
	for _, sq := range Squares() {
		p := b.Piece(sq)
		if p == chess.NoPiece || p.Color() != c {
			continue
		}
		if r := RankOf(sq); r > highest {
			highest = r
		}
	}
	return highest
}

// Classification splits White's pieces by whether they left their starting square
type Classification struct {
	Moved   []chess.Square
	Unmoved []chess.Square
}

// IsUnmoved reports whether sq was classified as unmoved
func (c Classification) IsUnmoved(sq chess.Square) bool {
	return contains(c.Unmoved, sq)
}

// IsMoved reports whether sq was classified as moved
func (c Classification) IsMoved(sq chess.Square) bool {
	return contains(c.Moved, sq)
}

func contains(squares []chess.Square, sq chess.Square) bool {
	i := sort.Search(len(squares), func(i int) bool { return squares[i] >= sq })
	return i < len(squares) && squares[i] == sq
}

// Classify compares every white piece with the starting position's occupant of
// the same square. Identical type and color means unmoved; anything else is moved.
// The comparison is per square, so a piece that travelled onto the home square
// of an identical piece counts as unmoved.
func Classify(b Board) Classification {
	var c Classification
	for _, sq := range Squares() {
		p := b.Piece(sq)
		if p == chess.NoPiece || p.Color() != chess.White {
			continue
		}
		if startingBoard.Piece(sq) == p {
			c.Unmoved = append(c.Unmoved, sq)
		} else {
			c.Moved = append(c.Moved, sq)
		}
	}
	return c
}

// VisibleRanks returns highest+padding clamped to 1..8
func VisibleRanks(highest, padding int) int {
	v := highest + padding
	if v < 1 {
		return 1
	}
	if v > 8 {
		return 8
	}
	return v
}

// Letter returns the FEN letter of p: upper case for White, lower case for Black
func Letter(p chess.Piece) string {
	var l string
	switch p.Type() {
	case chess.King:
		l = "k"
	case chess.Queen:
		l = "q"
	case chess.Rook:
		l = "r"
	case chess.Bishop:
		l = "b"
	case chess.Knight:
		l = "n"
	case chess.Pawn:
		l = "p"
	default:
		return ""
	}
	if p.Color() == chess.White {
		return string(l[0] - 'a' + 'A')
	}
	return l
}
