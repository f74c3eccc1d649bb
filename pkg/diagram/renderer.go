package diagram

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo"
	"github.com/corentings/chess/v2"

	"chesskit/pkg/position"
)

// BoardSize is the default logical width and height of a rendered board
const BoardSize = 400

// glyphSize is the box the piece glyphs are drawn in
const glyphSize = 50

// PieceClass is the class attribute carried by every piece group
const PieceClass = "piece"

// RenderOptions controls what a single rendering contains
type RenderOptions struct {
	// Include selects the squares whose piece is drawn. Nil draws every piece.
	Include func(sq chess.Square) bool
	// TransparentSquares leaves the board squares out so only pieces are painted
	TransparentSquares bool
	// Coordinates adds file letters and rank numbers along the board edges
	Coordinates bool
}

// IncludeNone draws no pieces
func IncludeNone(chess.Square) bool { return false }

// Renderer turns a board into an SVG document
type Renderer interface {
	Render(b position.Board, opts RenderOptions) ([]byte, error)
}

// Theme holds the board colors
type Theme struct {
	Light      string
	Dark       string
	Coordinate string
	WhiteFill  string
	BlackFill  string
	Outline    string
}

// DefaultTheme returns the classic brown board
func DefaultTheme() Theme {
	return Theme{
		Light:      "#f0d9b5",
		Dark:       "#b58863",
		Coordinate: "#333333",
		WhiteFill:  "#ffffff",
		BlackFill:  "#000000",
		Outline:    "#000000",
	}
}

// SVGRenderer draws boards from White's side with github.com/ajstarks/svgo
type SVGRenderer struct {
	// Size is the board width in logical units, a multiple of 8
	Size  int
	Theme Theme
}

// NewSVGRenderer creates a renderer with the default theme
func NewSVGRenderer(size int) *SVGRenderer {
	if size <= 0 {
		size = BoardSize
	}
	return &SVGRenderer{Size: size, Theme: DefaultTheme()}
}

func (r *SVGRenderer) square() int {
	if r.Size <= 0 {
		return BoardSize / 8
	}
	return r.Size / 8
}

// Render implements Renderer
func (r *SVGRenderer) Render(b position.Board, opts RenderOptions) ([]byte, error) {
	if b == nil {
		return nil, fmt.Errorf("render: nil board")
	}

	size := r.square() * 8

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Startview(size, size, 0, 0, size, size)

	if !opts.TransparentSquares {
		r.drawSquares(canvas)
	}
	if opts.Coordinates {
		r.drawCoordinates(canvas)
	}

	for _, sq := range position.Squares() {
		p := b.Piece(sq)
		if p == chess.NoPiece {
			continue
		}
		if opts.Include != nil && !opts.Include(sq) {
			continue
		}
		r.drawPiece(canvas, sq, p)
	}

	canvas.End()
	return buf.Bytes(), nil
}

// squareOrigin returns the top-left corner of sq with White at the bottom
func squareOrigin(sq chess.Square, size int) (int, int) {
	return int(sq.File()) * size, (7 - int(sq.Rank())) * size
}

func (r *SVGRenderer) drawSquares(canvas *svg.SVG) {
	size := r.square()
	canvas.Group(`class="board"`)
	for _, sq := range position.Squares() {
		x, y := squareOrigin(sq, size)
		fill := r.Theme.Dark
		if (int(sq.File())+int(sq.Rank()))%2 == 1 {
			fill = r.Theme.Light
		}
		canvas.Rect(x, y, size, size, fmt.Sprintf(`fill="%s"`, fill))
	}
	canvas.Gend()
}

func (r *SVGRenderer) drawCoordinates(canvas *svg.SVG) {
	size := r.square()
	canvas.Group(`class="coordinates"`, `font-family="sans-serif"`, `font-size="10"`, fmt.Sprintf(`fill="%s"`, r.Theme.Coordinate))
	for file := 0; file < 8; file++ {
		canvas.Text(file*size+size-8, 8*size-3, string(rune('a'+file)))
	}
	for rank := 0; rank < 8; rank++ {
		canvas.Text(2, (7-rank)*size+11, fmt.Sprint(rank+1))
	}
	canvas.Gend()
}

func (r *SVGRenderer) drawPiece(canvas *svg.SVG, sq chess.Square, p chess.Piece) {
	fill := r.Theme.BlackFill
	stroke := r.Theme.WhiteFill
	if p.Color() == chess.White {
		fill = r.Theme.WhiteFill
		stroke = r.Theme.Outline
	}

	size := r.square()
	x, y := squareOrigin(sq, size)
	transform := fmt.Sprintf("translate(%d,%d)", x, y)
	if size != glyphSize {
		transform += fmt.Sprintf(" scale(%g)", float64(size)/glyphSize)
	}
	canvas.Group(
		fmt.Sprintf(`class="%s"`, PieceClass),
		fmt.Sprintf(`data-square="%s"`, sq.String()),
		fmt.Sprintf(`data-piece="%s"`, position.Letter(p)),
		fmt.Sprintf(`transform="%s"`, transform),
		fmt.Sprintf(`fill="%s"`, fill),
		fmt.Sprintf(`stroke="%s"`, stroke),
		`stroke-width="1.5"`,
	)
	drawGlyph(canvas, p.Type())
	canvas.Gend()
}
