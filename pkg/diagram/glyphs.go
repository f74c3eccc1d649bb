package diagram

import (
	svg "github.com/ajstarks/svgo"
	"github.com/corentings/chess/v2"
)

// Glyphs are drawn in a 50x50 box anchored at the square's top-left corner.

func drawGlyph(canvas *svg.SVG, t chess.PieceType) {
	switch t {
	case chess.Pawn:
		canvas.Circle(25, 17, 6)
		canvas.Path("M 17 40 Q 18 27 25 24 Q 32 27 33 40 Z")
		canvas.Rect(13, 39, 24, 4)
	case chess.Knight:
		canvas.Path("M 16 41 L 16 33 Q 20 26 24 24 L 14 24 Q 12 18 18 13 L 23 8 L 25 12 Q 33 12 36 22 Q 38 32 34 41 Z")
		canvas.Circle(20, 17, 1)
		canvas.Rect(12, 39, 26, 4)
	case chess.Bishop:
		canvas.Circle(25, 8, 3)
		canvas.Path("M 25 11 Q 15 20 18 31 L 32 31 Q 35 20 25 11 Z")
		canvas.Path("M 16 40 Q 18 33 20 31 L 30 31 Q 32 33 34 40 Z")
		canvas.Rect(12, 39, 26, 4)
	case chess.Rook:
		canvas.Polygon(
			[]int{13, 13, 18, 18, 23, 23, 27, 27, 32, 32, 37, 37, 33, 33, 37, 37, 13, 13, 17, 17},
			[]int{16, 9, 9, 13, 13, 9, 9, 13, 13, 9, 9, 16, 19, 34, 37, 43, 43, 37, 34, 19},
		)
	case chess.Queen:
		canvas.Polygon(
			[]int{12, 9, 17, 20, 25, 30, 33, 41, 38, 12},
			[]int{36, 14, 24, 11, 22, 11, 24, 14, 36, 36},
		)
		for _, pt := range [][2]int{{9, 14}, {20, 11}, {30, 11}, {41, 14}} {
			canvas.Circle(pt[0], pt[1], 3)
		}
		canvas.Rect(11, 37, 28, 6)
	case chess.King:
		canvas.Path("M 23 5 L 27 5 L 27 9 L 31 9 L 31 13 L 27 13 L 27 17 L 23 17 L 23 13 L 19 13 L 19 9 L 23 9 Z")
		canvas.Path("M 12 37 Q 8 22 25 20 Q 42 22 38 37 Z")
		canvas.Rect(11, 37, 28, 6)
	}
}
