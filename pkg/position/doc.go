// Package position parses FEN strings and answers the questions the diagram
// pipeline asks about a position: where White's pieces are, how far up the
// board they reach, and which of them still stand on their starting square.
//
// Chess rules are delegated to github.com/corentings/chess/v2. This package
// only reads per-square occupancy from it.
package position
