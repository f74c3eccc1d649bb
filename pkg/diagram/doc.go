// Package diagram renders opening positions as SVG and PNG files.
//
// A diagram is built from three renderings of the same position: the bare
// board with coordinates, White's unmoved pieces and White's moved pieces.
// The piece groups of the two piece layers are grafted onto the board with
// a translucent overlay between them, so pieces still on their home square
// appear dimmed. The result is cropped to the ranks White occupies.
//
// Usage:
//
//	manager, _ := storage.NewManager("chess_openings", storage.PolicyOverwrite)
//	gen := diagram.NewGenerator(manager, diagram.DefaultOptions(), log)
//	result, err := gen.Generate(ctx, "Queens_Gambit_white", "8/8/8/8/2PP4/8/PP2PPPP/RNBQKBNR w - - 0 1")
package diagram
