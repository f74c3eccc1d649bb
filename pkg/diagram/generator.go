package diagram

import (
	"context"
	"fmt"
	"math"

	"github.com/corentings/chess/v2"

	"chesskit/pkg/logger"
	"chesskit/pkg/position"
)

// FileWriter persists finished artifacts
type FileWriter interface {
	WriteFile(name string, data []byte) error
	Remove(name string) error
}

// Options controls cropping and compositing
type Options struct {
	// Size is the logical board size, a multiple of 8
	Size int
	// Padding is the number of extra ranks shown above White's highest piece
	Padding int
	// Crop limits the diagram to the ranks White occupies; false shows the full board
	Crop bool
	// Overlay dims unmoved pieces beneath a translucent sheet; false emits the plain board
	Overlay bool
	// Scale is the number of PNG pixels per logical unit
	Scale float64
}

// DefaultOptions returns the crop-and-overlay settings with no padding
func DefaultOptions() Options {
	return Options{
		Size:    BoardSize,
		Padding: 0,
		Crop:    true,
		Overlay: true,
		Scale:   1,
	}
}

// Result describes one generated diagram
type Result struct {
	Name           string
	SVGFile        string
	PNGFile        string
	HighestRank    int
	VisibleRanks   int
	Window         Window
	Classification position.Classification
	UnmovedPieces  int
	MovedPieces    int
}

// Generator renders named positions into SVG and PNG files
type Generator struct {
	source     position.Source
	renderer   Renderer
	rasterizer Rasterizer
	overlay    Overlay
	writer     FileWriter
	opts       Options
	logger     logger.Logger
}

// GeneratorOption customizes a Generator
type GeneratorOption func(*Generator)

// WithSource replaces the FEN parser
func WithSource(s position.Source) GeneratorOption {
	return func(g *Generator) { g.source = s }
}

// WithRenderer replaces the SVG renderer
func WithRenderer(r Renderer) GeneratorOption {
	return func(g *Generator) { g.renderer = r }
}

// WithRasterizer replaces the PNG rasterizer
func WithRasterizer(r Rasterizer) GeneratorOption {
	return func(g *Generator) { g.rasterizer = r }
}

// WithOverlay changes the overlay color and opacity
func WithOverlay(o Overlay) GeneratorOption {
	return func(g *Generator) { g.overlay = o }
}

// NewGenerator creates a generator writing through w
func NewGenerator(w FileWriter, opts Options, log logger.Logger, options ...GeneratorOption) *Generator {
	if log == nil {
		log = logger.GetLogger()
	}
	// The board is drawn in whole squares
	opts.Size -= opts.Size % 8
	if opts.Size <= 0 {
		opts.Size = BoardSize
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}

	g := &Generator{
		source:     position.FENSource{},
		renderer:   NewSVGRenderer(opts.Size),
		rasterizer: PNGRasterizer{},
		overlay:    DefaultOverlay(),
		writer:     w,
		opts:       opts,
		logger:     log,
	}
	for _, o := range options {
		o(g)
	}
	return g
}

// Generate writes <name>.svg and <name>.png for fen. Both documents are built
// in memory first; nothing is written when parsing, rendering or rasterizing fails.
func (g *Generator) Generate(ctx context.Context, name, fen string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	board, err := g.source.Parse(fen)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	highest := position.HighestRank(board, chess.White)
	visible := 8
	if g.opts.Crop {
		visible = position.VisibleRanks(highest, g.opts.Padding)
	}
	g.logger.Info(fmt.Sprintf("%s: Highest white piece on rank %d, showing %d ranks", name, highest, visible))

	window := Crop(g.opts.Size, visible)
	result := &Result{
		Name:         name,
		SVGFile:      name + ".svg",
		PNGFile:      name + ".png",
		HighestRank:  highest,
		VisibleRanks: visible,
		Window:       window,
	}

	var doc []byte
	if g.opts.Overlay {
		doc, err = g.composite(board, window, result)
	} else {
		doc, err = g.plain(board, window)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	width := int(math.Round(float64(window.Width) * g.opts.Scale))
	height := int(math.Round(float64(window.Height) * g.opts.Scale))
	img, err := g.rasterizer.Rasterize(doc, width, height)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to rasterize: %w", name, err)
	}

	if err := g.writer.WriteFile(result.SVGFile, doc); err != nil {
		return nil, err
	}
	if err := g.writer.WriteFile(result.PNGFile, img); err != nil {
		if rmErr := g.writer.Remove(result.SVGFile); rmErr != nil {
			g.logger.WithError(rmErr).Warn("failed to remove " + result.SVGFile)
		}
		return nil, err
	}

	g.logger.DebugWithFields("diagram written", map[string]interface{}{
		"name":   name,
		"height": window.Height,
		"svg":    result.SVGFile,
		"png":    result.PNGFile,
	})
	return result, nil
}

func (g *Generator) composite(board position.Board, window Window, result *Result) ([]byte, error) {
	class := position.Classify(board)
	result.Classification = class

	base, err := g.renderer.Render(board, RenderOptions{Include: IncludeNone, Coordinates: true})
	if err != nil {
		return nil, fmt.Errorf("failed to render board: %w", err)
	}
	unmoved, err := g.renderer.Render(board, RenderOptions{Include: class.IsUnmoved, TransparentSquares: true})
	if err != nil {
		return nil, fmt.Errorf("failed to render unmoved pieces: %w", err)
	}
	moved, err := g.renderer.Render(board, RenderOptions{Include: class.IsMoved, TransparentSquares: true})
	if err != nil {
		return nil, fmt.Errorf("failed to render moved pieces: %w", err)
	}

	comp, err := Compose(base, unmoved, moved, window, g.overlay)
	if err != nil {
		return nil, err
	}
	result.UnmovedPieces = comp.Unmoved
	result.MovedPieces = comp.Moved

	g.logger.InfoWithFields("layers composed", map[string]interface{}{
		"name":    result.Name,
		"unmoved": comp.Unmoved,
		"moved":   comp.Moved,
	})
	return comp.SVG, nil
}

func (g *Generator) plain(board position.Board, window Window) ([]byte, error) {
	doc, err := g.renderer.Render(board, RenderOptions{Coordinates: true})
	if err != nil {
		return nil, fmt.Errorf("failed to render board: %w", err)
	}
	return ApplyWindow(doc, window)
}
