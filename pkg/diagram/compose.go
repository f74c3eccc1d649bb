package diagram

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
)

// Layer names stored in the data-layer attribute of grafted pieces
const (
	LayerUnmoved = "unmoved"
	LayerMoved   = "moved"
)

// OverlayClass is the class attribute of the dimming rectangle
const OverlayClass = "overlay"

var piecePath = etree.MustCompilePath("//g[@class='" + PieceClass + "']")

// Overlay describes the rectangle painted between the unmoved and moved layers
type Overlay struct {
	Fill    string
	Opacity float64
}

// DefaultOverlay is a gray sheet at 75% opacity
func DefaultOverlay() Overlay {
	return Overlay{Fill: "gray", Opacity: 0.75}
}

// Composite is a composed, cropped diagram
type Composite struct {
	SVG     []byte
	Unmoved int
	Moved   int
}

// Compose paints board, then the pieces of the unmoved layer, then the overlay,
// then the pieces of the moved layer, and crops the result to window.
// Layers without piece groups are accepted and reported with a zero count.
func Compose(board, unmoved, moved []byte, window Window, overlay Overlay) (*Composite, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(board); err != nil {
		return nil, fmt.Errorf("failed to parse board layer: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("board layer has no root element")
	}

	unmovedCount, err := graft(root, unmoved, LayerUnmoved)
	if err != nil {
		return nil, err
	}

	rect := root.CreateElement("rect")
	rect.CreateAttr("class", OverlayClass)
	rect.CreateAttr("x", "0")
	rect.CreateAttr("y", strconv.Itoa(window.Y))
	rect.CreateAttr("width", strconv.Itoa(window.Width))
	rect.CreateAttr("height", strconv.Itoa(window.Height))
	rect.CreateAttr("fill", overlay.Fill)
	rect.CreateAttr("fill-opacity", strconv.FormatFloat(overlay.Opacity, 'f', -1, 64))

	movedCount, err := graft(root, moved, LayerMoved)
	if err != nil {
		return nil, err
	}

	setWindow(root, window)

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize composite: %w", err)
	}

	return &Composite{
		SVG:     out,
		Unmoved: unmovedCount,
		Moved:   movedCount,
	}, nil
}

// graft copies the piece groups of layer onto root, tagging each with its layer name
func graft(root *etree.Element, layer []byte, name string) (int, error) {
	src := etree.NewDocument()
	if err := src.ReadFromBytes(layer); err != nil {
		return 0, fmt.Errorf("failed to parse %s layer: %w", name, err)
	}

	pieces := src.FindElementsPath(piecePath)
	for _, p := range pieces {
		c := p.Copy()
		c.CreateAttr("data-layer", name)
		root.AddChild(c)
	}
	return len(pieces), nil
}
