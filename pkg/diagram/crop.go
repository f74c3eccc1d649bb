package diagram

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
)

// Window is the visible strip of the board, measured from the top edge
type Window struct {
	Y      int
	Width  int
	Height int
}

// Crop returns the window showing the bottom visibleRanks ranks of a board
// that is size units wide. visibleRanks is clamped to 1..8.
func Crop(size, visibleRanks int) Window {
	if visibleRanks < 1 {
		visibleRanks = 1
	}
	if visibleRanks > 8 {
		visibleRanks = 8
	}
	height := visibleRanks * size / 8
	return Window{
		Y:      size - height,
		Width:  size,
		Height: height,
	}
}

// ViewBox formats the window as an SVG viewBox value
func (w Window) ViewBox() string {
	return fmt.Sprintf("0 %d %d %d", w.Y, w.Width, w.Height)
}

// Ranks returns how many ranks the window shows
func (w Window) Ranks() int {
	if w.Width == 0 {
		return 0
	}
	return w.Height * 8 / w.Width
}

// ApplyWindow crops an SVG document by rewriting its root viewBox and height
func ApplyWindow(doc []byte, window Window) ([]byte, error) {
	d := etree.NewDocument()
	if err := d.ReadFromBytes(doc); err != nil {
		return nil, fmt.Errorf("failed to parse svg: %w", err)
	}
	root := d.Root()
	if root == nil {
		return nil, fmt.Errorf("svg document has no root element")
	}
	setWindow(root, window)
	return d.WriteToBytes()
}

func setWindow(root *etree.Element, window Window) {
	root.CreateAttr("viewBox", window.ViewBox())
	root.CreateAttr("height", strconv.Itoa(window.Height))
}
