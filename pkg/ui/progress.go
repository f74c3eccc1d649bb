package ui

import (
	"fmt"
	"strings"
	"time"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
)

// Progress tracks completion of a fixed number of steps
type Progress struct {
	Label     string
	Total     int
	Done      int
	Failed    int
	StartTime time.Time
}

// NewProgress creates a tracker for total steps
func NewProgress(label string, total int) *Progress {
	return &Progress{
		Label:     label,
		Total:     total,
		StartTime: time.Now(),
	}
}

// Step records one finished step
func (p *Progress) Step(failed bool) {
	p.Done++
	if failed {
		p.Failed++
	}
}

// Bar returns a formatted progress bar
func (p *Progress) Bar() string {
	const width = 20
	filled := 0
	if p.Total > 0 {
		filled = p.Done * width / p.Total
	}
	if filled > width {
		filled = width
	}

	bar := strings.Repeat(ProgressBar, filled) +
		strings.Repeat(ProgressEmpty, width-filled)

	return fmt.Sprintf("[%s] %d/%d", bar, p.Done, p.Total)
}

// GetElapsedTime returns the elapsed time since tracking started
func (p *Progress) GetElapsedTime() time.Duration {
	return time.Since(p.StartTime)
}

// PrintStep prints the bar followed by the name of the finished step
func (p *Progress) PrintStep(name string, err error) {
	status := Green("ok")
	if err != nil {
		status = Red("failed")
	}
	writeLine(false, fmt.Sprintf("%s %s %s %s", Magenta(p.Label), p.Bar(), name, status))
}
