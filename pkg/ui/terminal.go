package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// ASCII logo for the application
const ASCIILogo = `
    ┌───┬───┬───┬───┬───┬───┬───┬───┐
    │ ♜ │ ♞ │ ♝ │ ♛ │ ♚ │ ♝ │ ♞ │ ♜ │   chesskit
    ├───┴───┴───┴───┴───┴───┴───┴───┤   opening diagrams
    │ ♙   ♙   ♙   ♙   ♙   ♙   ♙   ♙ │   game archives
    └───────────────────────────────┘
`

var (
	mu    sync.Mutex
	out   io.Writer = os.Stdout
	color           = term.IsTerminal(int(os.Stdout.Fd()))
	quiet bool
)

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// SetOutput redirects all printing, for example to a buffer in tests.
// Colors are switched off unless the writer is a terminal. Nil restores stdout.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stdout
	}
	out = w
	f, ok := w.(*os.File)
	color = ok && term.IsTerminal(int(f.Fd()))
}

// SetColor forces colored output on or off
func SetColor(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	color = enabled
}

// SetQuiet suppresses everything except errors
func SetQuiet(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = enabled
}

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		mu.Lock()
		enabled := color
		mu.Unlock()
		if !enabled {
			return text
		}
		return fmt.Sprintf(colorString, text)
	}
}

func writeLine(errorLine bool, s string) {
	mu.Lock()
	defer mu.Unlock()
	if quiet && !errorLine {
		return
	}
	fmt.Fprintln(out, s)
}

// PrintLogo prints the ASCII logo with color
func PrintLogo() {
	writeLine(false, Cyan(ASCIILogo))
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		writeLine(true, Red(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		writeLine(true, Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	writeLine(false, Green(msg))
}

// PrintInfo prints an info message in cyan
func PrintInfo(label string, value string) {
	writeLine(false, fmt.Sprintf("%s: %s", Cyan(label), Yellow(value)))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		writeLine(false, Yellow(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		writeLine(false, Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	writeLine(false, Magenta(msg))
}

// Println prints an uncolored line
func Println(msg string) {
	writeLine(false, msg)
}
