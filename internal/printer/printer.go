package printer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"battleship/internal/game"
)

func init() {
	// Force color output even when not connected to TTY
	// Users can disable with NO_COLOR environment variable
	if os.Getenv("NO_COLOR") == "" {
		color.NoColor = false
	}
}

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
	gray   = color.New(color.FgHiBlack)
	blue   = color.New(color.FgBlue)
)

// Success prints a success message in green with a checkmark prefix
func Success(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "✓") {
		green.Printf("✓ %s", msg)
	} else {
		green.Print(msg)
	}
}

// Info prints an informational message in the default color
func Info(format string, a ...any) {
	fmt.Printf(format, a...)
}

// Warning prints a warning message in yellow
func Warning(format string, a ...any) {
	Fwarning(os.Stdout, format, a...)
}

// Fwarning is Warning writing to w
func Fwarning(w io.Writer, format string, a ...any) {
	yellow.Fprintf(w, "! %s", fmt.Sprintf(format, a...))
}

// Step prints a step message with emphasis
func Step(format string, a ...any) {
	cyan.Printf("→ %s", fmt.Sprintf(format, a...))
}

// Error prints a formatted error (title, explanation, suggestions) to stderr
// and returns a simple error carrying the title for Cobra
func Error(title string, explanation string, suggestions []string) error {
	red.Fprintf(os.Stderr, "%s\n\n", title)
	fmt.Fprintf(os.Stderr, "%s\n", explanation)

	if len(suggestions) > 0 {
		fmt.Fprintf(os.Stderr, "\n")
		if len(suggestions) == 1 {
			fmt.Fprintf(os.Stderr, "%s\n", suggestions[0])
		} else {
			fmt.Fprintf(os.Stderr, "Either:\n")
			for i, suggestion := range suggestions {
				fmt.Fprintf(os.Stderr, "  %d. %s\n", i+1, suggestion)
			}
		}
	}

	return fmt.Errorf("%s", title)
}

// Cell glyphs used by RenderBoard
const (
	GlyphUnknown = '.'
	GlyphMiss    = 'o'
	GlyphHit     = 'X'
	GlyphShip    = '#'
)

// RenderBoard draws the board with column and row labels. Hit ship cells
// are red X, misses gray o; with reveal, unhit ship cells show as #.
func RenderBoard(w io.Writer, b *game.Board, reveal bool) {
	n := b.Size()
	fmt.Fprint(w, "    ")
	for x := 1; x <= n; x++ {
		fmt.Fprintf(w, "%3d", x)
	}
	fmt.Fprintln(w)

	for y := 1; y <= n; y++ {
		fmt.Fprintf(w, "%3d ", y)
		for x := 1; x <= n; x++ {
			p, _ := b.At(x, y)
			fmt.Fprint(w, "  ")
			switch {
			case p.IsHitShip():
				red.Fprintf(w, "%c", GlyphHit)
			case p.IsHit():
				gray.Fprintf(w, "%c", GlyphMiss)
			case reveal && p.HasShip():
				blue.Fprintf(w, "%c", GlyphShip)
			default:
				fmt.Fprintf(w, "%c", GlyphUnknown)
			}
		}
		fmt.Fprintln(w)
	}
}

// RenderFleet lists every ship with its sunk state.
func RenderFleet(w io.Writer, b *game.Board) {
	for _, s := range b.Ships() {
		state := fmt.Sprintf("%d/%d hit", s.Hits(), s.Length())
		if s.IsSunk() {
			red.Fprintf(w, "  %-18s sunk\n", s.Name())
			continue
		}
		fmt.Fprintf(w, "  %-18s %s\n", s.Name(), state)
	}
}
