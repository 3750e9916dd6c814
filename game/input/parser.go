package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/wricardo/mcp-training/marsrobots/game/engine"
)

var ErrInvalidInput = errors.New("invalid input")

// line is one non-blank input line: either coordinates, optionally followed
// by an orientation, or a bare instruction word
type line struct {
	Coords       *coords `parser:"  @@"`
	Instructions string  `parser:"| @Word"`
}

type coords struct {
	X           int    `parser:"@Int"`
	Y           int    `parser:"@Int"`
	Orientation string `parser:"@Word?"`
}

var lineLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `\d+`},
	{Name: "Word", Pattern: `[A-Za-z]+`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
})

var lineParser = participle.MustBuild[line](
	participle.Lexer(lineLexer),
	participle.Elide("Whitespace"),
)

type expect int

const (
	expectGrid expect = iota
	expectRobot
	expectInstructions
)

// Parse reads the text input format:
//
//	5 3
//	1 1 E
//	RFRFRFRF
//
// The first non-blank line holds the grid's upper-right coordinates. It is
// followed by alternating robot position and instruction lines. Blank lines
// are ignored. A final robot without instructions is kept so that the
// runner can report the count mismatch.
func Parse(r io.Reader) (*engine.World, error) {
	world := &engine.World{}
	state := expectGrid

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		parsed, err := lineParser.ParseString("", text)
		if err != nil {
			return nil, lineError(lineNo, err)
		}

		switch state {
		case expectGrid:
			if err := parseGrid(world, parsed); err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidInput, lineNo, err)
			}
			state = expectRobot
		case expectRobot:
			if err := parseRobot(world, parsed); err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidInput, lineNo, err)
			}
			state = expectInstructions
		case expectInstructions:
			if err := parseInstructions(world, parsed); err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidInput, lineNo, err)
			}
			state = expectRobot
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	if state == expectGrid {
		return nil, fmt.Errorf("%w: missing grid dimensions", ErrInvalidInput)
	}

	return world, nil
}

// ParseString parses input held in memory
func ParseString(s string) (*engine.World, error) {
	return Parse(strings.NewReader(s))
}

// ParseFile parses an input file
func ParseFile(path string) (*engine.World, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	world, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return world, nil
}

func parseGrid(world *engine.World, l *line) error {
	if l.Coords == nil || l.Coords.Orientation != "" {
		return fmt.Errorf("invalid world limit format, expected \"<width> <height>\"")
	}
	bounds := engine.Bounds{MaxWidth: l.Coords.X, MaxHeight: l.Coords.Y}
	if err := engine.ValidateBounds(bounds); err != nil {
		return err
	}
	world.Bounds = bounds
	return nil
}

func parseRobot(world *engine.World, l *line) error {
	if l.Coords == nil || l.Coords.Orientation == "" {
		return fmt.Errorf("invalid robot position format, expected \"<x> <y> <N|E|S|W>\"")
	}
	c := l.Coords
	if c.X > engine.MaxCoordinate || c.Y > engine.MaxCoordinate {
		return fmt.Errorf("coordinates must be at most %d, got (%d,%d)", engine.MaxCoordinate, c.X, c.Y)
	}
	if len(c.Orientation) != 1 || !strings.Contains("NESW", c.Orientation) {
		return fmt.Errorf("%w %q", engine.ErrInvalidOrientation, c.Orientation)
	}
	o, err := engine.ParseOrientation(c.Orientation)
	if err != nil {
		return err
	}

	start := engine.Position{X: c.X, Y: c.Y}
	if world.Bounds.OffGrid(start) {
		return fmt.Errorf("robot start (%d,%d) is outside the %dx%d grid",
			c.X, c.Y, world.Bounds.MaxWidth, world.Bounds.MaxHeight)
	}

	world.Robots = append(world.Robots, engine.RobotSpec{Start: start, Orientation: o})
	return nil
}

func parseInstructions(world *engine.World, l *line) error {
	if l.Coords != nil {
		return fmt.Errorf("invalid instruction format, expected [LRF]{1,%d}", engine.MaxInstructionLength)
	}
	if len(l.Instructions) > engine.MaxInstructionLength {
		return fmt.Errorf("instructions must be at most %d characters, got %d",
			engine.MaxInstructionLength, len(l.Instructions))
	}
	cmds, err := engine.ParseInstructions(l.Instructions)
	if err != nil {
		return err
	}
	world.Instructions = append(world.Instructions, cmds)
	return nil
}

// lineError reports a lexer or grammar failure with its column
func lineError(lineNo int, err error) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		return fmt.Errorf("%w: line %d, column %d: %s",
			ErrInvalidInput, lineNo, perr.Position().Column, perr.Message())
	}
	return fmt.Errorf("%w: line %d: %v", ErrInvalidInput, lineNo, err)
}

// Format renders a world in the text input format. Robots without a
// non-empty instruction set are left out: an empty instruction line would be
// skipped as blank when read back.
func Format(world engine.World) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %d\n", world.Bounds.MaxWidth, world.Bounds.MaxHeight)
	for i, r := range world.Robots {
		if i >= len(world.Instructions) || len(world.Instructions[i]) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%d %d %s\n%s\n", r.Start.X, r.Start.Y, r.Orientation, world.Instructions[i])
	}
	return b.String()
}
