// FILE: internal/cli/cli.go
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"chesssim/internal/board"
	"chesssim/internal/core"
	"chesssim/internal/game"
	"chesssim/internal/player"
	"chesssim/internal/transport"
)

type ColorTheme string

const (
	ThemeOff   ColorTheme = "off"
	ThemeBrown ColorTheme = "brown"
	ThemeGreen ColorTheme = "green"
	ThemeGray  ColorTheme = "gray"
)

type themeColors struct {
	lightBg string
	darkBg  string
	white   string
	black   string
	prompt  string
	reset   string
}

var themes = map[ColorTheme]themeColors{
	ThemeOff: {},
	ThemeBrown: {
		lightBg: "\033[48;5;230m", // Beige
		darkBg:  "\033[48;5;94m",  // Brown
		white:   "\033[97m",
		black:   "\033[30m",
		prompt:  "\033[33m",
		reset:   "\033[0m",
	},
	ThemeGreen: {
		lightBg: "\033[48;5;157m", // Light green
		darkBg:  "\033[48;5;22m",  // Dark green
		white:   "\033[97m",
		black:   "\033[30m",
		prompt:  "\033[32m",
		reset:   "\033[0m",
	},
	ThemeGray: {
		lightBg: "\033[48;5;251m", // Light gray
		darkBg:  "\033[48;5;240m", // Dark gray
		white:   "\033[97m",
		black:   "\033[30m",
		prompt:  "\033[37m",
		reset:   "\033[0m",
	},
}

type CLI struct {
	input   player.LineSource
	output  io.Writer
	theme   ColorTheme
	verbose bool
}

var _ transport.Console = (*CLI)(nil)

func New(input player.LineSource, output io.Writer) *CLI {
	return &CLI{
		input:  input,
		output: output,
		theme:  ThemeOff,
	}
}

func (c *CLI) Input() player.LineSource { return c.input }
func (c *CLI) Output() io.Writer        { return c.output }

// GetCommand shows prompt and reads one command. End of input reads as quit.
func (c *CLI) GetCommand(prompt string) (*transport.Command, error) {
	line, err := c.input.Line(c.colorPrompt(prompt))
	if errors.Is(err, io.EOF) {
		return &transport.Command{Type: transport.CmdQuit}, nil
	}
	if err != nil {
		return nil, err
	}
	return ParseCommand(line), nil
}

// ParseCommand maps a line to a command; an unknown word is taken as a move.
func ParseCommand(input string) *transport.Command {
	input = strings.TrimSpace(input)
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return &transport.Command{Type: transport.CmdNone}
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "new":
		return &transport.Command{Type: transport.CmdNew, Args: args}
	case "load":
		return &transport.Command{Type: transport.CmdLoad, Args: args, Raw: input}
	case "save":
		return &transport.Command{Type: transport.CmdSave, Args: args, Raw: input}
	case "play":
		return &transport.Command{Type: transport.CmdPlay}
	case "step", "s":
		return &transport.Command{Type: transport.CmdStep}
	case "moves":
		return &transport.Command{Type: transport.CmdMoves}
	case "move", "m":
		return &transport.Command{Type: transport.CmdMove, Args: args}
	case "players":
		return &transport.Command{Type: transport.CmdPlayers, Args: args}
	case "depth":
		return &transport.Command{Type: transport.CmdDepth, Args: args}
	case "undo":
		return &transport.Command{Type: transport.CmdUndo, Args: args}
	case "color":
		return &transport.Command{Type: transport.CmdColor, Args: args}
	case "verbose":
		return &transport.Command{Type: transport.CmdVerbose}
	case "history":
		return &transport.Command{Type: transport.CmdHistory}
	case "help", "?":
		return &transport.Command{Type: transport.CmdHelp}
	case "quit", "exit":
		return &transport.Command{Type: transport.CmdQuit}
	default:
		// Assume it's a move
		return &transport.Command{Type: transport.CmdMove, Args: []string{input}, Raw: input}
	}
}

func (c *CLI) SetTheme(theme string) error {
	t := ColorTheme(strings.ToLower(theme))
	if _, ok := themes[t]; !ok {
		return fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", theme)
	}
	c.theme = t
	return nil
}

func (c *CLI) Theme() ColorTheme { return c.theme }

func (c *CLI) ToggleVerbose() bool {
	c.verbose = !c.verbose
	return c.verbose
}

func (c *CLI) IsVerbose() bool {
	return c.verbose
}

func (c *CLI) ShowMessage(msg string) {
	fmt.Fprintln(c.output, msg)
}

func (c *CLI) ShowError(err error) {
	c.ShowMessage(fmt.Sprintf("Error: %v", err))
}

func (c *CLI) ShowPrompt(prompt string) {
	fmt.Fprint(c.output, c.colorPrompt(prompt))
}

func (c *CLI) colorPrompt(prompt string) string {
	t := themes[c.theme]
	if t.prompt == "" || prompt == "" {
		return prompt
	}
	return t.prompt + prompt + t.reset
}

// DisplayBoard draws b with file letters and rank numbers on every side. a1 is a dark square.
func (c *CLI) DisplayBoard(b *board.Board) {
	theme := themes[c.theme]
	numWidth := len(fmt.Sprint(b.Height()))

	var files strings.Builder
	files.WriteString(strings.Repeat(" ", numWidth+1))
	for x := 0; x < b.Width(); x++ {
		fmt.Fprintf(&files, "%c ", 'a'+x)
	}

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(strings.TrimRight(files.String(), " "))
	sb.WriteString("\n")

	for y := b.Height() - 1; y >= 0; y-- {
		fmt.Fprintf(&sb, "%*d ", numWidth, y+1)
		for x := 0; x < b.Width(); x++ {
			piece := b.At(board.Cell{X: x, Y: y})

			if c.theme == ThemeOff {
				fmt.Fprintf(&sb, "%c ", piece.Glyph())
				continue
			}

			bg := theme.lightBg
			if (x+y)%2 == 0 {
				bg = theme.darkBg
			}
			if piece == board.Empty {
				fmt.Fprintf(&sb, "%s  %s", bg, theme.reset)
				continue
			}
			color := theme.black
			if piece.Team() == core.TeamWhite {
				color = theme.white
			}
			fmt.Fprintf(&sb, "%s%s%c %s", bg, color, piece.Glyph(), theme.reset)
		}
		fmt.Fprintf(&sb, " %d\n", y+1)
	}
	sb.WriteString(strings.TrimRight(files.String(), " "))
	sb.WriteString("\n")

	c.ShowMessage(sb.String())
}

func (c *CLI) ShowMoves(team core.Team, moves []board.Move) {
	if len(moves) == 0 {
		c.ShowMessage(fmt.Sprintf("%s has no legal moves.", team))
		return
	}
	c.ShowMessage(fmt.Sprintf("%s to move (%d): %s", team, len(moves), board.FormatMoves(moves)))
}

func (c *CLI) ShowHelp() {
	help := `Commands:
  new [w h]             - Start a new game, optionally on a w x h board
  load <file>           - Start a new game from a board file
  save <file>           - Write the current board to a file
  <move> | move <move>  - Make a move (e.g., a2a3, b1c3)
  ENTER                 - Execute computer move (when it's computer's turn)
  step                  - Let the side to move play one turn
  play                  - Play turns until the game ends
  moves                 - List legal moves
  players <w> <b>       - Change players (human|random|capture|kingcapture|ai)
  depth <n>             - Set AI search depth
  undo [count]          - Undo last move(s), default 1
  color <theme>         - Set board color theme (off|brown|green|gray)
  verbose               - Toggle detailed move information
  history               - Show game move history
  quit/exit             - Exit the program
  help/?                - Show this help message

Human players may answer a move prompt with 'resign'.`

	c.ShowMessage(help)
}

func (c *CLI) ShowWelcome() {
	c.ShowMessage("Welcome to Chess!")
	c.ShowMessage("Commands: new, load <file>, <move>, play, moves, undo, quit/exit, verbose, history, help/?")
	c.ShowMessage("Press ENTER to execute computer moves when it's computer's turn.")
	c.ShowMessage("")
}

func (c *CLI) ShowGameHistory(moves []string, state core.State) {
	if len(moves) == 0 {
		c.ShowMessage("No moves yet.")
	}
	for i := 0; i < len(moves); i += 2 {
		moveNum := i/2 + 1
		if i+1 < len(moves) {
			c.ShowMessage(fmt.Sprintf("%d. %s | %s", moveNum, moves[i], moves[i+1]))
		} else {
			c.ShowMessage(fmt.Sprintf("%d. %s | ...", moveNum, moves[i]))
		}
	}
	c.ShowMessage(fmt.Sprintf("Game state: %s", state))
}

// ShowMove reports a played turn. Human moves are only echoed in verbose mode.
func (c *CLI) ShowMove(r *game.MoveResult) {
	switch {
	case r.Stalled:
		c.ShowMessage(fmt.Sprintf("%s has no legal moves.", r.Player))
	case r.Resigned:
		c.ShowMessage(fmt.Sprintf("%s resigns.", r.Player))
	case !r.Kind.IsComputer():
		if c.verbose {
			c.ShowMessage(fmt.Sprintf("Your move: %s", r.Move))
		}
	case c.verbose && r.Kind == core.PlayerAI:
		c.ShowMessage(fmt.Sprintf("Computer (%s, %s): %s (depth=%d, score=%d, nodes=%d)",
			r.Player.Code(), r.Kind, r.Move, r.Depth, r.Score, r.Nodes))
	case c.verbose:
		c.ShowMessage(fmt.Sprintf("Computer (%s, %s): %s", r.Player.Code(), r.Kind, r.Move))
	default:
		c.ShowMessage(fmt.Sprintf("Computer (%s): %s", r.Player.Code(), r.Move))
	}
}

func (c *CLI) ShowGameOver(state core.State) {
	c.ShowMessage(fmt.Sprintf("\nGame Over: %s", state))
	c.ShowMessage("Start a new game with 'new' or 'load', or take moves back with 'undo'.")
}
