package player

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"chesssim/internal/board"
	"chesssim/internal/core"
)

const movePrompt = "What's your move?: "

// LineSource supplies one line of user input per call, showing prompt first.
type LineSource interface {
	Line(prompt string) (string, error)
}

type scannerSource struct {
	sc  *bufio.Scanner
	out io.Writer
}

// NewLineSource reads lines from r and writes prompts to w.
func NewLineSource(r io.Reader, w io.Writer) LineSource {
	return &scannerSource{sc: bufio.NewScanner(r), out: w}
}

func (s *scannerSource) Line(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.sc.Text(), nil
}

// Human asks for moves in "a2a3" notation until a legal one is entered.
type Human struct {
	base
	in  LineSource
	out io.Writer
}

func NewHuman(team core.Team, in LineSource, out io.Writer) *Human {
	return &Human{base: base{team: team, kind: core.PlayerHuman}, in: in, out: out}
}

func (p *Human) Move(_ *board.Board, moves []board.Move) (board.Move, error) {
	if len(moves) == 0 {
		return board.Move{}, ErrNoMoves
	}
	for {
		line, err := p.in.Line(movePrompt)
		if err != nil {
			return board.Move{}, err
		}
		text := strings.TrimSpace(line)
		if strings.EqualFold(text, "resign") {
			return board.Move{}, ErrResigned
		}
		if m, err := board.ParseMove(text); err == nil && board.ContainsMove(moves, m) {
			return m, nil
		}
		fmt.Fprintf(p.out, "%s is not a valid move! Please choose one of the following moves:\n%s\n",
			text, board.FormatMoves(moves))
	}
}
