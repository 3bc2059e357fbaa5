package board

import (
	"fmt"
	"strconv"
	"strings"
)

// Cell is a 0-based coordinate: X is the column (a, b, ...), Y the row (1, 2, ...).
type Cell struct {
	X, Y int
}

// Move is a source/destination pair. Special effects belong to the moving piece's rule.
type Move struct {
	From, To Cell
}

func (c Cell) String() string {
	if c.X < 0 || c.X >= MaxWidth || c.Y < 0 {
		return fmt.Sprintf("(%d,%d)", c.X, c.Y)
	}
	return fmt.Sprintf("%c%d", 'a'+c.X, c.Y+1)
}

func (m Move) String() string {
	return m.From.String() + m.To.String()
}

// ParseCell reads "a1"-style notation.
func ParseCell(s string) (Cell, error) {
	c, rest, err := scanCell(s)
	if err != nil {
		return Cell{}, err
	}
	if rest != "" {
		return Cell{}, fmt.Errorf("%w: trailing %q in %q", ErrBadNotation, rest, s)
	}
	return c, nil
}

// ParseMove reads "<from><to>" notation such as "a2a4". Whitespace is ignored.
func ParseMove(s string) (Move, error) {
	compact := strings.Join(strings.Fields(s), "")
	from, rest, err := scanCell(compact)
	if err != nil {
		return Move{}, err
	}
	to, rest, err := scanCell(rest)
	if err != nil {
		return Move{}, err
	}
	if rest != "" {
		return Move{}, fmt.Errorf("%w: trailing %q in %q", ErrBadNotation, rest, s)
	}
	return Move{From: from, To: to}, nil
}

func scanCell(s string) (Cell, string, error) {
	if len(s) < 2 {
		return Cell{}, "", fmt.Errorf("%w: %q is too short", ErrBadNotation, s)
	}
	col := s[0]
	if col < 'a' || col > 'z' {
		return Cell{}, "", fmt.Errorf("%w: column %q", ErrBadNotation, col)
	}
	i := 1
	for i < len(s) && i < 3 && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 1 {
		return Cell{}, "", fmt.Errorf("%w: missing row in %q", ErrBadNotation, s)
	}
	row, err := strconv.Atoi(s[1:i])
	if err != nil || row < 1 {
		return Cell{}, "", fmt.Errorf("%w: row %q", ErrBadNotation, s[1:i])
	}
	return Cell{X: int(col - 'a'), Y: row - 1}, s[i:], nil
}

// ContainsMove reports whether m is in moves.
func ContainsMove(moves []Move, m Move) bool {
	for _, mv := range moves {
		if mv == m {
			return true
		}
	}
	return false
}

// FormatMoves joins moves with single spaces.
func FormatMoves(moves []Move) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}
