package board

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Text layout, highest row first:
//
//	   abcdefgh
//	 8 ♜♞♝♛♚♝♞♜ 8
//	 ...
//	 1 ♖♘♗♕♔♗♘♖ 1
//	   abcdefgh
//
// Row numbers are right-aligned to the widest one; the header is indented to match.

// Encoder writes boards to a stream one after another.
type Encoder struct {
	w io.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) Encode(b *Board) error {
	_, err := io.WriteString(e.w, b.String())
	return err
}

func (b *Board) String() string {
	var sb strings.Builder
	numWidth := len(strconv.Itoa(b.height))

	header := strings.Repeat(" ", numWidth+2)
	for x := 0; x < b.width; x++ {
		header += string(rune('a' + x))
	}
	sb.WriteString(header)
	sb.WriteByte('\n')

	for y := b.height - 1; y >= 0; y-- {
		fmt.Fprintf(&sb, " %*d ", numWidth, y+1)
		for x := 0; x < b.width; x++ {
			sb.WriteRune(b.squares[b.index(Cell{x, y})].Glyph())
		}
		fmt.Fprintf(&sb, " %d\n", y+1)
	}

	sb.WriteString(header)
	sb.WriteByte('\n')
	return sb.String()
}

// Decoder reads boards written by Encoder, in order.
type Decoder struct {
	r    *bufio.Reader
	line int
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Parse decodes a single board from s.
func Parse(s string) (*Board, error) {
	return NewDecoder(strings.NewReader(s)).Decode()
}

// Decode reads the next board. Width comes from the header letters, height from the first
// rank number. The decoded board has White to move. Unknown glyphs fail with ErrUnknownGlyph.
// io.EOF is returned only when the stream holds no further board.
func (d *Decoder) Decode() (*Board, error) {
	header, err := d.nextLine(true)
	if err != nil {
		return nil, err
	}
	width := 0
	for _, r := range header {
		if r == ' ' {
			continue
		}
		if r != rune('a'+width) {
			return nil, d.malformed("header column %q out of order", r)
		}
		width++
	}
	if width < MinWidth || width > MaxWidth {
		return nil, fmt.Errorf("line %d: %w: width %d", d.line, ErrDimensions, width)
	}

	var b *Board
	height, expect := 0, 0
	for {
		line, err := d.nextLine(false)
		if err != nil {
			return nil, d.truncated(err)
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, d.malformed("rank line needs 3 fields, got %d", len(fields))
		}
		row, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, d.malformed("rank number %q", fields[0])
		}
		if b == nil {
			height = row
			if height < MinHeight || height > MaxHeight {
				return nil, fmt.Errorf("line %d: %w: height %d", d.line, ErrDimensions, height)
			}
			b = newEmpty(width, height)
		} else if row != expect {
			return nil, d.malformed("expected rank %d, got rank %d", expect, row)
		}
		y := row - 1
		expect = row - 1
		if trailer, err := strconv.Atoi(fields[2]); err != nil || trailer != row {
			return nil, d.malformed("rank %d closed by %q", row, fields[2])
		}
		if err := d.decodeRank(b, y, fields[1]); err != nil {
			return nil, err
		}
		if y == 0 {
			break
		}
	}

	footer, err := d.nextLine(false)
	if err != nil {
		return nil, d.truncated(err)
	}
	if strings.TrimSpace(footer) != strings.TrimSpace(header) {
		return nil, d.malformed("footer %q does not match header", footer)
	}
	return b, nil
}

func (d *Decoder) decodeRank(b *Board, y int, glyphs string) error {
	runes := []rune(glyphs)
	if len(runes) != b.width {
		return d.malformed("rank %d has %d cells, want %d", y+1, len(runes), b.width)
	}
	for x, g := range runes {
		p, err := PieceFromGlyph(g)
		if err != nil {
			return fmt.Errorf("line %d, cell %s: %w", d.line, Cell{x, y}, err)
		}
		b.squares[b.index(Cell{x, y})] = p
	}
	return nil
}

// nextLine returns the next line without its terminator. Leading blank lines are skipped
// only before a header, so boards may be separated by empty lines.
func (d *Decoder) nextLine(skipBlank bool) (string, error) {
	for {
		line, err := d.r.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", err
		}
		d.line++
		line = strings.TrimRight(line, "\r\n")
		if skipBlank && strings.TrimSpace(line) == "" {
			if err != nil {
				return "", io.EOF
			}
			continue
		}
		return line, nil
	}
}

func (d *Decoder) malformed(format string, args ...any) error {
	return fmt.Errorf("line %d: %w: %s", d.line, ErrMalformedBoard, fmt.Sprintf(format, args...))
}

func (d *Decoder) truncated(err error) error {
	if errors.Is(err, io.EOF) {
		return d.malformed("unexpected end of input")
	}
	return err
}
